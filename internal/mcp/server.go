package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/config"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/dbpool"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/query"
)

// Server serves the MCP protocol over a line-delimited JSON-RPC stream,
// normally stdin/stdout. The pool and executor are injected at construction
// and read-only afterwards.
type Server struct {
	pool *dbpool.Pool
	exec *query.Executor
	cfg  *config.Config

	in  io.Reader
	out io.Writer
}

// NewServer wires the protocol layer to an initialized pool.
func NewServer(cfg *config.Config, pool *dbpool.Pool, exec *query.Executor, in io.Reader, out io.Writer) *Server {
	return &Server{pool: pool, exec: exec, cfg: cfg, in: in, out: out}
}

// Run reads requests until EOF or context cancellation. Responses are
// written one per line; notifications produce no response.
func (s *Server) Run(ctx context.Context) error {
	reader := bufio.NewReader(s.in)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := s.handleMessage(ctx, []byte(line))
		if response == nil {
			continue
		}
		data, err := json.Marshal(response)
		if err != nil {
			slog.Error("marshal response failed", "error", err)
			continue
		}
		if _, err := fmt.Fprintln(s.out, string(data)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &Error{Code: ParseError, Message: "Parse error", Data: err.Error()},
		}
	}

	if req.JSONRPC != "2.0" {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: InvalidRequest, Message: "Invalid JSON-RPC version"},
		}
	}

	return s.handleRequest(ctx, &req)
}

func (s *Server) handleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	var result any
	var rpcErr *Error

	switch req.Method {
	case "initialize":
		result, rpcErr = s.handleInitialize(req.Params)
	case "initialized", "notifications/initialized":
		return nil
	case "tools/list":
		result, rpcErr = s.handleListTools()
	case "tools/call":
		result, rpcErr = s.handleCallTool(ctx, req.Params)
	case "resources/list":
		result, rpcErr = s.handleListResources(ctx)
	case "resources/read":
		result, rpcErr = s.handleReadResource(ctx, req.Params)
	case "ping":
		result = map[string]any{}
	default:
		rpcErr = &Error{Code: MethodNotFound, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}

	return &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result, Error: rpcErr}
}

func (s *Server) handleInitialize(params json.RawMessage) (*InitializeResult, *Error) {
	var initParams InitializeParams
	if params != nil {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, &Error{Code: InvalidParams, Message: "Invalid initialize parameters", Data: err.Error()}
		}
	}

	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo: ServerInfo{Name: ServerName, Version: ServerVersion},
	}, nil
}
