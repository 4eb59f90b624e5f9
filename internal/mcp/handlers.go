package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/multisite"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/query"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/sqlguard"
)

// catalogLimit bounds internally constructed catalog queries (column and
// index listings), which are not subject to the caller's row limit.
const catalogLimit = 10000

var commonProps = map[string]Property{
	"site_id": {Type: "integer", Description: "Multisite blog ID (1 or omitted for the main site)"},
	"format":  {Type: "string", Description: "Output format: json or csv (default json)"},
	"limit":   {Type: "integer", Description: "Maximum rows to return (capped by the server's configured ceiling)"},
}

func schemaWith(required []string, props map[string]Property) InputSchema {
	merged := make(map[string]Property, len(props)+len(commonProps))
	for k, v := range commonProps {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	return InputSchema{Type: "object", Properties: merged, Required: required}
}

func (s *Server) handleListTools() (*ListToolsResult, *Error) {
	return &ListToolsResult{
		Tools: []Tool{
			{
				Name:        "wp_query",
				Description: "Execute a read-only SQL query against the WordPress database (SELECT, SHOW, DESCRIBE, EXPLAIN only)",
				InputSchema: schemaWith([]string{"sql"}, map[string]Property{
					"sql": {Type: "string", Description: "The SQL statement to execute"},
				}),
			},
			{
				Name:        "wp_search_posts",
				Description: "Search posts by title or content, optionally filtered by post_type and post_status",
				InputSchema: schemaWith([]string{"search"}, map[string]Property{
					"search":      {Type: "string", Description: "Search term (LIKE match against title and content)"},
					"post_type":   {Type: "string", Description: "Filter by post_type (e.g. post, page, product)"},
					"post_status": {Type: "string", Description: "Filter by post_status (e.g. publish, draft)"},
				}),
			},
			{
				Name:        "wp_list_tables",
				Description: "List database tables with engine, row estimate and size",
				InputSchema: schemaWith(nil, map[string]Property{
					"filter":    {Type: "string", Description: "LIKE pattern for table names (defaults to the site prefix)"},
					"core_only": {Type: "boolean", Description: "Only include WordPress core tables, excluding plugin tables"},
				}),
			},
			{
				Name:        "wp_describe_table",
				Description: "Show column definitions and indexes for a table; accepts a full name (wp_posts) or a bare suffix (posts)",
				InputSchema: schemaWith([]string{"table"}, map[string]Property{
					"table": {Type: "string", Description: "Table name or core suffix"},
				}),
			},
			{
				Name:        "wp_get_post_meta",
				Description: "Get meta key-value pairs for a post (ACF fields, WooCommerce data, SEO metadata)",
				InputSchema: schemaWith([]string{"post_id"}, map[string]Property{
					"post_id":  {Type: "integer", Description: "Post ID"},
					"meta_key": {Type: "string", Description: "Filter by meta_key (exact match, or LIKE when it contains %)"},
				}),
			},
			{
				Name:        "wp_get_user_meta",
				Description: "Get meta key-value pairs for a user",
				InputSchema: schemaWith([]string{"user_id"}, map[string]Property{
					"user_id":  {Type: "integer", Description: "User ID"},
					"meta_key": {Type: "string", Description: "Filter by meta_key (exact match, or LIKE when it contains %)"},
				}),
			},
			{
				Name:        "wp_get_comment_meta",
				Description: "Get meta key-value pairs for a comment",
				InputSchema: schemaWith([]string{"comment_id"}, map[string]Property{
					"comment_id": {Type: "integer", Description: "Comment ID"},
					"meta_key":   {Type: "string", Description: "Filter by meta_key (exact match, or LIKE when it contains %)"},
				}),
			},
			{
				Name:        "wp_get_post_terms",
				Description: "Get taxonomy terms attached to a post (categories, tags, custom taxonomies)",
				InputSchema: schemaWith([]string{"post_id"}, map[string]Property{
					"post_id":  {Type: "integer", Description: "Post ID"},
					"taxonomy": {Type: "string", Description: "Filter by taxonomy (e.g. category, post_tag)"},
				}),
			},
			{
				Name:        "wp_get_term_posts",
				Description: "Get posts attached to a taxonomy term",
				InputSchema: schemaWith([]string{"term_id"}, map[string]Property{
					"term_id":     {Type: "integer", Description: "Term ID"},
					"post_type":   {Type: "string", Description: "Filter by post_type"},
					"post_status": {Type: "string", Description: "Filter by post_status"},
				}),
			},
			{
				Name:        "wp_list_taxonomies",
				Description: "List taxonomies registered in the database with term counts and total usage",
				InputSchema: schemaWith(nil, nil),
			},
			{
				Name:        "wp_get_schema",
				Description: "Generate a full database schema: tables, columns, indexes and known WordPress relationships",
				InputSchema: schemaWith(nil, map[string]Property{
					"include_plugins": {Type: "boolean", Description: "Include plugin tables beyond the WordPress core set"},
				}),
			},
			{
				Name:        "wp_list_sites",
				Description: "Discover multisite sub-sites by inspecting table name prefixes",
				InputSchema: schemaWith(nil, nil),
			},
		},
	}, nil
}

func (s *Server) handleCallTool(ctx context.Context, params json.RawMessage) (*CallToolResult, *Error) {
	var callParams CallToolParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &Error{Code: InvalidParams, Message: "Invalid parameters", Data: err.Error()}
	}

	args := callParams.Arguments
	switch callParams.Name {
	case "wp_query":
		return s.toolQuery(ctx, args)
	case "wp_search_posts":
		return s.toolSearchPosts(ctx, args)
	case "wp_list_tables":
		return s.toolListTables(ctx, args)
	case "wp_describe_table":
		return s.toolDescribeTable(ctx, args)
	case "wp_get_post_meta":
		return s.toolGetMeta(ctx, args, "post_id", "postmeta")
	case "wp_get_user_meta":
		return s.toolGetMeta(ctx, args, "user_id", "usermeta")
	case "wp_get_comment_meta":
		return s.toolGetMeta(ctx, args, "comment_id", "commentmeta")
	case "wp_get_post_terms":
		return s.toolGetPostTerms(ctx, args)
	case "wp_get_term_posts":
		return s.toolGetTermPosts(ctx, args)
	case "wp_list_taxonomies":
		return s.toolListTaxonomies(ctx, args)
	case "wp_get_schema":
		return s.toolGetSchema(ctx, args)
	case "wp_list_sites":
		return s.toolListSites(ctx, args)
	default:
		return nil, &Error{Code: MethodNotFound, Message: fmt.Sprintf("Unknown tool: %s", callParams.Name)}
	}
}

func (s *Server) toolQuery(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	stmt, ok := argString(args, "sql")
	if !ok || stmt == "" {
		return nil, &Error{Code: InvalidParams, Message: "Missing or invalid 'sql' parameter"}
	}

	if res := sqlguard.Validate(stmt); !res.Allowed {
		return errResult(errorJSON(res.Err().Error(), "validation_error")), nil
	}

	limit := s.limitArg(args)
	rs, err := s.exec.Execute(ctx, stmt, nil, limit)
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	return s.rowsResult(rs, args, map[string]any{
		"row_count": len(rs.Rows),
		"has_more":  rs.HasMore,
		"limit":     limit,
	})
}

func (s *Server) toolSearchPosts(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	search, ok := argString(args, "search")
	if !ok || search == "" {
		return nil, &Error{Code: InvalidParams, Message: "Missing or invalid 'search' parameter"}
	}

	prefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	pattern := "%" + escapeLike(search) + "%"

	stmt := "SELECT ID, post_title, post_type, post_status, post_date, post_author, " +
		"SUBSTRING(post_content, 1, 200) AS content_preview " +
		"FROM `" + prefix + "posts` " +
		"WHERE (post_title LIKE ? OR post_content LIKE ?)"
	queryArgs := []any{pattern, pattern}

	if postType, ok := argString(args, "post_type"); ok && postType != "" {
		stmt += " AND post_type = ?"
		queryArgs = append(queryArgs, postType)
	}
	if postStatus, ok := argString(args, "post_status"); ok && postStatus != "" {
		stmt += " AND post_status = ?"
		queryArgs = append(queryArgs, postStatus)
	}
	stmt += " ORDER BY post_date DESC"

	limit := s.limitArg(args)
	rs, err := s.exec.Execute(ctx, stmt, queryArgs, limit)
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	return s.rowsResult(rs, args, map[string]any{
		"row_count": len(rs.Rows),
		"has_more":  rs.HasMore,
	})
}

func (s *Server) toolListTables(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	sitePrefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	pattern, ok := argString(args, "filter")
	if !ok || pattern == "" {
		pattern = sitePrefix + "%"
	}

	stmt, queryArgs := s.pool.Dialect().TableStatusQuery(s.pool.Database(), pattern)
	rs, err := s.exec.Execute(ctx, stmt, queryArgs, s.limitArg(args))
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	if coreOnly, _ := args["core_only"].(bool); coreOnly {
		core := make(map[string]bool, len(multisite.CoreSuffixes))
		for _, suffix := range multisite.CoreSuffixes {
			core[sitePrefix+suffix] = true
		}
		kept := rs.Rows[:0]
		for _, row := range rs.Rows {
			if name, ok := row["TABLE_NAME"].(string); ok && core[name] {
				kept = append(kept, row)
			}
		}
		rs.Rows = kept
	}

	return s.rowsResult(rs, args, nil)
}

func (s *Server) toolDescribeTable(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	tableArg, ok := argString(args, "table")
	if !ok || tableArg == "" {
		return nil, &Error{Code: InvalidParams, Message: "Missing or invalid 'table' parameter"}
	}

	sitePrefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	table := multisite.ResolveTable(sitePrefix, tableArg)

	colStmt, colArgs := s.pool.Dialect().ColumnsQuery(s.pool.Database(), table)
	cols, err := s.exec.Execute(ctx, colStmt, colArgs, catalogLimit)
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}
	if len(cols.Rows) == 0 {
		return errResult(errorJSON(fmt.Sprintf("table %q not found", table), "table_not_found")), nil
	}

	idxStmt, idxArgs := s.pool.Dialect().IndexesQuery(s.pool.Database(), table)
	idxs, err := s.exec.Execute(ctx, idxStmt, idxArgs, catalogLimit)
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	if format, _ := argString(args, "format"); strings.EqualFold(format, "csv") {
		text, err := rowsToCSV(cols)
		if err != nil {
			return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
		}
		return textResult(text), nil
	}

	colRows, err := marshalRows(cols)
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
	}
	idxRows, err := marshalRows(idxs)
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
	}
	data, err := json.MarshalIndent(map[string]any{
		"table":   table,
		"columns": colRows,
		"indexes": idxRows,
	}, "", "  ")
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
	}
	return textResult(string(data)), nil
}

// toolGetMeta serves the three *_meta tools; they differ only in table
// suffix and ID column.
func (s *Server) toolGetMeta(ctx context.Context, args map[string]any, idColumn, tableSuffix string) (*CallToolResult, *Error) {
	id, ok := argIntStrict(args, idColumn)
	if !ok {
		return nil, &Error{Code: InvalidParams, Message: fmt.Sprintf("Missing or invalid '%s' parameter", idColumn)}
	}

	prefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	stmt := "SELECT * FROM `" + prefix + tableSuffix + "` WHERE " + idColumn + " = ?"
	queryArgs := []any{id}

	if metaKey, ok := argString(args, "meta_key"); ok && metaKey != "" {
		if strings.Contains(metaKey, "%") {
			stmt += " AND meta_key LIKE ?"
		} else {
			stmt += " AND meta_key = ?"
		}
		queryArgs = append(queryArgs, metaKey)
	}
	stmt += " ORDER BY meta_key"

	rs, err := s.exec.Execute(ctx, stmt, queryArgs, s.limitArg(args))
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	return s.rowsResult(rs, args, map[string]any{idColumn: id})
}

// toolGetPostTerms walks posts -> term_relationships -> term_taxonomy ->
// terms for one post.
func (s *Server) toolGetPostTerms(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	postID, ok := argIntStrict(args, "post_id")
	if !ok {
		return nil, &Error{Code: InvalidParams, Message: "Missing or invalid 'post_id' parameter"}
	}

	prefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	stmt := "SELECT t.term_id, t.name, t.slug, tt.taxonomy, tt.description, tt.count, tt.parent " +
		"FROM `" + prefix + "term_relationships` tr " +
		"JOIN `" + prefix + "term_taxonomy` tt ON tr.term_taxonomy_id = tt.term_taxonomy_id " +
		"JOIN `" + prefix + "terms` t ON tt.term_id = t.term_id " +
		"WHERE tr.object_id = ?"
	queryArgs := []any{postID}

	if taxonomy, ok := argString(args, "taxonomy"); ok && taxonomy != "" {
		stmt += " AND tt.taxonomy = ?"
		queryArgs = append(queryArgs, taxonomy)
	}
	stmt += " ORDER BY tt.taxonomy, t.name"

	rs, err := s.exec.Execute(ctx, stmt, queryArgs, s.limitArg(args))
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	return s.rowsResult(rs, args, map[string]any{"post_id": postID})
}

// toolGetTermPosts walks the same chain in reverse: terms -> term_taxonomy ->
// term_relationships -> posts.
func (s *Server) toolGetTermPosts(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	termID, ok := argIntStrict(args, "term_id")
	if !ok {
		return nil, &Error{Code: InvalidParams, Message: "Missing or invalid 'term_id' parameter"}
	}

	prefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	stmt := "SELECT p.ID, p.post_title, p.post_type, p.post_status, p.post_date, p.post_author, tt.taxonomy " +
		"FROM `" + prefix + "terms` t " +
		"JOIN `" + prefix + "term_taxonomy` tt ON t.term_id = tt.term_id " +
		"JOIN `" + prefix + "term_relationships` tr ON tt.term_taxonomy_id = tr.term_taxonomy_id " +
		"JOIN `" + prefix + "posts` p ON tr.object_id = p.ID " +
		"WHERE t.term_id = ?"
	queryArgs := []any{termID}

	if postType, ok := argString(args, "post_type"); ok && postType != "" {
		stmt += " AND p.post_type = ?"
		queryArgs = append(queryArgs, postType)
	}
	if postStatus, ok := argString(args, "post_status"); ok && postStatus != "" {
		stmt += " AND p.post_status = ?"
		queryArgs = append(queryArgs, postStatus)
	}
	stmt += " ORDER BY p.post_date DESC"

	rs, err := s.exec.Execute(ctx, stmt, queryArgs, s.limitArg(args))
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	return s.rowsResult(rs, args, map[string]any{
		"term_id":  termID,
		"has_more": rs.HasMore,
	})
}

func (s *Server) toolListTaxonomies(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	prefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))
	stmt := "SELECT taxonomy, COUNT(*) AS term_count, SUM(`count`) AS total_usage " +
		"FROM `" + prefix + "term_taxonomy` " +
		"GROUP BY taxonomy " +
		"ORDER BY term_count DESC, taxonomy"

	rs, err := s.exec.Execute(ctx, stmt, nil, s.limitArg(args))
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	return s.rowsResult(rs, args, nil)
}

// toolGetSchema dumps the schema of every site table: columns and indexes per
// table plus the known WordPress relationships between the tables present.
// Core tables only unless include_plugins is set.
func (s *Server) toolGetSchema(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	sitePrefix := multisite.ResolvePrefix(s.pool.Prefix(), argInt(args, "site_id", 0))

	all, err := s.pool.ListTables(ctx)
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	includePlugins, _ := args["include_plugins"].(bool)
	core := make(map[string]bool, len(multisite.CoreSuffixes))
	for _, suffix := range multisite.CoreSuffixes {
		core[sitePrefix+suffix] = true
	}
	var tables []string
	for _, name := range all {
		if !strings.HasPrefix(name, sitePrefix) {
			continue
		}
		if !includePlugins && !core[name] {
			continue
		}
		tables = append(tables, name)
	}

	type tableSchema struct {
		Columns json.RawMessage `json:"columns"`
		Indexes json.RawMessage `json:"indexes"`
	}
	schema := make(map[string]tableSchema, len(tables))
	colSets := make(map[string]*query.RowSet, len(tables))
	for _, table := range tables {
		colStmt, colArgs := s.pool.Dialect().ColumnsQuery(s.pool.Database(), table)
		cols, err := s.exec.Execute(ctx, colStmt, colArgs, catalogLimit)
		if err != nil {
			return errResult(dbErrorJSON(err)), nil
		}
		idxStmt, idxArgs := s.pool.Dialect().IndexesQuery(s.pool.Database(), table)
		idxs, err := s.exec.Execute(ctx, idxStmt, idxArgs, catalogLimit)
		if err != nil {
			return errResult(dbErrorJSON(err)), nil
		}

		colRows, err := marshalRows(cols)
		if err != nil {
			return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
		}
		idxRows, err := marshalRows(idxs)
		if err != nil {
			return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
		}
		schema[table] = tableSchema{Columns: colRows, Indexes: idxRows}
		colSets[table] = cols
	}

	rels := multisite.KnownRelations(sitePrefix, tables)
	if rels == nil {
		rels = []multisite.Relation{}
	}

	if format, _ := argString(args, "format"); strings.EqualFold(format, "csv") {
		// Flatten every table's columns into one sheet, table name first.
		flat := &query.RowSet{}
		for _, table := range tables {
			cols := colSets[table]
			if len(flat.Columns) == 0 && len(cols.Columns) > 0 {
				flat.Columns = append([]string{"table"}, cols.Columns...)
			}
			for _, row := range cols.Rows {
				r := query.Row{"table": table}
				for k, v := range row {
					r[k] = v
				}
				flat.Rows = append(flat.Rows, r)
			}
		}
		text, err := rowsToCSV(flat)
		if err != nil {
			return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
		}
		return textResult(text), nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"database":      s.pool.Database(),
		"prefix":        sitePrefix,
		"table_count":   len(schema),
		"tables":        schema,
		"relationships": rels,
	}, "", "  ")
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
	}
	return textResult(string(data)), nil
}

func (s *Server) toolListSites(ctx context.Context, args map[string]any) (*CallToolResult, *Error) {
	tables, err := s.pool.ListTables(ctx)
	if err != nil {
		return errResult(dbErrorJSON(err)), nil
	}

	base := s.pool.Prefix()
	prefixes := multisite.DetectSitePrefixes(base, tables)

	rs := &query.RowSet{Columns: []string{"site_id", "prefix"}}
	for _, p := range prefixes {
		siteID := 1
		if p != base {
			digits := strings.TrimSuffix(strings.TrimPrefix(p, base), "_")
			if n, err := strconv.Atoi(digits); err == nil {
				siteID = n
			}
		}
		rs.Rows = append(rs.Rows, query.Row{"site_id": siteID, "prefix": p})
	}

	return s.rowsResult(rs, args, map[string]any{
		"base_prefix": base,
		"site_count":  len(rs.Rows),
	})
}

func (s *Server) handleListResources(ctx context.Context) (*ListResourcesResult, *Error) {
	tables, err := s.pool.ListTables(ctx)
	if err != nil {
		return nil, dbRPCError(err)
	}

	resources := make([]Resource, 0, len(tables))
	for _, table := range tables {
		resources = append(resources, Resource{
			URI:      fmt.Sprintf("wpdb://%s/%s/schema", s.pool.Database(), table),
			Name:     fmt.Sprintf("Schema for table '%s'", table),
			MimeType: "application/json",
		})
	}
	return &ListResourcesResult{Resources: resources}, nil
}

func (s *Server) handleReadResource(ctx context.Context, params json.RawMessage) (*ReadResourceResult, *Error) {
	var readParams ReadResourceParams
	if err := json.Unmarshal(params, &readParams); err != nil {
		return nil, &Error{Code: InvalidParams, Message: "Invalid parameters", Data: err.Error()}
	}

	uri := readParams.URI
	if !strings.HasPrefix(uri, "wpdb://") {
		return nil, &Error{Code: InvalidParams, Message: "Invalid resource URI: must start with wpdb://"}
	}
	parts := strings.Split(strings.TrimPrefix(uri, "wpdb://"), "/")
	if len(parts) != 3 || parts[2] != "schema" {
		return nil, &Error{Code: InvalidParams, Message: "Invalid resource URI format: expected wpdb://dbname/tablename/schema"}
	}
	table := parts[1]

	colStmt, colArgs := s.pool.Dialect().ColumnsQuery(s.pool.Database(), table)
	cols, err := s.exec.Execute(ctx, colStmt, colArgs, catalogLimit)
	if err != nil {
		return nil, dbRPCError(err)
	}

	text, err := formatRows(cols, "json", nil)
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Failed to format schema", Data: err.Error()}
	}
	return &ReadResourceResult{
		Contents: []ResourceContent{{URI: uri, MimeType: "application/json", Text: text}},
	}, nil
}

// rowsResult formats a result set per the tool's format argument.
func (s *Server) rowsResult(rs *query.RowSet, args map[string]any, wrapper map[string]any) (*CallToolResult, *Error) {
	format, _ := argString(args, "format")
	text, err := formatRows(rs, format, wrapper)
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Failed to format result", Data: err.Error()}
	}
	return textResult(text), nil
}

func textResult(text string) *CallToolResult {
	return &CallToolResult{Content: []Content{{Type: "text", Text: text}}}
}

func errResult(text string) *CallToolResult {
	return &CallToolResult{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// limitArg clamps the caller's limit to [1, configured ceiling], defaulting
// to the ceiling.
func (s *Server) limitArg(args map[string]any) int {
	limit := argInt(args, "limit", s.cfg.MaxRows)
	if limit < 1 || limit > s.cfg.MaxRows {
		return s.cfg.MaxRows
	}
	return limit
}

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

// argInt reads an integer argument; JSON numbers arrive as float64.
func argInt(args map[string]any, key string, fallback int) int {
	if n, ok := argIntStrict(args, key); ok {
		return n
	}
	return fallback
}

func argIntStrict(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// escapeLike escapes LIKE wildcards in user input so search terms match
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
