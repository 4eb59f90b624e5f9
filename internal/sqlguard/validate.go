// Package sqlguard enforces read-only SQL policy through lexical analysis.
// It is not a SQL parser: comments are stripped and the remaining text is
// checked against a verb allowlist, a keyword blocklist, and a system-schema
// guard. That is sufficient for the known bypass vectors (comment splicing,
// statement chaining, DDL/DML in later clauses, catalog exfiltration).
package sqlguard

import (
	"fmt"
	"regexp"
	"strings"
)

// Reason identifies which policy rule rejected a statement.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMultipleStatements
	ReasonDisallowedVerb
	ReasonDisallowedKeyword
	ReasonSystemSchema
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMultipleStatements:
		return "multiple-statements"
	case ReasonDisallowedVerb:
		return "disallowed-verb"
	case ReasonDisallowedKeyword:
		return "disallowed-keyword"
	case ReasonSystemSchema:
		return "system-schema-access"
	}
	return "unknown"
}

// Result is the outcome of validating one candidate statement. Detail names
// the keyword or schema that fired, for diagnostics; it is empty on approval.
type Result struct {
	Allowed bool
	Reason  Reason
	Detail  string
}

// Err returns nil for an approved statement and a descriptive error otherwise.
func (r Result) Err() error {
	if r.Allowed {
		return nil
	}
	switch r.Reason {
	case ReasonMultipleStatements:
		return fmt.Errorf("multiple SQL statements are not allowed")
	case ReasonDisallowedVerb:
		return fmt.Errorf("only SELECT, SHOW, DESCRIBE and EXPLAIN statements are allowed")
	case ReasonDisallowedKeyword:
		return fmt.Errorf("write/DDL operations are not allowed (found %s)", r.Detail)
	case ReasonSystemSchema:
		return fmt.Errorf("access to system schema %q is not allowed", r.Detail)
	}
	return fmt.Errorf("statement rejected")
}

func approved() Result {
	return Result{Allowed: true}
}

func rejected(reason Reason, detail string) Result {
	return Result{Reason: reason, Detail: detail}
}

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`(?m)--.*?$`)
	hashCommentRe  = regexp.MustCompile(`(?m)#.*?$`)

	allowedVerbRe = regexp.MustCompile(`(?i)^(?:SELECT|SHOW|DESCRIBE|EXPLAIN)\b`)

	// Blocked anywhere in the statement, not just as the leading verb. A
	// SELECT can still smuggle LOAD in a subquery or INTO OUTFILE in a
	// trailing clause. Matching is whole-word and deliberately does not
	// exempt quoted string literals.
	dangerousRe = regexp.MustCompile(
		`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|CREATE|TRUNCATE|REPLACE|` +
			`GRANT|REVOKE|LOAD|INTO\s+OUTFILE|INTO\s+DUMPFILE)\b`)
)

// blockedSchemas are engine-reserved catalogs whose exposure leaks structure
// or credential-adjacent data.
var blockedSchemas = []string{"information_schema", "mysql", "performance_schema", "sys"}

// schemaPatterns covers schema.table, `schema`.table and `schema`entity forms.
var schemaPatterns = func() map[string][]*regexp.Regexp {
	m := make(map[string][]*regexp.Regexp, len(blockedSchemas))
	for _, schema := range blockedSchemas {
		q := regexp.QuoteMeta(schema)
		m[schema] = []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b` + q + `\s*\.`),
			regexp.MustCompile("(?i)`" + q + "`\\s*\\."),
			regexp.MustCompile(`(?i)\b` + q + "\\s*`"),
		}
	}
	return m
}()

// stripComments removes block, line and hash comments, replacing each with a
// space. This runs before every other check: the comment body must be gone,
// not just the markers, or "DR/**/OP" style splicing slips through.
func stripComments(sql string) string {
	clean := blockCommentRe.ReplaceAllString(sql, " ")
	clean = lineCommentRe.ReplaceAllString(clean, " ")
	return hashCommentRe.ReplaceAllString(clean, " ")
}

// Validate decides whether a candidate statement is a safe read-only query.
// It is deterministic, stateless, and performs no I/O. The checks run in a
// fixed order on the comment-stripped text; the original statement is never
// rewritten before execution.
func Validate(sql string) Result {
	clean := stripComments(sql)

	// One trailing semicolon is a harmless terminator; any other semicolon
	// means statement chaining.
	trimmed := strings.TrimRight(clean, " \t\r\n")
	trimmed = strings.TrimSuffix(trimmed, ";")
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	if strings.Contains(trimmed, ";") {
		return rejected(ReasonMultipleStatements, ";")
	}

	stripped := strings.TrimSpace(clean)
	stripped = strings.TrimPrefix(stripped, "(")
	if !allowedVerbRe.MatchString(stripped) {
		return rejected(ReasonDisallowedVerb, "")
	}

	if m := dangerousRe.FindStringSubmatch(clean); m != nil {
		return rejected(ReasonDisallowedKeyword, strings.ToUpper(m[1]))
	}

	for _, schema := range blockedSchemas {
		for _, re := range schemaPatterns[schema] {
			if re.MatchString(clean) {
				return rejected(ReasonSystemSchema, schema)
			}
		}
	}

	return approved()
}
