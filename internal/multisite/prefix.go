// Package multisite resolves WordPress table prefixes for single-site and
// multisite installations. In a multisite database the main site uses the
// base prefix (e.g. "wp_") and every sub-site uses the base prefix followed
// by its blog ID and an underscore (e.g. "wp_2_").
package multisite

import (
	"fmt"
	"regexp"
	"sort"
)

// CoreSuffixes lists the WordPress core table names without their prefix.
var CoreSuffixes = []string{
	"posts",
	"postmeta",
	"comments",
	"commentmeta",
	"terms",
	"termmeta",
	"term_taxonomy",
	"term_relationships",
	"options",
	"users",
	"usermeta",
	"links",
}

// ResolvePrefix returns the effective table prefix for a site. A siteID of 0
// means "not specified"; both 0 and 1 refer to the main site. Non-positive
// IDs are treated as the main site as well.
func ResolvePrefix(base string, siteID int) string {
	if siteID > 1 {
		return fmt.Sprintf("%s%d_", base, siteID)
	}
	return base
}

// ResolveTable maps a logical table name to its physical name. Names that
// already carry the prefix pass through unchanged, so callers may supply
// either "wp_posts" or just "posts".
func ResolveTable(prefix, table string) string {
	if len(table) >= len(prefix) && table[:len(prefix)] == prefix {
		return table
	}
	return prefix + table
}

// DetectSitePrefixes inspects physical table names and returns every site
// prefix in use, sorted and duplicate-free. The base prefix is always
// included; sub-site prefixes are recognized by the "<base><digits>_" form.
func DetectSitePrefixes(base string, tables []string) []string {
	seen := map[string]bool{base: true}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `(\d+)_`)
	for _, t := range tables {
		if m := re.FindStringSubmatch(t); m != nil {
			seen[base+m[1]+"_"] = true
		}
	}
	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}
