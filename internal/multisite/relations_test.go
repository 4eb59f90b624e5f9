package multisite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func relationNames(rels []Relation) []string {
	names := make([]string, 0, len(rels))
	for _, r := range rels {
		names = append(names, r.Name)
	}
	return names
}

func TestKnownRelations_FullCoreSet(t *testing.T) {
	tables := make([]string, 0, len(CoreSuffixes))
	for _, s := range CoreSuffixes {
		tables = append(tables, "wp_"+s)
	}

	got := relationNames(KnownRelations("wp_", tables))
	want := []string{
		"post_meta",
		"post_term_relationships",
		"taxonomy_term",
		"taxonomy_hierarchy",
		"term_meta",
		"post_comments",
		"comment_meta",
		"comment_hierarchy",
		"user_meta",
		"post_author",
		"post_hierarchy",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("relation names mismatch (-want +got):\n%s", diff)
	}
}

func TestKnownRelations_OnlyPresentTables(t *testing.T) {
	got := KnownRelations("wp_", []string{"wp_posts", "wp_postmeta"})

	want := []string{"post_meta", "post_hierarchy"}
	if diff := cmp.Diff(want, relationNames(got)); diff != "" {
		t.Errorf("relation names mismatch (-want +got):\n%s", diff)
	}
	if got[0].From.Table != "wp_posts" || got[0].To.Table != "wp_postmeta" {
		t.Errorf("post_meta endpoints = %+v -> %+v", got[0].From, got[0].To)
	}
}

func TestKnownRelations_SubSitePrefix(t *testing.T) {
	got := KnownRelations("wp_2_", []string{"wp_2_posts", "wp_2_comments", "wp_posts"})

	want := []string{"post_comments", "comment_hierarchy", "post_hierarchy"}
	if diff := cmp.Diff(want, relationNames(got)); diff != "" {
		t.Errorf("relation names mismatch (-want +got):\n%s", diff)
	}
}

func TestKnownRelations_NoTables(t *testing.T) {
	if got := KnownRelations("wp_", nil); len(got) != 0 {
		t.Errorf("expected no relations, got %v", relationNames(got))
	}
}
