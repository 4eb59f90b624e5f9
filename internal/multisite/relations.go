package multisite

// RelationEnd names one side of a relation. Columns is set instead of Column
// for junction tables keyed by more than one column.
type RelationEnd struct {
	Table   string   `json:"table"`
	Column  string   `json:"column,omitempty"`
	Columns []string `json:"columns,omitempty"`
}

// Relation describes one known WordPress table relationship. Self-referential
// relations use Table/Column/References instead of From/To.
type Relation struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	From        *RelationEnd `json:"from,omitempty"`
	Through     *RelationEnd `json:"through,omitempty"`
	To          *RelationEnd `json:"to,omitempty"`
	Table       string       `json:"table,omitempty"`
	Column      string       `json:"column,omitempty"`
	References  string       `json:"references,omitempty"`
	Description string       `json:"description"`
}

// KnownRelations returns the WordPress core relationships whose tables all
// exist in the given list. WordPress has no foreign keys; these links are
// fixed by the application schema.
func KnownRelations(prefix string, tables []string) []Relation {
	present := make(map[string]bool, len(tables))
	for _, t := range tables {
		present[t] = true
	}
	has := func(suffix string) bool { return present[prefix+suffix] }

	var rels []Relation

	if has("posts") && has("postmeta") {
		rels = append(rels, Relation{
			Name:        "post_meta",
			Type:        "one_to_many",
			From:        &RelationEnd{Table: prefix + "posts", Column: "ID"},
			To:          &RelationEnd{Table: prefix + "postmeta", Column: "post_id"},
			Description: "Each post has zero or more meta key-value pairs.",
		})
	}
	if has("posts") && has("term_relationships") {
		rels = append(rels, Relation{
			Name: "post_term_relationships",
			Type: "many_to_many",
			From: &RelationEnd{Table: prefix + "posts", Column: "ID"},
			Through: &RelationEnd{
				Table:   prefix + "term_relationships",
				Columns: []string{"object_id", "term_taxonomy_id"},
			},
			To:          &RelationEnd{Table: prefix + "term_taxonomy", Column: "term_taxonomy_id"},
			Description: "Posts are linked to term_taxonomy entries via term_relationships. object_id = post ID.",
		})
	}
	if has("term_taxonomy") && has("terms") {
		rels = append(rels, Relation{
			Name:        "taxonomy_term",
			Type:        "many_to_one",
			From:        &RelationEnd{Table: prefix + "term_taxonomy", Column: "term_id"},
			To:          &RelationEnd{Table: prefix + "terms", Column: "term_id"},
			Description: "Each term_taxonomy row references a term. term_taxonomy adds taxonomy type and hierarchy.",
		})
	}
	if has("term_taxonomy") {
		rels = append(rels, Relation{
			Name:        "taxonomy_hierarchy",
			Type:        "self_referential",
			Table:       prefix + "term_taxonomy",
			Column:      "parent",
			References:  "term_taxonomy_id (via term_id lookup)",
			Description: "Hierarchical taxonomies use parent field to reference parent term_taxonomy_id.",
		})
	}
	if has("terms") && has("termmeta") {
		rels = append(rels, Relation{
			Name:        "term_meta",
			Type:        "one_to_many",
			From:        &RelationEnd{Table: prefix + "terms", Column: "term_id"},
			To:          &RelationEnd{Table: prefix + "termmeta", Column: "term_id"},
			Description: "Each term can have meta key-value pairs.",
		})
	}
	if has("posts") && has("comments") {
		rels = append(rels, Relation{
			Name:        "post_comments",
			Type:        "one_to_many",
			From:        &RelationEnd{Table: prefix + "posts", Column: "ID"},
			To:          &RelationEnd{Table: prefix + "comments", Column: "comment_post_ID"},
			Description: "Each post has zero or more comments.",
		})
	}
	if has("comments") && has("commentmeta") {
		rels = append(rels, Relation{
			Name:        "comment_meta",
			Type:        "one_to_many",
			From:        &RelationEnd{Table: prefix + "comments", Column: "comment_ID"},
			To:          &RelationEnd{Table: prefix + "commentmeta", Column: "comment_id"},
			Description: "Each comment can have meta key-value pairs.",
		})
	}
	if has("comments") {
		rels = append(rels, Relation{
			Name:        "comment_hierarchy",
			Type:        "self_referential",
			Table:       prefix + "comments",
			Column:      "comment_parent",
			References:  "comment_ID",
			Description: "Threaded comments reference parent via comment_parent.",
		})
	}
	if has("users") && has("usermeta") {
		rels = append(rels, Relation{
			Name:        "user_meta",
			Type:        "one_to_many",
			From:        &RelationEnd{Table: prefix + "users", Column: "ID"},
			To:          &RelationEnd{Table: prefix + "usermeta", Column: "user_id"},
			Description: "Each user has meta key-value pairs (roles, capabilities, etc.).",
		})
	}
	if has("users") && has("posts") {
		rels = append(rels, Relation{
			Name:        "post_author",
			Type:        "many_to_one",
			From:        &RelationEnd{Table: prefix + "posts", Column: "post_author"},
			To:          &RelationEnd{Table: prefix + "users", Column: "ID"},
			Description: "Each post has one author (user).",
		})
	}
	if has("posts") {
		rels = append(rels, Relation{
			Name:        "post_hierarchy",
			Type:        "self_referential",
			Table:       prefix + "posts",
			Column:      "post_parent",
			References:  "ID",
			Description: "Pages and revisions reference parent posts via post_parent.",
		})
	}

	return rels
}
