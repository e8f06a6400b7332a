package graphdb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/model"
)

func strPtr(s string) *string { return &s }

func TestDeriveRelationships(t *testing.T) {
	users := []model.User{
		{Id: "u1", Username: "alice"},
		{Id: "u2", Username: "bob"},
	}
	posts := []model.Post{
		{Id: "p1", AuthorId: "u1"},
		{Id: "p2", AuthorId: "u2", SharedPostId: strPtr("p1")},
	}

	rels, warnings := DeriveRelationships(users, posts)
	assert.Empty(t, warnings)

	want := []model.Relationship{
		{From: "u1", To: "p1", Relationship: model.RelationshipCreated},
		{From: "u2", To: "p2", Relationship: model.RelationshipCreated},
		{From: "p2", To: "p1", Relationship: model.RelationshipShared},
	}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("derived relationships mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveWarnsOnDanglingReferences(t *testing.T) {
	users := []model.User{{Id: "u1"}}
	posts := []model.Post{
		{Id: "p1", AuthorId: "ghost"},
		{Id: "p2", AuthorId: "u1", SharedPostId: strPtr("missing")},
	}

	rels, warnings := DeriveRelationships(users, posts)

	// Dangling references are soft constraints: warn and skip, never fail.
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "unknown author_id")
	assert.Contains(t, warnings[1], "unknown post")

	want := []model.Relationship{
		{From: "u1", To: "p2", Relationship: model.RelationshipCreated},
	}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("derived relationships mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	users := []model.User{{Id: "u1"}}
	posts := []model.Post{{Id: "p1", AuthorId: "u1"}}

	first, _ := DeriveRelationships(users, posts)
	second, _ := DeriveRelationships(users, posts)
	assert.Equal(t, first, second)
}
