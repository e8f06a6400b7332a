package graphdb

import (
	"fmt"

	"github.com/factlens/factlens/model"
)

// DeriveRelationships generates the edge records implied by post metadata:
// CREATED from author_id and SHARED from shared_post_id (the sharing post
// pointing at the original). References to ids absent from the datasets are
// reported as warnings and skipped, matching the soft-constraint semantics of
// the import.
func DeriveRelationships(users []model.User, posts []model.Post) ([]model.Relationship, []string) {
	userIds := map[string]bool{}
	for _, u := range users {
		userIds[u.Id] = true
	}
	postIds := map[string]bool{}
	for _, p := range posts {
		postIds[p.Id] = true
	}

	rels := []model.Relationship{}
	warnings := []string{}

	for _, p := range posts {
		if p.AuthorId == "" {
			continue
		}
		if !userIds[p.AuthorId] {
			warnings = append(warnings, fmt.Sprintf("post %s references unknown author_id %q", p.Id, p.AuthorId))
			continue
		}
		rels = append(rels, model.Relationship{
			From:         p.AuthorId,
			To:           p.Id,
			Relationship: model.RelationshipCreated,
		})
	}

	for _, p := range posts {
		if p.SharedPostId == nil {
			continue
		}
		if !postIds[*p.SharedPostId] {
			warnings = append(warnings, fmt.Sprintf("post %s shares unknown post %q", p.Id, *p.SharedPostId))
			continue
		}
		rels = append(rels, model.Relationship{
			From:         p.Id,
			To:           *p.SharedPostId,
			Relationship: model.RelationshipShared,
		})
	}

	return rels, warnings
}
