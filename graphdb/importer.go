package graphdb

import (
	"context"
	"fmt"

	"github.com/factlens/factlens/model"
	"github.com/factlens/factlens/utils"
	Logger "github.com/factlens/factlens/utils/log"
	"github.com/pkg/errors"
)

// Importer bulk-loads the lineage graph from the JSON datasets. All writes
// are MERGE-by-id upserts, so re-running an import with identical input is a
// no-op and never duplicates nodes or edges.
type Importer struct {
	client *Client
}

func NewImporter(client *Client) *Importer {
	return &Importer{client: client}
}

var uniquenessConstraints = []string{
	"CREATE CONSTRAINT IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (f:FactCheck) REQUIRE f.id IS UNIQUE",
}

// CreateConstraints installs the id uniqueness constraints the upserts rely
// on. Idempotent.
func (im *Importer) CreateConstraints(ctx context.Context) error {
	for _, stmt := range uniquenessConstraints {
		if _, err := im.client.run(ctx, stmt, nil); err != nil {
			return errors.Wrap(err, "create uniqueness constraint")
		}
	}
	return nil
}

func (im *Importer) upsertNodes(ctx context.Context, label string, batch []map[string]any) error {
	if len(batch) == 0 {
		return nil
	}
	// Label names cannot be parameterized; they come from the fixed calls
	// below, never from input.
	query := fmt.Sprintf(`UNWIND $batch AS row
MERGE (n:%s {id: row.id})
SET n += row`, label)
	if _, err := im.client.run(ctx, query, map[string]any{"batch": batch}); err != nil {
		return errors.Wrapf(err, "upsert %s nodes", label)
	}
	Logger.Log.WithField("label", label).Infof("imported %d nodes", len(batch))
	return nil
}

func (im *Importer) ImportUsers(ctx context.Context, users []model.User) error {
	return im.upsertNodes(ctx, "User", UserRows(users))
}

func (im *Importer) ImportPosts(ctx context.Context, posts []model.Post) error {
	return im.upsertNodes(ctx, "Post", PostRows(posts))
}

func (im *Importer) ImportFactChecks(ctx context.Context, checks []model.FactCheck) error {
	return im.upsertNodes(ctx, "FactCheck", FactCheckRows(checks))
}

// ImportRelationships upserts edges grouped per kind. Records with an unknown
// kind are skipped with a warning rather than failing the whole batch.
func (im *Importer) ImportRelationships(ctx context.Context, rels []model.Relationship) error {
	grouped, skipped := GroupRelationships(rels)
	for _, kind := range skipped {
		Logger.Log.Warnf("skipping unknown relationship type: %s", kind)
	}

	total := 0
	for kind, batch := range grouped {
		// The relationship type cannot be parameterized; kind is already
		// checked against the closed set in GroupRelationships.
		query := fmt.Sprintf(`UNWIND $batch AS row
MATCH (a {id: row.from_id})
MATCH (b {id: row.to_id})
MERGE (a)-[:%s]->(b)`, kind)
		if _, err := im.client.run(ctx, query, map[string]any{"batch": batch}); err != nil {
			return errors.Wrapf(err, "upsert %s relationships", kind)
		}
		total += len(batch)
	}
	Logger.Log.Infof("imported %d relationships", total)
	return nil
}

// LinkAuthors materializes CREATED edges from the author_id property, so a
// dataset without an explicit relationships file still gets authorship edges.
func (im *Importer) LinkAuthors(ctx context.Context) error {
	query := `MATCH (u:User), (p:Post)
WHERE p.author_id = u.id
MERGE (u)-[:CREATED]->(p)`
	if _, err := im.client.run(ctx, query, nil); err != nil {
		return errors.Wrap(err, "link authors")
	}
	return nil
}

// UserRows flattens users into UNWIND-able parameter maps.
func UserRows(users []model.User) []map[string]any {
	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, map[string]any{
			"id":              u.Id,
			"name":            u.Name,
			"username":        u.Username,
			"email":           u.Email,
			"followers":       u.Followers,
			"account_created": u.AccountCreated,
			"verified":        u.Verified,
			"location":        u.Location,
		})
	}
	return rows
}

func PostRows(posts []model.Post) []map[string]any {
	rows := make([]map[string]any, 0, len(posts))
	for _, p := range posts {
		row := map[string]any{
			"id":        p.Id,
			"content":   p.Content,
			"timestamp": p.Timestamp,
			"likes":     p.Likes,
			"shares":    p.Shares,
			"comments":  p.Comments,
			"platform":  p.Platform,
			"tags":      p.Tags,
			"author_id": p.AuthorId,
		}
		if p.SharedPostId != nil {
			row["shared_post_id"] = *p.SharedPostId
		}
		rows = append(rows, row)
	}
	return rows
}

func FactCheckRows(checks []model.FactCheck) []map[string]any {
	rows := make([]map[string]any, 0, len(checks))
	for _, f := range checks {
		rows = append(rows, map[string]any{
			"id":          f.Id,
			"status":      f.Status,
			"verified_at": f.VerifiedAt,
			"comments":    f.Comments,
			"source_url":  f.SourceUrl,
		})
	}
	return rows
}

// GroupRelationships buckets edge records by kind for per-type MERGE batches
// and reports the distinct unknown kinds encountered.
func GroupRelationships(rels []model.Relationship) (map[string][]map[string]any, []string) {
	valid := model.ValidRelationshipKinds()
	grouped := map[string][]map[string]any{}
	skipped := []string{}
	for _, r := range rels {
		if !utils.ContainsString(valid, r.Relationship) {
			if !utils.ContainsString(skipped, r.Relationship) {
				skipped = append(skipped, r.Relationship)
			}
			continue
		}
		grouped[r.Relationship] = append(grouped[r.Relationship], map[string]any{
			"from_id": r.From,
			"to_id":   r.To,
		})
	}
	return grouped, skipped
}
