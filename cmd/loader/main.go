package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/factlens/factlens/graphdb"
	"github.com/factlens/factlens/model"
	"github.com/factlens/factlens/utils/dotenv"
	. "github.com/factlens/factlens/utils/flag"
	. "github.com/factlens/factlens/utils/log"
)

func readJson(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// derive regenerates relationships.json from the node datasets instead of
// importing anything.
func derive(dataDir string) {
	var users []model.User
	var posts []model.Post
	if err := readJson(filepath.Join(dataDir, "users.json"), &users); err != nil {
		Log.Fatal("fail to read users.json: ", err)
	}
	if err := readJson(filepath.Join(dataDir, "posts.json"), &posts); err != nil {
		Log.Fatal("fail to read posts.json: ", err)
	}

	rels, warnings := graphdb.DeriveRelationships(users, posts)
	for _, w := range warnings {
		Log.Warn(w)
	}

	encoded, err := json.MarshalIndent(rels, "", "  ")
	if err != nil {
		Log.Fatal("fail to encode relationships: ", err)
	}
	outPath := filepath.Join(dataDir, "relationships.json")
	if err := os.WriteFile(outPath, encoded, 0644); err != nil {
		Log.Fatal("fail to write relationships.json: ", err)
	}
	Log.Infof("generated %s with %d relationships", outPath, len(rels))
}

func load(ctx context.Context, dataDir string) {
	var users []model.User
	var posts []model.Post
	var checks []model.FactCheck
	var rels []model.Relationship
	if err := readJson(filepath.Join(dataDir, "users.json"), &users); err != nil {
		Log.Fatal("fail to read users.json: ", err)
	}
	if err := readJson(filepath.Join(dataDir, "posts.json"), &posts); err != nil {
		Log.Fatal("fail to read posts.json: ", err)
	}
	if err := readJson(filepath.Join(dataDir, "factchecks.json"), &checks); err != nil {
		Log.Fatal("fail to read factchecks.json: ", err)
	}
	if err := readJson(filepath.Join(dataDir, "relationships.json"), &rels); err != nil {
		Log.Fatal("fail to read relationships.json: ", err)
	}

	store, err := graphdb.NewClientFromEnv()
	if err != nil {
		Log.Fatal("fail to create graph store client: ", err)
	}
	defer store.Close(ctx)
	if err := store.Ping(ctx); err != nil {
		Log.Fatal("graph store unreachable: ", err)
	}

	importer := graphdb.NewImporter(store)
	if err := importer.CreateConstraints(ctx); err != nil {
		Log.Fatal(err)
	}
	if err := importer.ImportUsers(ctx, users); err != nil {
		Log.Fatal(err)
	}
	if err := importer.ImportPosts(ctx, posts); err != nil {
		Log.Fatal(err)
	}
	if err := importer.ImportFactChecks(ctx, checks); err != nil {
		Log.Fatal(err)
	}
	// Materialize authorship before the explicit relationship records, same
	// order as the original tooling.
	if err := importer.LinkAuthors(ctx); err != nil {
		Log.Fatal(err)
	}
	if err := importer.ImportRelationships(ctx, rels); err != nil {
		Log.Fatal(err)
	}

	Log.Info("data loading completed successfully")
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		Log.Fatal("fail to load env: ", err)
	}

	if DeriveOnly {
		derive(DataDir)
		return
	}
	load(context.Background(), DataDir)
}
