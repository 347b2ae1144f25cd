//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsphere/backend/internal/core"
	"github.com/contactsphere/backend/internal/core/infer"
	"github.com/contactsphere/backend/internal/core/model"
	"github.com/contactsphere/backend/internal/driver"
)

// setupGraph connects to the Neo4j instance named by NEO4J_URI and wipes it.
// Tests are skipped when no instance is configured.
func setupGraph(t *testing.T) *core.ContactGraph {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}

	ctx := context.Background()
	d, err := driver.NewNeo4jDriver(ctx, uri, os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close(context.Background()) })

	require.NoError(t, d.BuildIndices(ctx))

	g := core.NewContactGraph(d, infer.New(infer.DefaultThresholds()))
	require.NoError(t, g.ClearAll(ctx))
	return g
}

func TestSyncFlow(t *testing.T) {
	g := setupGraph(t)
	ctx := context.Background()

	contacts := []model.Contact{
		{ID: "alice", Name: "Alice", Organization: "Acme", City: "Berlin"},
		{ID: "bob", Name: "Bob", Organization: "Acme", City: "Berlin"},
		{ID: "carol", Name: "Carol", Email: "carol@initech.com"},
		{ID: "dave", Name: "Dave", Email: "dave@initech.com"},
		{ID: "erin", Name: "Erin"},
	}

	result, err := g.Sync(ctx, contacts)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Imported)
	assert.Equal(t, 5, result.TotalContacts)
	// Acme clique + Berlin pair + initech.com pair.
	assert.Equal(t, 3, result.EdgeCount)

	edges, err := g.Edges(ctx)
	require.NoError(t, err)
	types := map[string]int{}
	for _, e := range edges {
		types[e.RelationshipType]++
	}
	assert.Equal(t, 1, types[model.RelCloseColleagues])
	assert.Equal(t, 1, types[model.RelLivesIn])
	assert.Equal(t, 1, types[model.RelWorksWith])

	stats, err := g.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.ContactCount)
	assert.EqualValues(t, 3, stats.RelationshipCount)

	uncategorized, err := g.UncategorizedContacts(ctx)
	require.NoError(t, err)
	require.Len(t, uncategorized, 1)
	assert.Equal(t, "erin", uncategorized[0].ID)
}

func TestSyncIsIdempotent(t *testing.T) {
	g := setupGraph(t)
	ctx := context.Background()

	contacts := []model.Contact{
		{ID: "alice", Name: "Alice", Organization: "Acme"},
		{ID: "bob", Name: "Bob", Organization: "Acme"},
	}

	first, err := g.Sync(ctx, contacts)
	require.NoError(t, err)
	second, err := g.Sync(ctx, contacts)
	require.NoError(t, err)

	assert.Equal(t, 2, first.Imported)
	assert.Equal(t, 2, second.Updated)
	assert.Equal(t, first.EdgeCount, second.EdgeCount)

	edges, err := g.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, first.EdgeCount)
}

func TestHubOrganizationMaterialized(t *testing.T) {
	g := setupGraph(t)
	ctx := context.Background()

	var contacts []model.Contact
	for i := 0; i < 15; i++ {
		contacts = append(contacts, model.Contact{
			ID:           string(rune('a' + i)),
			Name:         "Employee " + string(rune('A'+i)),
			Organization: "BigCo",
		})
	}

	result, err := g.Sync(ctx, contacts)
	require.NoError(t, err)
	assert.Equal(t, 15, result.EdgeCount)

	orgs, err := g.Organizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "org_bigco", orgs[0].ID)
	assert.Equal(t, 15, orgs[0].EmployeeCount)

	edges, err := g.Edges(ctx)
	require.NoError(t, err)
	for _, e := range edges {
		assert.Equal(t, model.RelWorksAt, e.RelationshipType)
		assert.True(t, e.IsHubConnection())
	}
}

func TestTagsAndNotes(t *testing.T) {
	g := setupGraph(t)
	ctx := context.Background()

	_, err := g.Sync(ctx, []model.Contact{{ID: "alice", Name: "Alice"}})
	require.NoError(t, err)

	require.NoError(t, g.AddTag(ctx, "alice", "climbing"))
	require.NoError(t, g.AddTag(ctx, "alice", "climbing")) // no duplicate
	require.NoError(t, g.UpdateNotes(ctx, "alice", "met at conference"))

	c, err := g.ContactByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"climbing"}, c.Tags)
	assert.Equal(t, "met at conference", c.Notes)

	require.NoError(t, g.RemoveTag(ctx, "alice", "climbing"))
	c, err = g.ContactByID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, c.Tags)

	assert.ErrorIs(t, g.AddTag(ctx, "missing", "x"), core.ErrNotFound)
}

func TestShortestPath(t *testing.T) {
	g := setupGraph(t)
	ctx := context.Background()

	_, err := g.Sync(ctx, []model.Contact{
		{ID: "alice", Name: "Alice", City: "Berlin"},
		{ID: "bob", Name: "Bob", City: "Berlin", Birthday: "03-14"},
		{ID: "carol", Name: "Carol", Birthday: "03-14"},
	})
	require.NoError(t, err)

	path, err := g.ShortestPath(ctx, "alice", "carol")
	require.NoError(t, err)
	require.Len(t, path.Nodes, 3)
	assert.Equal(t, "alice", path.Nodes[0].ID)
	assert.Equal(t, "carol", path.Nodes[2].ID)
	assert.Len(t, path.Relationships, 2)
}
