//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsphere/backend/internal/backup"
	"github.com/contactsphere/backend/internal/core/model"
)

func TestBackupRoundTrip(t *testing.T) {
	g := setupGraph(t)
	ctx := context.Background()

	_, err := g.Sync(ctx, []model.Contact{
		{ID: "alice", Name: "Alice", Organization: "Acme"},
		{ID: "bob", Name: "Bob", Organization: "Acme"},
	})
	require.NoError(t, err)
	require.NoError(t, g.SetSyncToken(ctx, "tok-42"))

	svc := backup.NewService(g)

	b, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0", b.Metadata.Version)
	assert.Equal(t, 2, b.Metadata.ContactCount)
	assert.Equal(t, 1, b.Metadata.EdgeCount)
	assert.Equal(t, "tok-42", b.SyncToken)

	result, err := svc.Restore(ctx, b, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ContactsRestored)
	assert.Equal(t, 1, result.EdgesRestored)
	assert.True(t, result.SyncTokenRestored)

	contacts, err := g.Contacts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, contacts, 2)

	edges, err := g.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, model.RelCloseColleagues, edges[0].RelationshipType)

	token, err := g.SyncToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-42", token)
}
