// Package backup exports and restores the full graph as a single JSON
// document: contacts, edges and the provider sync token.
package backup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/contactsphere/backend/internal/core"
	"github.com/contactsphere/backend/internal/core/model"
	"github.com/contactsphere/backend/pkg/logger"
)

const (
	formatVersion = "1.0"
	appName       = "ContactSphere"
)

type Service struct {
	Graph *core.ContactGraph

	log *zap.Logger
}

func NewService(graph *core.ContactGraph) *Service {
	return &Service{Graph: graph, log: logger.Get()}
}

// Create snapshots the stored graph into a backup document.
func (s *Service) Create(ctx context.Context) (*model.Backup, error) {
	contacts, err := s.Graph.Contacts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to export contacts: %w", err)
	}
	edges, err := s.Graph.Edges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export edges: %w", err)
	}
	token, err := s.Graph.SyncToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export sync token: %w", err)
	}

	return &model.Backup{
		Metadata: model.BackupMetadata{
			Version:      formatVersion,
			AppName:      appName,
			CreatedAt:    time.Now().UTC(),
			ContactCount: len(contacts),
			EdgeCount:    len(edges),
		},
		Contacts:  contacts,
		Edges:     edges,
		SyncToken: token,
	}, nil
}

// Restore writes a backup document back into the store. With clearExisting
// the graph is wiped first; otherwise contacts merge into what is there.
func (s *Service) Restore(ctx context.Context, backup *model.Backup, clearExisting bool) (*model.RestoreResult, error) {
	if backup.Metadata.Version != formatVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Metadata.Version)
	}

	if clearExisting {
		if err := s.Graph.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear existing graph: %w", err)
		}
	}

	result := &model.RestoreResult{}

	for _, c := range backup.Contacts {
		if _, err := s.Graph.UpsertContact(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to restore contact %s: %w", c.ID, err)
		}
		result.ContactsRestored++
	}

	for _, edge := range backup.Edges {
		if err := s.Graph.SaveEdge(ctx, edge); err != nil {
			return nil, fmt.Errorf("failed to restore edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
		}
		result.EdgesRestored++
	}

	if backup.SyncToken != "" {
		if err := s.Graph.SetSyncToken(ctx, backup.SyncToken); err != nil {
			return nil, fmt.Errorf("failed to restore sync token: %w", err)
		}
		result.SyncTokenRestored = true
	}

	s.log.Info("backup restored",
		zap.Int("contacts", result.ContactsRestored),
		zap.Int("edges", result.EdgesRestored),
		zap.Bool("cleared", clearExisting))

	return result, nil
}
