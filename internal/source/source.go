// Package source defines where contact batches come from. The server only
// ingests pushed batches today, but the fetch path is shared so a future
// provider sync (CardDAV, Google People) plugs in behind the same interface.
package source

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/contactsphere/backend/internal/core/model"
)

// Source produces a batch of contacts from one upstream.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Contact, error)
}

// Static is an in-memory source, used for pushed request bodies and tests.
type Static struct {
	SourceName string
	Records    []model.Contact
}

func (s *Static) Name() string {
	if s.SourceName == "" {
		return "static"
	}
	return s.SourceName
}

func (s *Static) Fetch(ctx context.Context) ([]model.Contact, error) {
	return s.Records, nil
}

// FetchAll fetches every source concurrently and concatenates the results in
// source order. Any single failure cancels the rest.
func FetchAll(ctx context.Context, sources ...Source) ([]model.Contact, error) {
	group, ctx := errgroup.WithContext(ctx)
	results := make([][]model.Contact, len(sources))

	for i, src := range sources {
		i, src := i, src
		group.Go(func() error {
			contacts, err := src.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			results[i] = contacts
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var all []model.Contact
	for _, batch := range results {
		all = append(all, batch...)
	}
	return all, nil
}
