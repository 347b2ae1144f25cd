package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contactsphere/backend/internal/core/community"
	"github.com/contactsphere/backend/internal/core/infer"
	"github.com/contactsphere/backend/internal/core/model"
	"github.com/contactsphere/backend/internal/driver"
	"github.com/contactsphere/backend/pkg/logger"
)

// ErrNotFound is returned when a referenced contact or path does not exist.
var ErrNotFound = errors.New("not found")

// pairEdgeTypes is the closed vocabulary of contact-to-contact relationship
// types; only these may be interpolated into SavePairEdgeQuery.
var pairEdgeTypes = map[string]struct{}{
	model.RelCloseColleagues: {},
	model.RelLivesIn:         {},
	model.RelWorksWith:       {},
	model.RelSharesBirthday:  {},
	model.RelAlumniOf:        {},
	model.RelSharedTag:       {},
}

// ContactGraph ties the graph store, the inference engine and the community
// detector together. It owns the sync flow: upsert contacts, recompute the
// full inferred edge set, clear-and-replace it in the store.
type ContactGraph struct {
	Driver   driver.GraphDriver
	Engine   *infer.Engine
	Detector community.Detector

	log *zap.Logger
}

func NewContactGraph(d driver.GraphDriver, engine *infer.Engine) *ContactGraph {
	return &ContactGraph{
		Driver:   d,
		Engine:   engine,
		Detector: community.NewDetector(),
		log:      logger.Get(),
	}
}

func (g *ContactGraph) BuildIndices(ctx context.Context) error {
	return g.Driver.BuildIndices(ctx)
}

// Sync upserts the given contact batch, reruns inference over the complete
// stored contact set and replaces all inferred edges. Malformed records are
// skipped, not fatal.
func (g *ContactGraph) Sync(ctx context.Context, contacts []model.Contact) (*model.SyncResult, error) {
	result := &model.SyncResult{}

	for _, c := range contacts {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			result.Skipped++
			continue
		}

		// A contact with nothing to infer from goes into the uncategorized
		// bucket the UI surfaces for manual tagging.
		c.Uncategorized = c.Organization == "" && c.City == "" && c.Country == "" && c.Email == ""

		isNew, err := g.UpsertContact(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert contact %s: %w", c.ID, err)
		}
		if isNew {
			result.Imported++
		} else {
			result.Updated++
		}
	}

	all, err := g.Contacts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts for inference: %w", err)
	}
	result.TotalContacts = len(all)

	edges := g.Engine.InferAll(all)

	if _, err := g.Driver.ExecuteQuery(ctx, driver.ClearInferredEdgesQuery, nil); err != nil {
		return nil, fmt.Errorf("failed to clear inferred edges: %w", err)
	}

	for _, edge := range edges {
		if err := g.SaveEdge(ctx, edge); err != nil {
			return nil, fmt.Errorf("failed to save edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
		}
	}
	result.EdgeCount = len(edges)

	g.log.Info("sync completed",
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("contacts", result.TotalContacts),
		zap.Int("edges", result.EdgeCount))

	return result, nil
}

func (g *ContactGraph) UpsertContact(ctx context.Context, c model.Contact) (bool, error) {
	existing, err := g.Driver.ExecuteQuery(ctx, driver.ContactExistsQuery, map[string]interface{}{"id": c.ID})
	if err != nil {
		return false, err
	}
	isNew := len(existing.Records) == 0

	rawData := "{}"
	if c.RawData != nil {
		if data, err := json.Marshal(c.RawData); err == nil {
			rawData = string(data)
		}
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	params := map[string]interface{}{
		"id":                    c.ID,
		"name":                  c.Name,
		"email":                 c.Email,
		"phone":                 c.Phone,
		"organization":          c.Organization,
		"previous_organization": c.PreviousOrganization,
		"city":                  c.City,
		"country":               c.Country,
		"birthday":              c.Birthday,
		"photo_url":             c.PhotoURL,
		"address":               c.Address,
		"street":                c.Street,
		"postal_code":           c.PostalCode,
		"notes":                 c.Notes,
		"raw_data":              rawData,
		"tags":                  tags,
		"uncategorized":         c.Uncategorized,
	}

	if _, err := g.Driver.ExecuteQuery(ctx, driver.UpsertContactQuery, params); err != nil {
		return false, err
	}
	return isNew, nil
}

// SaveEdge persists one inferred edge, materializing the organization hub
// node first for hub connections.
func (g *ContactGraph) SaveEdge(ctx context.Context, edge model.RelationshipEdge) error {
	metadata := ""
	if edge.Metadata != nil {
		data, err := json.Marshal(edge.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal edge metadata: %w", err)
		}
		metadata = string(data)
	}

	edgeID := edge.ID
	if edgeID == "" {
		edgeID = uuid.New().String()
	}

	params := map[string]interface{}{
		"uuid":              edgeID,
		"source_id":         edge.SourceID,
		"target_id":         edge.TargetID,
		"relationship_type": edge.RelationshipType,
		"strength":          edge.Strength,
		"metadata":          metadata,
	}

	if edge.IsHubConnection() {
		orgName, _ := edge.Metadata["organization"].(string)
		employeeCount := 0
		switch n := edge.Metadata["company_size"].(type) {
		case int:
			employeeCount = n
		case int64:
			employeeCount = int(n)
		case float64:
			employeeCount = int(n)
		}

		_, err := g.Driver.ExecuteQuery(ctx, driver.MergeOrganizationQuery, map[string]interface{}{
			"org_id":         edge.TargetID,
			"org_name":       orgName,
			"employee_count": employeeCount,
		})
		if err != nil {
			return err
		}

		_, err = g.Driver.ExecuteQuery(ctx, driver.SaveHubEdgeQuery, params)
		return err
	}

	if _, ok := pairEdgeTypes[edge.RelationshipType]; !ok {
		return fmt.Errorf("unknown relationship type %q", edge.RelationshipType)
	}

	query := fmt.Sprintf(driver.SavePairEdgeQuery, edge.RelationshipType)
	_, err := g.Driver.ExecuteQuery(ctx, query, params)
	return err
}

// Contacts returns all contacts, filtered case-insensitively when search is
// non-empty.
func (g *ContactGraph) Contacts(ctx context.Context, search string) ([]model.Contact, error) {
	query := driver.GetContactsQuery
	var params map[string]interface{}
	if search != "" {
		query = driver.SearchContactsQuery
		params = map[string]interface{}{"search_term": search}
	}

	result, err := g.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, err
	}

	contacts := make([]model.Contact, 0, len(result.Records))
	for _, record := range result.Records {
		if node, ok := recordNode(record, "c"); ok {
			contacts = append(contacts, contactFromProps(node.Props))
		}
	}
	return contacts, nil
}

func (g *ContactGraph) ContactByID(ctx context.Context, id string) (*model.Contact, error) {
	result, err := g.Driver.ExecuteQuery(ctx, driver.GetContactByIDQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, ErrNotFound
	}
	node, ok := recordNode(result.Records[0], "c")
	if !ok {
		return nil, ErrNotFound
	}
	c := contactFromProps(node.Props)
	return &c, nil
}

func (g *ContactGraph) UncategorizedContacts(ctx context.Context) ([]model.Contact, error) {
	result, err := g.Driver.ExecuteQuery(ctx, driver.GetUncategorizedContactsQuery, nil)
	if err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(result.Records))
	for _, record := range result.Records {
		if node, ok := recordNode(record, "c"); ok {
			contacts = append(contacts, contactFromProps(node.Props))
		}
	}
	return contacts, nil
}

// Edges returns every stored relationship, both contact-to-contact and
// contact-to-organization.
func (g *ContactGraph) Edges(ctx context.Context) ([]model.RelationshipEdge, error) {
	var edges []model.RelationshipEdge

	for _, query := range []string{driver.GetContactEdgesQuery, driver.GetHubEdgesQuery} {
		result, err := g.Driver.ExecuteQuery(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		for _, record := range result.Records {
			edges = append(edges, edgeFromRecord(record))
		}
	}

	return edges, nil
}

func (g *ContactGraph) AddTag(ctx context.Context, contactID, tag string) error {
	return g.mutateContact(ctx, driver.AddTagQuery, map[string]interface{}{"id": contactID, "tag": tag})
}

func (g *ContactGraph) RemoveTag(ctx context.Context, contactID, tag string) error {
	return g.mutateContact(ctx, driver.RemoveTagQuery, map[string]interface{}{"id": contactID, "tag": tag})
}

func (g *ContactGraph) UpdateNotes(ctx context.Context, contactID, notes string) error {
	return g.mutateContact(ctx, driver.UpdateNotesQuery, map[string]interface{}{"id": contactID, "notes": notes})
}

func (g *ContactGraph) mutateContact(ctx context.Context, query string, params map[string]interface{}) error {
	result, err := g.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll wipes every relationship and node. Used before restoring a
// backup with clear_existing.
func (g *ContactGraph) ClearAll(ctx context.Context) error {
	if _, err := g.Driver.ExecuteQuery(ctx, driver.ClearAllRelationshipsQuery, nil); err != nil {
		return err
	}
	_, err := g.Driver.ExecuteQuery(ctx, driver.ClearAllNodesQuery, nil)
	return err
}

func (g *ContactGraph) SetSyncToken(ctx context.Context, token string) error {
	_, err := g.Driver.ExecuteQuery(ctx, driver.SetSyncTokenQuery, map[string]interface{}{"token": token})
	return err
}

func (g *ContactGraph) SyncToken(ctx context.Context) (string, error) {
	result, err := g.Driver.ExecuteQuery(ctx, driver.GetSyncTokenQuery, nil)
	if err != nil {
		return "", err
	}
	if len(result.Records) == 0 {
		return "", nil
	}
	return recordString(result.Records[0], "token"), nil
}

func (g *ContactGraph) Stats(ctx context.Context) (*model.GraphStats, error) {
	stats := &model.GraphStats{
		RelationshipTypes: make(map[string]int64),
	}

	counts, err := g.Driver.ExecuteQuery(ctx, driver.GraphCountsQuery, nil)
	if err != nil {
		return nil, err
	}
	if len(counts.Records) > 0 {
		stats.ContactCount = recordInt(counts.Records[0], "contact_count")
		stats.RelationshipCount = recordInt(counts.Records[0], "relationship_count")
	}

	types, err := g.Driver.ExecuteQuery(ctx, driver.RelationshipTypesQuery, nil)
	if err != nil {
		return nil, err
	}
	for _, record := range types.Records {
		stats.RelationshipTypes[recordString(record, "type")] = recordInt(record, "count")
	}

	top, err := g.Driver.ExecuteQuery(ctx, driver.TopConnectedQuery, nil)
	if err != nil {
		return nil, err
	}
	for _, record := range top.Records {
		stats.TopConnected = append(stats.TopConnected, model.ConnectedNode{
			Name:        recordString(record, "name"),
			Connections: recordInt(record, "connections"),
		})
	}

	return stats, nil
}

func (g *ContactGraph) ShortestPath(ctx context.Context, sourceID, targetID string) (*model.PathResult, error) {
	result, err := g.Driver.ExecuteQuery(ctx, driver.ShortestPathQuery, map[string]interface{}{
		"source_id": sourceID,
		"target_id": targetID,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, ErrNotFound
	}

	record := result.Records[0]
	path := &model.PathResult{}

	nodes, _ := record.Get("nodes")
	if nodeList, ok := nodes.([]interface{}); ok {
		for _, n := range nodeList {
			if m, ok := n.(map[string]interface{}); ok {
				path.Nodes = append(path.Nodes, model.PathNode{
					ID:   propString(m, "id"),
					Name: propString(m, "name"),
				})
			}
		}
	}

	rels, _ := record.Get("relationships")
	if relList, ok := rels.([]interface{}); ok {
		for _, r := range relList {
			if s, ok := r.(string); ok {
				path.Relationships = append(path.Relationships, s)
			}
		}
	}

	return path, nil
}

// Communities fetches the stored graph and runs community detection over it.
func (g *ContactGraph) Communities(ctx context.Context) ([]model.Community, error) {
	contacts, err := g.Contacts(ctx, "")
	if err != nil {
		return nil, err
	}
	edges, err := g.Edges(ctx)
	if err != nil {
		return nil, err
	}
	return g.Detector.Detect(contacts, edges)
}

func (g *ContactGraph) Organizations(ctx context.Context) ([]model.OrganizationNode, error) {
	result, err := g.Driver.ExecuteQuery(ctx, driver.GetOrganizationsQuery, nil)
	if err != nil {
		return nil, err
	}
	orgs := make([]model.OrganizationNode, 0, len(result.Records))
	for _, record := range result.Records {
		if node, ok := recordNode(record, "org"); ok {
			orgs = append(orgs, organizationFromProps(node.Props))
		}
	}
	return orgs, nil
}
