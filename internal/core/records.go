package core

import (
	"encoding/json"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/contactsphere/backend/internal/core/model"
)

// Helpers for pulling typed values out of Neo4j records and node property
// maps. The driver hands back interface{} for everything; absent or
// mistyped properties fall back to zero values.

func recordNode(record *db.Record, key string) (neo4j.Node, bool) {
	value, ok := record.Get(key)
	if !ok {
		return neo4j.Node{}, false
	}
	node, ok := value.(neo4j.Node)
	return node, ok
}

func recordString(record *db.Record, key string) string {
	value, _ := record.Get(key)
	s, _ := value.(string)
	return s
}

func recordInt(record *db.Record, key string) int64 {
	value, _ := record.Get(key)
	n, _ := value.(int64)
	return n
}

func recordFloat(record *db.Record, key string) float64 {
	value, _ := record.Get(key)
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func propString(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func propBool(props map[string]interface{}, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func propInt(props map[string]interface{}, key string) int {
	n, _ := props[key].(int64)
	return int(n)
}

func propStringSlice(props map[string]interface{}, key string) []string {
	raw, _ := props[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func propTime(props map[string]interface{}, key string) *time.Time {
	if t, ok := props[key].(time.Time); ok {
		return &t
	}
	return nil
}

func contactFromProps(props map[string]interface{}) model.Contact {
	c := model.Contact{
		ID:                   propString(props, "id"),
		Name:                 propString(props, "name"),
		Email:                propString(props, "email"),
		Phone:                propString(props, "phone"),
		Organization:         propString(props, "organization"),
		PreviousOrganization: propString(props, "previous_organization"),
		City:                 propString(props, "city"),
		Country:              propString(props, "country"),
		Birthday:             propString(props, "birthday"),
		PhotoURL:             propString(props, "photo_url"),
		Address:              propString(props, "address"),
		Street:               propString(props, "street"),
		PostalCode:           propString(props, "postal_code"),
		Notes:                propString(props, "notes"),
		Tags:                 propStringSlice(props, "tags"),
		Uncategorized:        propBool(props, "uncategorized"),
		CreatedAt:            propTime(props, "created_at"),
		UpdatedAt:            propTime(props, "updated_at"),
	}

	if raw := propString(props, "raw_data"); raw != "" {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			c.RawData = data
		}
	}

	return c
}

func organizationFromProps(props map[string]interface{}) model.OrganizationNode {
	org := model.OrganizationNode{
		ID:            propString(props, "id"),
		Name:          propString(props, "name"),
		Type:          propString(props, "type"),
		EmployeeCount: propInt(props, "employee_count"),
		CreatedAt:     propTime(props, "created_at"),
	}
	if org.Type == "" {
		org.Type = "organization"
	}
	return org
}

func edgeFromRecord(record *db.Record) model.RelationshipEdge {
	edge := model.RelationshipEdge{
		ID:               recordString(record, "uuid"),
		SourceID:         recordString(record, "source_id"),
		TargetID:         recordString(record, "target_id"),
		RelationshipType: recordString(record, "relationship_type"),
		Strength:         recordFloat(record, "strength"),
	}

	if raw := recordString(record, "metadata"); raw != "" {
		var meta map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &meta); err == nil {
			edge.Metadata = meta
		}
	}

	return edge
}
