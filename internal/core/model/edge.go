package model

// Relationship type vocabulary produced by the inference engine.
const (
	RelCloseColleagues = "CLOSE_COLLEAGUES"
	RelWorksAt         = "WORKS_AT"
	RelLivesIn         = "LIVES_IN"
	RelWorksWith       = "WORKS_WITH"
	RelSharesBirthday  = "SHARES_BIRTHDAY"
	RelAlumniOf        = "ALUMNI_OF"
	RelSharedTag       = "SHARED_TAG"
)

// RelationshipEdge is an inferred relationship between two contacts, or
// between a contact and an organization hub. Source/target order carries no
// meaning for pairwise edges; the engine emits each unordered pair once.
type RelationshipEdge struct {
	ID               string                 `json:"id,omitempty"`
	SourceID         string                 `json:"source_id"`
	TargetID         string                 `json:"target_id"`
	RelationshipType string                 `json:"relationship_type"`
	Strength         float64                `json:"strength"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// IsHubConnection reports whether the edge points at a synthetic
// organization hub rather than another contact.
func (e RelationshipEdge) IsHubConnection() bool {
	if e.Metadata == nil {
		return false
	}
	hub, _ := e.Metadata["is_hub_connection"].(bool)
	return hub
}
