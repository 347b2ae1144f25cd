package model

import "time"

// Contact is a normalized person record as delivered by the acquisition
// collaborators. ID and Name are guaranteed non-empty upstream; everything
// else is optional.
type Contact struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	Email                string                 `json:"email,omitempty"`
	Phone                string                 `json:"phone,omitempty"`
	Organization         string                 `json:"organization,omitempty"`
	PreviousOrganization string                 `json:"previous_organization,omitempty"`
	City                 string                 `json:"city,omitempty"`
	Country              string                 `json:"country,omitempty"`
	Birthday             string                 `json:"birthday,omitempty"` // MM-DD
	PhotoURL             string                 `json:"photo_url,omitempty"`
	Address              string                 `json:"address,omitempty"`
	Street               string                 `json:"street,omitempty"`
	PostalCode           string                 `json:"postal_code,omitempty"`
	Notes                string                 `json:"notes,omitempty"`
	RawData              map[string]interface{} `json:"raw_data,omitempty"`
	Tags                 []string               `json:"tags"`
	Uncategorized        bool                   `json:"uncategorized"`
	CreatedAt            *time.Time             `json:"created_at,omitempty"`
	UpdatedAt            *time.Time             `json:"updated_at,omitempty"`
}

// OrganizationNode is the synthetic hub entity materialized for large
// employers instead of a pairwise clique. ID format: "org_<slug>".
type OrganizationNode struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	EmployeeCount int        `json:"employee_count"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// SyncResult reports the outcome of a contact sync batch.
type SyncResult struct {
	Imported      int    `json:"imported"`
	Updated       int    `json:"updated"`
	Skipped       int    `json:"skipped"`
	TotalContacts int    `json:"total_contacts"`
	EdgeCount     int    `json:"edge_count"`
	SyncToken     string `json:"sync_token,omitempty"`
}

// GraphStats is the dashboard summary of the stored graph.
type GraphStats struct {
	ContactCount      int64            `json:"contact_count"`
	RelationshipCount int64            `json:"relationship_count"`
	RelationshipTypes map[string]int64 `json:"relationship_types"`
	TopConnected      []ConnectedNode  `json:"top_connected"`
}

type ConnectedNode struct {
	Name        string `json:"name"`
	Connections int64  `json:"connections"`
}

// PathResult is a shortest path between two contacts.
type PathResult struct {
	Nodes         []PathNode `json:"nodes"`
	Relationships []string   `json:"relationships"`
}

type PathNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Community is a detected cluster of connected contacts.
type Community struct {
	Name    string     `json:"name"`
	Members []PathNode `json:"members"`
	Size    int        `json:"size"`
}

// Backup is the full-export payload served by the backup endpoints.
type Backup struct {
	Metadata  BackupMetadata     `json:"metadata"`
	Contacts  []Contact          `json:"contacts"`
	Edges     []RelationshipEdge `json:"edges"`
	SyncToken string             `json:"sync_token,omitempty"`
}

type BackupMetadata struct {
	Version      string    `json:"version"`
	AppName      string    `json:"app_name"`
	CreatedAt    time.Time `json:"created_at"`
	ContactCount int       `json:"contact_count"`
	EdgeCount    int       `json:"edge_count"`
}

// RestoreResult reports how much of a backup was written back.
type RestoreResult struct {
	ContactsRestored  int  `json:"contacts_restored"`
	EdgesRestored     int  `json:"edges_restored"`
	SyncTokenRestored bool `json:"sync_token_restored"`
}
