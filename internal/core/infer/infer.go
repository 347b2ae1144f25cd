package infer

import (
	"sort"
	"strings"

	"github.com/contactsphere/backend/internal/core/extract"
	"github.com/contactsphere/backend/internal/core/model"
)

// Per-type strengths. Fixed per relationship type, never contact-specific.
const (
	strengthCloseColleagues = 0.9
	strengthWorksAt         = 0.7
	strengthLivesIn         = 0.3
	strengthWorksWith       = 0.7
	strengthSharesBirthday  = 0.3
	strengthAlumniOf        = 0.6
	strengthSharedTag       = 0.6
)

// Group-size caps for the uniform clique families. City gets a higher cap
// than the rest since city groups are naturally larger.
const (
	cityGroupCap    = 50
	genericGroupCap = 30
)

// Thresholds are the company-size tier boundaries. An explicit value passed
// at construction, not ambient process state.
type Thresholds struct {
	// SmallCompany is the largest member count that still produces a full
	// CLOSE_COLLEAGUES clique (clique cost is bounded at n*(n-1)/2 <= 45).
	SmallCompany int
	// LargeCompany is the largest member count that produces hub edges.
	// Anything bigger is dropped entirely.
	LargeCompany int
}

func DefaultThresholds() Thresholds {
	return Thresholds{SmallCompany: 10, LargeCompany: 200}
}

// Engine turns a flat contact collection into a weighted, typed, deduplicated
// edge set. Stateless across calls: every InferAll is an independent batch.
type Engine struct {
	thresholds Thresholds
}

func New(t Thresholds) *Engine {
	if t.SmallCompany <= 0 {
		t.SmallCompany = DefaultThresholds().SmallCompany
	}
	if t.LargeCompany <= 0 {
		t.LargeCompany = DefaultThresholds().LargeCompany
	}
	return &Engine{thresholds: t}
}

// InferAll runs every attribute family over the contact set and returns the
// combined edge list. Contacts without an id or name are skipped; they are a
// data-quality condition, not an error. Deterministic given its input.
func (e *Engine) InferAll(contacts []model.Contact) []model.RelationshipEdge {
	valid := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			continue
		}
		valid = append(valid, c)
	}

	var edges []model.RelationshipEdge
	for _, family := range extract.Families() {
		groups := groupByFamily(family, valid)
		switch family {
		case extract.FamilyOrganization:
			edges = append(edges, e.companyEdges(groups)...)
		case extract.FamilyCity:
			edges = append(edges, cliqueEdges(groups, model.RelLivesIn, strengthLivesIn, cityGroupCap, "city")...)
		case extract.FamilyDomain:
			edges = append(edges, cliqueEdges(groups, model.RelWorksWith, strengthWorksWith, genericGroupCap, "shared_attribute")...)
		case extract.FamilyBirthday:
			edges = append(edges, cliqueEdges(groups, model.RelSharesBirthday, strengthSharesBirthday, genericGroupCap, "shared_attribute")...)
		case extract.FamilySchool:
			edges = append(edges, cliqueEdges(groups, model.RelAlumniOf, strengthAlumniOf, genericGroupCap, "shared_attribute")...)
		case extract.FamilyTag:
			edges = append(edges, cliqueEdges(groups, model.RelSharedTag, strengthSharedTag, genericGroupCap, "shared_attribute")...)
		}
	}
	return edges
}

// groupByFamily fans contacts into per-key buckets, preserving input order
// within each bucket, and drops keys with fewer than two members.
func groupByFamily(f extract.Family, contacts []model.Contact) map[string][]model.Contact {
	groups := make(map[string][]model.Contact)
	for _, c := range contacts {
		for _, key := range extract.Keys(f, c) {
			groups[key] = append(groups[key], c)
		}
	}
	for key, members := range groups {
		if len(members) < 2 {
			delete(groups, key)
		}
	}
	return groups
}

// companyEdges applies the three-tier organization policy: small companies
// become CLOSE_COLLEAGUES cliques, mid-size ones become per-member edges to a
// synthetic hub node, and anything above the large threshold is dropped as
// too noisy to be evidence of acquaintance.
func (e *Engine) companyEdges(groups map[string][]model.Contact) []model.RelationshipEdge {
	var edges []model.RelationshipEdge
	seen := make(map[[2]string]struct{})

	for _, company := range sortedKeys(groups) {
		members := groups[company]
		size := len(members)

		if size > e.thresholds.LargeCompany {
			continue
		}

		if size <= e.thresholds.SmallCompany {
			for i, a := range members {
				for _, b := range members[i+1:] {
					if !markPair(seen, a.ID, b.ID) {
						continue
					}
					edges = append(edges, model.RelationshipEdge{
						SourceID:         a.ID,
						TargetID:         b.ID,
						RelationshipType: model.RelCloseColleagues,
						Strength:         strengthCloseColleagues,
						Metadata: map[string]interface{}{
							"organization": company,
							"company_size": size,
						},
					})
				}
			}
			continue
		}

		hubID := OrgID(company)
		for _, member := range members {
			if !markPair(seen, member.ID, hubID) {
				continue
			}
			edges = append(edges, model.RelationshipEdge{
				SourceID:         member.ID,
				TargetID:         hubID,
				RelationshipType: model.RelWorksAt,
				Strength:         strengthWorksAt,
				Metadata: map[string]interface{}{
					"organization":      company,
					"company_size":      size,
					"is_hub_connection": true,
				},
			})
		}
	}
	return edges
}

// cliqueEdges is the uniform policy for the weaker signal families: a full
// pairwise clique per group, skipping groups above the cap, one edge per
// unordered pair per relationship type even when a pair shares several keys.
func cliqueEdges(groups map[string][]model.Contact, relType string, strength float64, limit int, metaKey string) []model.RelationshipEdge {
	var edges []model.RelationshipEdge
	seen := make(map[[2]string]struct{})

	for _, key := range sortedKeys(groups) {
		members := groups[key]
		if len(members) > limit {
			continue
		}
		for i, a := range members {
			for _, b := range members[i+1:] {
				if !markPair(seen, a.ID, b.ID) {
					continue
				}
				edges = append(edges, model.RelationshipEdge{
					SourceID:         a.ID,
					TargetID:         b.ID,
					RelationshipType: relType,
					Strength:         strength,
					Metadata:         map[string]interface{}{metaKey: key},
				})
			}
		}
	}
	return edges
}

// OrgID derives the synthetic hub identifier from a normalized organization
// name: spaces become underscores, periods and commas are stripped. Two
// distinct names that slug identically will merge into one hub; slug
// collisions are a known limitation, rare enough in practice to tolerate.
func OrgID(company string) string {
	slug := strings.ToLower(company)
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, ".", "")
	slug = strings.ReplaceAll(slug, ",", "")
	return "org_" + slug
}

// markPair records an unordered pair, reporting false if it was already seen.
func markPair(seen map[[2]string]struct{}, a, b string) bool {
	if b < a {
		a, b = b, a
	}
	pair := [2]string{a, b}
	if _, dup := seen[pair]; dup {
		return false
	}
	seen[pair] = struct{}{}
	return true
}

func sortedKeys(groups map[string][]model.Contact) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
