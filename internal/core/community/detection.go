package community

import (
	"sort"

	"github.com/contactsphere/backend/internal/core/model"
)

type Detector interface {
	Detect(contacts []model.Contact, edges []model.RelationshipEdge) ([]model.Community, error)
}

func NewDetector() Detector {
	return NewLabelPropagationDetector()
}

// nameFor picks a display name for a cluster: the most common organization
// among its members, falling back to the first member's circle.
func nameFor(members []model.Contact) string {
	counts := make(map[string]int)
	for _, m := range members {
		if m.Organization != "" {
			counts[m.Organization]++
		}
	}

	best := ""
	for org, n := range counts {
		if n > counts[best] || (n == counts[best] && (best == "" || org < best)) {
			best = org
		}
	}
	if best != "" {
		return best
	}
	return members[0].Name + " circle"
}

func toCommunity(members []model.Contact) model.Community {
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	nodes := make([]model.PathNode, len(members))
	for i, m := range members {
		nodes[i] = model.PathNode{ID: m.ID, Name: m.Name}
	}
	return model.Community{
		Name:    nameFor(members),
		Members: nodes,
		Size:    len(nodes),
	}
}
