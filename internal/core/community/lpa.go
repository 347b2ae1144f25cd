package community

import (
	"sort"

	"github.com/contactsphere/backend/internal/core/model"
)

// LabelPropagationDetector clusters contacts using the Label Propagation
// Algorithm (LPA) over the inferred pairwise edges. Hub edges are excluded:
// they point at synthetic organization nodes, not contacts.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(contacts []model.Contact, edges []model.RelationshipEdge) ([]model.Community, error) {
	if len(contacts) == 0 {
		return nil, nil
	}

	// Adjacency weighted by edge count: a pair connected by several
	// relationship types counts as a stronger tie.
	adj := make(map[string]map[string]int)
	contactMap := make(map[string]model.Contact)

	for _, c := range contacts {
		contactMap[c.ID] = c
		adj[c.ID] = make(map[string]int)
	}

	for _, e := range edges {
		if e.IsHubConnection() {
			continue
		}
		if _, ok := contactMap[e.SourceID]; !ok {
			continue
		}
		if _, ok := contactMap[e.TargetID]; !ok {
			continue
		}
		adj[e.SourceID][e.TargetID]++
		adj[e.TargetID][e.SourceID]++ // Undirected
	}

	// Each contact starts with its own label.
	labels := make(map[string]string)
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		labels[c.ID] = c.ID
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range ids {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Deterministic tie-break: lexicographically largest label.
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[string][]model.Contact)
	for id, label := range labels {
		clusters[label] = append(clusters[label], contactMap[id])
	}

	clusterLabels := make([]string, 0, len(clusters))
	for label := range clusters {
		clusterLabels = append(clusterLabels, label)
	}
	sort.Strings(clusterLabels)

	var communities []model.Community
	for _, label := range clusterLabels {
		members := clusters[label]
		if len(members) < 2 { // Singletons are not communities
			continue
		}
		communities = append(communities, toCommunity(members))
	}

	return communities, nil
}
