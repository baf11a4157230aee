package plant

import (
	"fmt"
	"strings"
)

// TopologyNode is one node in the reconstructed plant tree. Children
// hold the identifiers of the node's immediate descendants, so the tree
// is established purely through forward references.
type TopologyNode struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Children []string          `json:"children"`
	Details  map[string]string `json:"details"`
}

// TopologyBuilder reconstructs the Headend -> FDH -> Splitter ->
// Customer hierarchy from current store contents. Read-only; rebuilt
// fresh on every call.
type TopologyBuilder struct {
	store *Store
}

// NewTopologyBuilder creates a new TopologyBuilder.
func NewTopologyBuilder(store *Store) *TopologyBuilder {
	return &TopologyBuilder{store: store}
}

// ByCity returns the topology nodes for one city, or for the whole
// plant when city is "all" (any case) or blank. Returns an empty slice
// when no headend matches.
func (b *TopologyBuilder) ByCity(city string) ([]TopologyNode, error) {
	if strings.EqualFold(city, "all") || strings.TrimSpace(city) == "" {
		city = ""
	}
	headends, err := b.store.Headends(city)
	if err != nil {
		return nil, err
	}

	nodes := []TopologyNode{}
	for _, headend := range headends {
		headendNode := TopologyNode{
			ID:       fmt.Sprintf("headend-%d", headend.ID),
			Type:     "Headend",
			Name:     headend.Name,
			Children: []string{},
			Details: map[string]string{
				"city":     headend.City,
				"location": headend.Location,
			},
		}
		headendIdx := len(nodes)
		nodes = append(nodes, headendNode)

		fdhs, err := b.store.FdhsByHeadend(headend.ID)
		if err != nil {
			return nil, err
		}
		for _, fdh := range fdhs {
			fdhID := fmt.Sprintf("fdh-%d", fdh.ID)
			nodes[headendIdx].Children = append(nodes[headendIdx].Children, fdhID)
			fdhNode := TopologyNode{
				ID:       fdhID,
				Type:     "FDH",
				Name:     fdh.Name,
				Children: []string{},
				Details: map[string]string{
					"region":   fdh.Region,
					"location": fdh.Location,
					"ports":    fmt.Sprintf("%d max", fdh.MaxPorts),
				},
			}
			fdhIdx := len(nodes)
			nodes = append(nodes, fdhNode)

			splitters, err := b.store.SplittersByFdh(fdh.ID)
			if err != nil {
				return nil, err
			}
			for _, splitter := range splitters {
				splitterID := fmt.Sprintf("splitter-%d", splitter.ID)
				nodes[fdhIdx].Children = append(nodes[fdhIdx].Children, splitterID)
				splitterNode := TopologyNode{
					ID:       splitterID,
					Type:     "Splitter",
					Name:     splitter.Model,
					Children: []string{},
					Details: map[string]string{
						"ratio":    fmt.Sprintf("1:%d", splitter.PortCapacity),
						"used":     fmt.Sprintf("%d/%d", splitter.UsedPorts, splitter.PortCapacity),
						"location": splitter.Location,
					},
				}
				splitterIdx := len(nodes)
				nodes = append(nodes, splitterNode)

				customers, err := b.store.CustomersBySplitterOrdered(splitter.ID)
				if err != nil {
					return nil, err
				}
				prefix := housePrefix(&fdh)
				for _, customer := range customers {
					houseID := fmt.Sprintf("customer-%d", customer.ID)
					nodes[splitterIdx].Children = append(nodes[splitterIdx].Children, houseID)
					nodes = append(nodes, TopologyNode{
						ID:       houseID,
						Type:     "House",
						Name:     fmt.Sprintf("%s.%d", prefix, customer.AssignedPort),
						Children: []string{},
						Details: map[string]string{
							"customerName": customer.Name,
							"address":      customer.Address,
							"status":       string(customer.Status),
							"plan":         customer.Plan,
						},
					})
				}
			}
		}
	}
	return nodes, nil
}

// housePrefix derives the display prefix for a house node from its
// FDH's region: "Neighborhood A1" becomes "A1". FDHs without a region
// fall back to "N{fdhId}".
func housePrefix(fdh *Fdh) string {
	if fdh.Region == "" {
		return fmt.Sprintf("N%d", fdh.ID)
	}
	prefix := strings.ReplaceAll(fdh.Region, "Neighborhood ", "")
	return strings.ReplaceAll(prefix, " ", "")
}
