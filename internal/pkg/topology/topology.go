// Package topology builds the network graph elements of the first hour
// for a cytoscape style graph widget.
package topology

import (
	"log"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Data is the payload of one graph element. Nodes set ID, edges set Source
// and Target; both carry a Label.
type Data struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Label  string `json:"label"`
}

// Element is a node or an edge of the rendered graph.
type Element struct {
	Data Data `json:"data"`
}

// IsEdge reports whether e is an edge element.
func (e Element) IsEdge() bool {
	return e.Data.Source != "" || e.Data.Target != ""
}

// Graph is the ordered element list, nodes first, plus the endpoint ids
// of branches that reference no node of the node table and the number of
// connected islands, branch direction ignored.
type Graph struct {
	Elements []Element `json:"elements"`
	Dangling []string  `json:"dangling"`
	Islands  int       `json:"islands"`
}

// NodeElement returns the element of a node row.
func NodeElement(n dataset.Node) Element {
	id := dataset.FormatID(n.NodeID)
	return Element{Data{ID: id, Label: id}}
}

// EdgeElement returns the element of the branch at row.
func EdgeElement(row int, b dataset.Branch) Element {
	return Element{Data{
		Source: dataset.FormatID(b.From),
		Target: dataset.FormatID(b.To),
		Label:  dataset.FormatID(float64(dataset.BranchID(row))),
	}}
}

// BuildGraph returns one element per node row followed by one element per
// branch row of hour 1, in table order.
func BuildGraph(ds dataset.Dataset) (Graph, error) {
	tables, err := ds.Hour(1)
	if err != nil {
		return Graph{}, err
	}

	elements := make([]Element, 0, len(tables.Nodes)+len(tables.Branches))
	for _, n := range tables.Nodes {
		elements = append(elements, NodeElement(n))
	}
	for i, b := range tables.Branches {
		elements = append(elements, EdgeElement(i, b))
	}

	dangling, islands := analyse(tables)
	if len(dangling) > 0 {
		log.Printf("[Topology] %d branch endpoints reference unknown nodes: %v\n", len(dangling), dangling)
	}
	if islands > 1 {
		log.Printf("[Topology] network splits into %d islands\n", islands)
	}
	return Graph{Elements: elements, Dangling: dangling, Islands: islands}, nil
}

// analyse loads the node table into an undirected graph and walks the
// branches. An endpoint the graph does not hold is dangling; it is reported
// once and then added so the island count covers every element drawn.
// Self loops do not change connectivity and are skipped.
func analyse(t dataset.Tables) (dangling []string, islands int) {
	g := simple.NewUndirectedGraph()
	ids := make(map[string]int64)
	idOf := func(label string) int64 {
		id, ok := ids[label]
		if !ok {
			id = int64(len(ids))
			ids[label] = id
		}
		return id
	}

	for _, n := range t.Nodes {
		id := idOf(dataset.FormatID(n.NodeID))
		if g.Node(id) == nil {
			g.AddNode(simple.Node(id))
		}
	}

	dangling = make([]string, 0)
	for _, b := range t.Branches {
		from, to := dataset.FormatID(b.From), dataset.FormatID(b.To)
		for _, label := range []string{from, to} {
			id := idOf(label)
			if g.Node(id) == nil {
				dangling = append(dangling, label)
				g.AddNode(simple.Node(id))
			}
		}
		if from != to {
			g.SetEdge(g.NewEdge(simple.Node(ids[from]), simple.Node(ids[to])))
		}
	}
	return dangling, len(topo.ConnectedComponents(g))
}
