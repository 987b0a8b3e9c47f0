package topology

import (
	"encoding/json"
	"testing"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"gotest.tools/v3/assert"
)

func newDataset(t *testing.T, tables dataset.Tables) dataset.Dataset {
	ds, err := dataset.New(map[int]dataset.Tables{1: tables})
	assert.NilError(t, err)
	return ds
}

func TestBuildGraphSingleNode(t *testing.T) {
	ds := newDataset(t, dataset.Tables{
		Branches: []dataset.Branch{{From: 1, To: 1, Flow: -3}},
		Nodes:    []dataset.Node{{NodeID: 1, NodeType: 1, Demand: 16}},
	})

	g, err := BuildGraph(ds)
	assert.NilError(t, err)
	assert.DeepEqual(t, g.Elements, []Element{
		{Data{ID: "1", Label: "1"}},
		{Data{Source: "1", Target: "1", Label: "0"}},
	})
	assert.Equal(t, len(g.Dangling), 0)
	assert.Equal(t, g.Islands, 1)

	raw, err := json.Marshal(g.Elements)
	assert.NilError(t, err)
	assert.Equal(t, string(raw),
		`[{"data":{"id":"1","label":"1"}},{"data":{"source":"1","target":"1","label":"0"}}]`)
}

func TestBuildGraphOrder(t *testing.T) {
	ds := newDataset(t, dataset.Tables{
		Branches: []dataset.Branch{{From: 3, To: 1, Flow: 2}, {From: 1, To: 2, Flow: -1}},
		Nodes: []dataset.Node{
			{NodeID: 3, NodeType: 1}, {NodeID: 1, NodeType: 2}, {NodeID: 2, NodeType: 2},
		},
	})

	g, err := BuildGraph(ds)
	assert.NilError(t, err)
	assert.Equal(t, len(g.Elements), 5)

	for i, e := range g.Elements[:3] {
		assert.Assert(t, !e.IsEdge(), "element %d", i)
	}
	for _, e := range g.Elements[3:] {
		assert.Assert(t, e.IsEdge())
	}
	assert.Equal(t, g.Elements[0].Data.ID, "3")
	assert.Equal(t, g.Elements[1].Data.ID, "1")
	assert.Equal(t, g.Elements[3].Data.Source, "3")
	assert.Equal(t, g.Elements[3].Data.Label, "0")
	assert.Equal(t, g.Elements[4].Data.Target, "2")
	assert.Equal(t, g.Elements[4].Data.Label, "1")
}

func TestBuildGraphUsesHourOne(t *testing.T) {
	first := dataset.Tables{Nodes: []dataset.Node{{NodeID: 1}}}
	second := dataset.Tables{Nodes: []dataset.Node{{NodeID: 1}, {NodeID: 2}}}
	ds, err := dataset.New(map[int]dataset.Tables{1: first, 2: second})
	assert.NilError(t, err)

	g, err := BuildGraph(ds)
	assert.NilError(t, err)
	assert.Equal(t, len(g.Elements), 1)
}

func TestBuildGraphDangling(t *testing.T) {
	ds := newDataset(t, dataset.Tables{
		Branches: []dataset.Branch{{From: 1, To: 7, Flow: 1}, {From: 7, To: 8.5, Flow: 1}},
		Nodes:    []dataset.Node{{NodeID: 1}},
	})

	g, err := BuildGraph(ds)
	assert.NilError(t, err)
	assert.Equal(t, len(g.Elements), 3)
	assert.DeepEqual(t, g.Dangling, []string{"7", "8.5"})
	assert.Equal(t, g.Islands, 1)
}

func TestBuildGraphDanglingDuplicateEndpoint(t *testing.T) {
	ds := newDataset(t, dataset.Tables{
		Branches: []dataset.Branch{{From: 9, To: 1, Flow: 1}, {From: 1, To: 9, Flow: 2}, {From: 9, To: 9, Flow: 3}},
		Nodes:    []dataset.Node{{NodeID: 1}, {NodeID: 1}},
	})

	g, err := BuildGraph(ds)
	assert.NilError(t, err)
	assert.DeepEqual(t, g.Dangling, []string{"9"})
}

func TestBuildGraphIslands(t *testing.T) {
	ds := newDataset(t, dataset.Tables{
		Branches: []dataset.Branch{{From: 1, To: 2, Flow: 1}, {From: 3, To: 4, Flow: -2}, {From: 4, To: 3, Flow: 2}},
		Nodes:    []dataset.Node{{NodeID: 1}, {NodeID: 2}, {NodeID: 3}, {NodeID: 4}, {NodeID: 5}},
	})

	g, err := BuildGraph(ds)
	assert.NilError(t, err)
	assert.Equal(t, g.Islands, 3)
	assert.Equal(t, len(g.Dangling), 0)
}

func TestEdgeElementLabel(t *testing.T) {
	e := EdgeElement(12, dataset.Branch{From: 4, To: 5, Flow: 0.25})
	assert.Equal(t, e.Data.Label, "12")
	assert.Assert(t, e.IsEdge())
}
