// Package dashboard holds the session state shared by every presentation
// layer: the loaded dataset and the views computed from it once.
package dashboard

import (
	"log"

	"github.com/google/uuid"
	"github.com/ohowland/gridviz/internal/pkg/bardata"
	"github.com/ohowland/gridviz/internal/pkg/cluster"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/topology"
)

// Initial cluster view.
const (
	InitialHour     = 1
	InitialClusters = 1
)

// Bounds are the valid ranges of the two numeric inputs.
type Bounds struct {
	Hours       [2]int      `json:"hours"`
	MaxClusters map[int]int `json:"max_clusters"`
}

// State is immutable after New and safe for concurrent use.
type State struct {
	pid      uuid.UUID
	data     dataset.Dataset
	graph    topology.Graph
	nodes    []bardata.NodeBar
	branches []bardata.BranchBar
	initial  cluster.Result
	bounds   Bounds
}

// New computes every startup view of ds. Any failure aborts startup.
func New(ds dataset.Dataset) (*State, error) {
	graph, err := topology.BuildGraph(ds)
	if err != nil {
		return nil, err
	}
	nodes, err := bardata.Nodes(ds)
	if err != nil {
		return nil, err
	}
	branches, err := bardata.Branches(ds)
	if err != nil {
		return nil, err
	}
	initial, err := cluster.Cluster(ds, InitialHour, InitialClusters)
	if err != nil {
		return nil, err
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}

	bounds := Bounds{MaxClusters: make(map[int]int, ds.Len())}
	hours := ds.Hours()
	bounds.Hours = [2]int{hours[0], hours[len(hours)-1]}
	for _, h := range hours {
		t, err := ds.Hour(h)
		if err != nil {
			return nil, err
		}
		bounds.MaxClusters[h] = len(t.Branches)
	}

	log.Printf("[Dashboard] session %v ready: %d graph elements, %d node bars, %d branch bars\n",
		pid, len(graph.Elements), len(nodes), len(branches))

	return &State{
		pid:      pid,
		data:     ds,
		graph:    graph,
		nodes:    nodes,
		branches: branches,
		initial:  initial,
		bounds:   bounds,
	}, nil
}

// PID is a getter for the session identity.
func (s *State) PID() uuid.UUID {
	return s.pid
}

// Dataset returns the loaded dataset.
func (s *State) Dataset() dataset.Dataset {
	return s.data
}

// Graph returns a copy of the hour 1 network graph.
func (s *State) Graph() topology.Graph {
	return topology.Graph{
		Elements: append([]topology.Element(nil), s.graph.Elements...),
		Dangling: append([]string{}, s.graph.Dangling...),
		Islands:  s.graph.Islands,
	}
}

// Nodes returns a copy of the node bar rows.
func (s *State) Nodes() []bardata.NodeBar {
	return append([]bardata.NodeBar(nil), s.nodes...)
}

// Branches returns a copy of the branch bar rows.
func (s *State) Branches() []bardata.BranchBar {
	return append([]bardata.BranchBar(nil), s.branches...)
}

// InitialCluster returns a copy of the startup cluster view.
func (s *State) InitialCluster() cluster.Result {
	return copyResult(s.initial)
}

// Bounds returns a copy of the input ranges.
func (s *State) Bounds() Bounds {
	b := Bounds{Hours: s.bounds.Hours, MaxClusters: make(map[int]int, len(s.bounds.MaxClusters))}
	for h, n := range s.bounds.MaxClusters {
		b.MaxClusters[h] = n
	}
	return b
}

// Cluster recomputes the cluster view for one input change.
func (s *State) Cluster(hour, k int) (cluster.Result, error) {
	return cluster.Cluster(s.data, hour, k)
}

func copyResult(r cluster.Result) cluster.Result {
	r.Rows = append([]cluster.Row(nil), r.Rows...)
	r.Centroids = append([]float64(nil), r.Centroids...)
	return r
}
