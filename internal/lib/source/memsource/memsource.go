// Package memsource is an in-memory loader.Source used for fixtures and tests.
package memsource

import (
	"fmt"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/loader"
)

// Source holds raw tables keyed by hour and table name.
type Source struct {
	Groups map[int]map[string][][]float64
}

// New returns an empty Source.
func New() *Source {
	return &Source{Groups: make(map[int]map[string][][]float64)}
}

// FromTables builds a Source holding the same tables for hours 1..hours.
func FromTables(hours int, t dataset.Tables) *Source {
	s := New()
	for h := 1; h <= hours; h++ {
		s.SetHour(h, t)
	}
	return s
}

// SetHour stores the raw rows of t as hour group hour.
func (s *Source) SetHour(hour int, t dataset.Tables) {
	branches := make([][]float64, len(t.Branches))
	for i, b := range t.Branches {
		branches[i] = []float64{b.From, b.To, b.Flow}
	}
	gens := make([][]float64, len(t.Generators))
	for i, g := range t.Generators {
		gens[i] = []float64{g.NodeID, g.Generation, g.Cost}
	}
	nodes := make([][]float64, len(t.Nodes))
	for i, n := range t.Nodes {
		nodes[i] = []float64{n.NodeID, n.NodeType, n.Demand}
	}
	s.Groups[hour] = map[string][][]float64{
		loader.TableBranches: branches,
		loader.TableGens:     gens,
		loader.TableNodes:    nodes,
	}
}

// HourCount returns the number of stored hour groups.
func (s *Source) HourCount() (int, error) {
	return len(s.Groups), nil
}

// ReadTable returns a copy of the stored rows.
func (s *Source) ReadTable(hour int, name string) ([][]float64, error) {
	group, ok := s.Groups[hour]
	if !ok {
		return nil, fmt.Errorf("%s: %w", loader.GroupName(hour), loader.ErrMissingGroup)
	}
	rows, ok := group[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, loader.ErrMissingTable)
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out, nil
}
