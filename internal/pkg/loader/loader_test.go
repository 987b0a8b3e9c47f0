package loader_test

import (
	"errors"
	"testing"

	"github.com/ohowland/gridviz/internal/lib/source/memsource"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/loader"
	"gotest.tools/v3/assert"
)

var hourTables = dataset.Tables{
	Branches:   []dataset.Branch{{From: 1, To: 2, Flow: -3}, {From: 2, To: 1, Flow: 4.5}},
	Generators: []dataset.Generator{{NodeID: 1, Generation: 22, Cost: 6}},
	Nodes:      []dataset.Node{{NodeID: 1, NodeType: 1, Demand: 16}, {NodeID: 2, NodeType: 2, Demand: 17}},
}

func TestExtract(t *testing.T) {
	src := memsource.FromTables(24, hourTables)

	ds, err := loader.Extract(src)
	assert.NilError(t, err)
	assert.Equal(t, ds.Len(), 24)

	tables, err := ds.Hour(24)
	assert.NilError(t, err)
	assert.DeepEqual(t, tables, hourTables)
}

func TestExtractNamesColumns(t *testing.T) {
	src := memsource.New()
	src.Groups[1] = map[string][][]float64{
		loader.TableBranches: {{3, 4, 5}},
		loader.TableGens:     {{6, 7, 8}},
		loader.TableNodes:    {{9, 10, 11}},
	}

	ds, err := loader.Extract(src)
	assert.NilError(t, err)

	tables, err := ds.Hour(1)
	assert.NilError(t, err)
	assert.Equal(t, tables.Branches[0], dataset.Branch{From: 3, To: 4, Flow: 5})
	assert.Equal(t, tables.Generators[0], dataset.Generator{NodeID: 6, Generation: 7, Cost: 8})
	assert.Equal(t, tables.Nodes[0], dataset.Node{NodeID: 9, NodeType: 10, Demand: 11})
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*memsource.Source)
		cause  error
	}{
		{"missing hour group", func(s *memsource.Source) {
			s.Groups[4] = s.Groups[3]
			delete(s.Groups, 3)
		}, loader.ErrMissingGroup},
		{"missing table", func(s *memsource.Source) {
			delete(s.Groups[2], loader.TableGens)
		}, loader.ErrMissingTable},
		{"column count mismatch", func(s *memsource.Source) {
			s.Groups[1][loader.TableNodes] = [][]float64{{1, 2}}
		}, nil},
		{"empty results", func(s *memsource.Source) {
			s.Groups = map[int]map[string][][]float64{}
		}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := memsource.FromTables(4, hourTables)
			tc.mutate(src)

			ds, err := loader.Extract(src)
			assert.Assert(t, errors.Is(err, dataset.ErrDataFormat), "got %v", err)
			if tc.cause != nil {
				assert.Assert(t, errors.Is(err, tc.cause), "got %v", err)
			}
			assert.Equal(t, ds.Len(), 0)
		})
	}
}

func TestExtractRereadsSource(t *testing.T) {
	src := memsource.FromTables(1, hourTables)

	first, err := loader.Extract(src)
	assert.NilError(t, err)

	src.Groups[1][loader.TableBranches] = [][]float64{{7, 8, 9}}
	second, err := loader.Extract(src)
	assert.NilError(t, err)

	a, _ := first.Hour(1)
	b, _ := second.Hour(1)
	assert.Equal(t, len(a.Branches), 2)
	assert.Equal(t, len(b.Branches), 1)
	assert.Assert(t, first.PID() != second.PID())
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, loader.GroupName(7), "hour_7")
}
