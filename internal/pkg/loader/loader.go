// Package loader assembles a dataset.Dataset from a hierarchical results
// source with one group per simulated hour.
package loader

import (
	"errors"
	"fmt"
	"log"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
)

// Table names inside each hour group.
const (
	TableBranches = "branches"
	TableGens     = "gens"
	TableNodes    = "nodes"
)

// Width is the fixed column count of every table.
const Width = 3

var (
	// ErrMissingGroup is returned by a Source when an hour group does not exist.
	ErrMissingGroup = errors.New("missing hour group")
	// ErrMissingTable is returned by a Source when a table does not exist in its hour group.
	ErrMissingTable = errors.New("missing table")
)

// Source is the storage abstraction the Loader reads from.
type Source interface {
	// HourCount returns the number of entries of the top level results group.
	HourCount() (int, error)
	// ReadTable returns the rows of the named table of hour group hour_<hour>.
	ReadTable(hour int, name string) ([][]float64, error)
}

// GroupName is the name of the group holding one hour's tables.
func GroupName(hour int) string {
	return fmt.Sprintf("hour_%d", hour)
}

// Extract reads every hour group of src and returns the assembled Dataset.
// Nothing is cached; each call re-reads src.
func Extract(src Source) (dataset.Dataset, error) {
	n, err := src.HourCount()
	if err != nil {
		return dataset.Dataset{}, &dataset.FormatError{Detail: fmt.Sprintf("results: %v", err), Err: err}
	}
	if n < 1 {
		return dataset.Dataset{}, &dataset.FormatError{Detail: "results group is empty"}
	}

	hours := make(map[int]dataset.Tables, n)
	for hour := 1; hour <= n; hour++ {
		tables, err := extractHour(src, hour)
		if err != nil {
			return dataset.Dataset{}, err
		}
		hours[hour] = tables
	}

	ds, err := dataset.New(hours)
	if err != nil {
		return dataset.Dataset{}, err
	}
	log.Printf("[Loader] extracted %d hours into dataset %v\n", ds.Len(), ds.PID())
	return ds, nil
}

func extractHour(src Source, hour int) (dataset.Tables, error) {
	branches, err := readTable(src, hour, TableBranches)
	if err != nil {
		return dataset.Tables{}, err
	}
	gens, err := readTable(src, hour, TableGens)
	if err != nil {
		return dataset.Tables{}, err
	}
	nodes, err := readTable(src, hour, TableNodes)
	if err != nil {
		return dataset.Tables{}, err
	}

	t := dataset.Tables{
		Branches:   make([]dataset.Branch, len(branches)),
		Generators: make([]dataset.Generator, len(gens)),
		Nodes:      make([]dataset.Node, len(nodes)),
	}
	for i, r := range branches {
		t.Branches[i] = dataset.Branch{From: r[0], To: r[1], Flow: r[2]}
	}
	for i, r := range gens {
		t.Generators[i] = dataset.Generator{NodeID: r[0], Generation: r[1], Cost: r[2]}
	}
	for i, r := range nodes {
		t.Nodes[i] = dataset.Node{NodeID: r[0], NodeType: r[1], Demand: r[2]}
	}
	return t, nil
}

func readTable(src Source, hour int, name string) ([][]float64, error) {
	rows, err := src.ReadTable(hour, name)
	if err != nil {
		return nil, &dataset.FormatError{Hour: hour, Table: name, Detail: err.Error(), Err: err}
	}
	for i, r := range rows {
		if len(r) != Width {
			return nil, &dataset.FormatError{
				Hour:   hour,
				Table:  name,
				Detail: fmt.Sprintf("row %d has %d columns, want %d", i, len(r), Width),
			}
		}
	}
	return rows, nil
}
