// Package bardata reshapes the hourly tables into the long per-hour rows
// that the animated bar charts consume.
package bardata

import (
	"fmt"
	"sort"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
)

// HoursPerDay is the number of hour slots the bar charts animate over.
const HoursPerDay = 24

// NodeBar is one node at one hour, joined with its hour 1 generator.
type NodeBar struct {
	NodeID     float64 `json:"node_id"`
	Demand     float64 `json:"demand"`
	Hour       int     `json:"hour"`
	Generation float64 `json:"generation"`
	Cost       float64 `json:"cost"`
}

// BranchBar is one branch at one hour.
type BranchBar struct {
	NodeFrom float64 `json:"node_from"`
	NodeTo   float64 `json:"node_to"`
	Hour     int     `json:"hour"`
	Flow     float64 `json:"flow"`
	BranchID int     `json:"branch_id"`
}

// Nodes concatenates the node tables of hours 1..HoursPerDay and left joins
// them against the generators of hour 1 on node id. A node with several
// generators yields one row per generator; a node with none gets zero
// generation and cost. Rows are sorted by (node id, hour).
func Nodes(ds dataset.Dataset) ([]NodeBar, error) {
	hours, err := day(ds)
	if err != nil {
		return nil, err
	}

	gens := make(map[float64][]dataset.Generator)
	for _, g := range hours[0].Generators {
		gens[g.NodeID] = append(gens[g.NodeID], g)
	}

	bars := make([]NodeBar, 0)
	for i, t := range hours {
		for _, n := range t.Nodes {
			row := NodeBar{NodeID: n.NodeID, Demand: n.Demand, Hour: i + 1}
			matched := gens[n.NodeID]
			if len(matched) == 0 {
				bars = append(bars, row)
				continue
			}
			for _, g := range matched {
				row.Generation = g.Generation
				row.Cost = g.Cost
				bars = append(bars, row)
			}
		}
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].NodeID != bars[j].NodeID {
			return bars[i].NodeID < bars[j].NodeID
		}
		return bars[i].Hour < bars[j].Hour
	})
	return bars, nil
}

// Branches concatenates the branch tables of hours 1..HoursPerDay, tagging
// each row with its hour and its branch id within that hour. Rows are
// sorted by (node_from, hour).
func Branches(ds dataset.Dataset) ([]BranchBar, error) {
	hours, err := day(ds)
	if err != nil {
		return nil, err
	}

	bars := make([]BranchBar, 0)
	for i, t := range hours {
		for row, b := range t.Branches {
			bars = append(bars, BranchBar{
				NodeFrom: b.From,
				NodeTo:   b.To,
				Hour:     i + 1,
				Flow:     b.Flow,
				BranchID: dataset.BranchID(row),
			})
		}
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].NodeFrom != bars[j].NodeFrom {
			return bars[i].NodeFrom < bars[j].NodeFrom
		}
		return bars[i].Hour < bars[j].Hour
	})
	return bars, nil
}

// day returns the tables of hours 1..HoursPerDay; index 0 is hour 1.
func day(ds dataset.Dataset) ([]dataset.Tables, error) {
	hours := make([]dataset.Tables, HoursPerDay)
	for h := 1; h <= HoursPerDay; h++ {
		t, err := ds.Hour(h)
		if err != nil {
			return nil, fmt.Errorf("bardata: need %d hours: %w", HoursPerDay, err)
		}
		hours[h-1] = t
	}
	return hours, nil
}
