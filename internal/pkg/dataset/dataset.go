package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// Column names of the three per-hour tables.
const (
	ColNodeFrom   = "node_from"
	ColNodeTo     = "node_to"
	ColFlow       = "flow"
	ColNodeID     = "node_id"
	ColGeneration = "generation"
	ColCost       = "cost"
	ColNodeType   = "node_type"
	ColDemand     = "demand"
)

// Columns maps each table name to its ordered column schema.
var Columns = map[string][]string{
	"branches": {ColNodeFrom, ColNodeTo, ColFlow},
	"gens":     {ColNodeID, ColGeneration, ColCost},
	"nodes":    {ColNodeID, ColNodeType, ColDemand},
}

// Branch is a directed flow between two nodes.
type Branch struct {
	From float64 `json:"node_from"`
	To   float64 `json:"node_to"`
	Flow float64 `json:"flow"`
}

// Generator is a generation unit attached to a node.
type Generator struct {
	NodeID     float64 `json:"node_id"`
	Generation float64 `json:"generation"`
	Cost       float64 `json:"cost"`
}

// Node is a bus of the simulated network.
type Node struct {
	NodeID   float64 `json:"node_id"`
	NodeType float64 `json:"node_type"`
	Demand   float64 `json:"demand"`
}

// Tables holds the three tables of one hour slot.
type Tables struct {
	Branches   []Branch
	Generators []Generator
	Nodes      []Node
}

func (t Tables) clone() Tables {
	return Tables{
		Branches:   append([]Branch(nil), t.Branches...),
		Generators: append([]Generator(nil), t.Generators...),
		Nodes:      append([]Node(nil), t.Nodes...),
	}
}

// Dataset is an immutable hour-indexed collection of Tables. Hours are the
// contiguous integers 1..Len().
type Dataset struct {
	pid   uuid.UUID
	hours map[int]Tables
}

// New validates the hour keys and returns a Dataset holding a copy of hours.
func New(hours map[int]Tables) (Dataset, error) {
	if len(hours) == 0 {
		return Dataset{}, &FormatError{Detail: "no hours"}
	}
	for h := 1; h <= len(hours); h++ {
		if _, ok := hours[h]; !ok {
			return Dataset{}, &FormatError{Hour: h, Detail: "hours are not contiguous from 1"}
		}
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return Dataset{}, err
	}

	copied := make(map[int]Tables, len(hours))
	for h, t := range hours {
		copied[h] = t.clone()
	}
	return Dataset{pid: pid, hours: copied}, nil
}

// PID is a getter for the dataset identity.
func (d Dataset) PID() uuid.UUID {
	return d.pid
}

// Len returns the number of hour slots.
func (d Dataset) Len() int {
	return len(d.hours)
}

// Hours returns the hour labels in ascending order.
func (d Dataset) Hours() []int {
	hours := make([]int, 0, len(d.hours))
	for h := range d.hours {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// Hour returns a copy of the tables of the given hour.
func (d Dataset) Hour(hour int) (Tables, error) {
	t, ok := d.hours[hour]
	if !ok {
		return Tables{}, fmt.Errorf("hour %d of %d: %w", hour, len(d.hours), ErrMissingHour)
	}
	return t.clone(), nil
}

// BranchID is the positional identity of a branch: its 0-based row index
// within one hour's branch table. Ids are scoped to a single hour.
func BranchID(row int) int {
	return row
}

// FormatID renders a numeric node id without a trailing fraction.
func FormatID(id float64) string {
	return strconv.FormatFloat(id, 'f', -1, 64)
}
