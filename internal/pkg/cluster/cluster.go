// Package cluster partitions the branch flows of one hour with k-means.
package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/mpraski/clusters"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"gonum.org/v1/gonum/stat"
)

// Iterations bounds the Lloyd iterations of one run.
const Iterations = 300

// Row is a branch of the clustered hour with its label.
type Row struct {
	NodeFrom float64 `json:"node_from"`
	NodeTo   float64 `json:"node_to"`
	Flow     float64 `json:"flow"`
	BranchID int     `json:"branch_id"`
	Cluster  int     `json:"cluster"`
}

// Result is the labelled branch table of one hour. Centroids[i] is the mean
// flow of the rows labelled i, ascending.
type Result struct {
	Hour      int       `json:"hour"`
	K         int       `json:"k"`
	Rows      []Row     `json:"rows"`
	Centroids []float64 `json:"centroids"`
}

// Cluster groups the flows of the branches of hour into k clusters. Rows keep
// branch table order. Labels are numbered by ascending centroid so that
// equal partitions always carry equal labels.
func Cluster(ds dataset.Dataset, hour, k int) (Result, error) {
	tables, err := ds.Hour(hour)
	if err != nil {
		return Result{}, &dataset.ParamError{Name: "hour", Value: hour, Reason: fmt.Sprintf("must be within 1..%d", ds.Len())}
	}
	n := len(tables.Branches)
	switch {
	case k <= 0:
		return Result{}, &dataset.ParamError{Name: "clusters", Value: k, Reason: "must be positive"}
	case k > n:
		return Result{}, &dataset.ParamError{Name: "clusters", Value: k, Reason: fmt.Sprintf("hour %d has %d branches", hour, n)}
	}

	guesses, err := assign(tables.Branches, k)
	if err != nil {
		return Result{}, err
	}
	refine(tables.Branches, guesses)
	labels, centroids := relabel(tables.Branches, guesses)

	rows := make([]Row, n)
	for i, b := range tables.Branches {
		rows[i] = Row{
			NodeFrom: b.From,
			NodeTo:   b.To,
			Flow:     b.Flow,
			BranchID: dataset.BranchID(i),
			Cluster:  labels[i],
		}
	}
	return Result{Hour: hour, K: k, Rows: rows, Centroids: centroids}, nil
}

// assign returns a raw group number per branch.
func assign(branches []dataset.Branch, k int) ([]int, error) {
	if k == 1 {
		return make([]int, len(branches)), nil
	}

	// the clusterer keeps references to the rows it is given
	data := make([][]float64, len(branches))
	for i, b := range branches {
		data[i] = []float64{b.Flow}
	}

	c, err := clusters.KMeans(Iterations, k, clusters.EuclideanDistance)
	if err != nil {
		return nil, err
	}
	if err := c.Learn(data); err != nil {
		return nil, err
	}
	return c.Guesses(), nil
}

// refine runs Lloyd steps on the flows themselves until no branch changes
// group. The clusterer moves its seeds in place inside the rows it was
// given, so its last assignment is not always a fixed point. A branch only
// leaves its group for a strictly nearer mean.
func refine(branches []dataset.Branch, guesses []int) {
	for i := 0; i < Iterations; i++ {
		means := groupMeans(branches, guesses)
		moved := false
		for j, b := range branches {
			cur := math.Abs(b.Flow - means[guesses[j]])
			best, dist := guesses[j], cur
			for g, m := range means {
				d := math.Abs(b.Flow - m)
				if d < dist || (d == dist && d < cur && g < best) {
					best, dist = g, d
				}
			}
			if best != guesses[j] {
				guesses[j] = best
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

func groupMeans(branches []dataset.Branch, guesses []int) map[int]float64 {
	members := make(map[int][]float64)
	for i, g := range guesses {
		members[g] = append(members[g], branches[i].Flow)
	}
	means := make(map[int]float64, len(members))
	for g, flows := range members {
		means[g] = stat.Mean(flows, nil)
	}
	return means
}

// relabel numbers the non-empty groups 0.. by ascending mean flow and
// returns the new label per branch along with the group means.
func relabel(branches []dataset.Branch, guesses []int) ([]int, []float64) {
	means := groupMeans(branches, guesses)
	groups := make([]int, 0, len(means))
	for g := range means {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if means[groups[i]] != means[groups[j]] {
			return means[groups[i]] < means[groups[j]]
		}
		return groups[i] < groups[j]
	})

	index := make(map[int]int, len(groups))
	centroids := make([]float64, len(groups))
	for label, g := range groups {
		index[g] = label
		centroids[label] = means[g]
	}

	labels := make([]int, len(guesses))
	for i, g := range guesses {
		labels[i] = index[g]
	}
	return labels, centroids
}
