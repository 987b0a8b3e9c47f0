// Command gridgen writes a synthetic day of simulation results in the
// results/hour_<n> HDF5 layout gridviz reads.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"

	"github.com/ohowland/gridviz/internal/lib/source/hdf5source"
	"github.com/ohowland/gridviz/internal/pkg/bardata"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
)

func main() {
	out := flag.String("out", "task_data.hdf5", "output file")
	nodes := flag.Int("nodes", 10, "number of nodes")
	branches := flag.Int("branches", 14, "number of branches")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *nodes < 1 || *branches < 1 {
		log.Fatalln("[Gridgen] need at least one node and one branch")
	}

	ds, err := generate(rand.New(rand.NewSource(*seed)), *nodes, *branches)
	if err != nil {
		log.Fatalf("[Gridgen] %v", err)
	}
	if err := hdf5source.WriteFile(*out, ds); err != nil {
		log.Fatalf("[Gridgen] %v", err)
	}
	log.Printf("[Gridgen] wrote %d hours, %d nodes, %d branches to %s\n", ds.Len(), *nodes, *branches, *out)
}

// generate builds a fixed topology with a daily demand curve. Every third
// node carries a generator.
func generate(rng *rand.Rand, nodes, branches int) (dataset.Dataset, error) {
	base := make([]float64, nodes)
	for i := range base {
		base[i] = 8 + 12*rng.Float64()
	}

	type link struct{ from, to float64 }
	links := make([]link, branches)
	for i := range links {
		from := i%nodes + 1
		to := rng.Intn(nodes) + 1
		links[i] = link{float64(from), float64(to)}
	}

	hours := make(map[int]dataset.Tables, bardata.HoursPerDay)
	for h := 1; h <= bardata.HoursPerDay; h++ {
		load := 1 + 0.4*math.Sin(2*math.Pi*float64(h-7)/24)

		t := dataset.Tables{
			Branches:   make([]dataset.Branch, branches),
			Generators: make([]dataset.Generator, 0),
			Nodes:      make([]dataset.Node, nodes),
		}
		for i := 0; i < nodes; i++ {
			kind := 2.0
			if i == 0 {
				kind = 3
			}
			t.Nodes[i] = dataset.Node{NodeID: float64(i + 1), NodeType: kind, Demand: round(base[i] * load)}
			if i%3 == 0 {
				t.Generators = append(t.Generators, dataset.Generator{
					NodeID:     float64(i + 1),
					Generation: round(base[i] * load * 1.5),
					Cost:       round(4 + 4*rng.Float64()),
				})
			}
		}
		for i, l := range links {
			flow := round((rng.Float64()*2 - 1) * 18 * load)
			t.Branches[i] = dataset.Branch{From: l.from, To: l.to, Flow: flow}
		}
		hours[h] = t
	}
	return dataset.New(hours)
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
