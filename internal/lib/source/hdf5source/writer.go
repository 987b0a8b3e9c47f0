package hdf5source

import (
	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/loader"
	"gonum.org/v1/hdf5"
)

// WriteFile stores ds at path in the layout Open expects, truncating any
// existing file. Tables are written as rows x 3 native doubles.
func WriteFile(path string, ds dataset.Dataset) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer f.Close()

	results, err := f.CreateGroup(ResultsGroup)
	if err != nil {
		return err
	}
	defer results.Close()

	for _, hour := range ds.Hours() {
		tables, err := ds.Hour(hour)
		if err != nil {
			return err
		}
		if err := writeHour(results, hour, tables); err != nil {
			return err
		}
	}
	return nil
}

func writeHour(results *hdf5.Group, hour int, t dataset.Tables) error {
	group, err := results.CreateGroup(loader.GroupName(hour))
	if err != nil {
		return err
	}
	defer group.Close()

	branches := make([]float64, 0, len(t.Branches)*loader.Width)
	for _, b := range t.Branches {
		branches = append(branches, b.From, b.To, b.Flow)
	}
	gens := make([]float64, 0, len(t.Generators)*loader.Width)
	for _, g := range t.Generators {
		gens = append(gens, g.NodeID, g.Generation, g.Cost)
	}
	nodes := make([]float64, 0, len(t.Nodes)*loader.Width)
	for _, n := range t.Nodes {
		nodes = append(nodes, n.NodeID, n.NodeType, n.Demand)
	}

	if err := writeMatrix(group, loader.TableBranches, branches); err != nil {
		return err
	}
	if err := writeMatrix(group, loader.TableGens, gens); err != nil {
		return err
	}
	return writeMatrix(group, loader.TableNodes, nodes)
}

func writeMatrix(group *hdf5.Group, name string, flat []float64) error {
	dims := []uint{uint(len(flat) / loader.Width), loader.Width}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dset, err := group.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return err
	}
	defer dset.Close()

	if len(flat) == 0 {
		return nil
	}
	return dset.Write(&flat)
}
