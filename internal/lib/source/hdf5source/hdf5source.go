// Package hdf5source reads and writes simulation results in the HDF5 layout
// results/hour_<n>/{branches,gens,nodes}.
package hdf5source

import (
	"fmt"
	"log"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/loader"
	"gonum.org/v1/hdf5"
)

// ResultsGroup is the top level group holding one subgroup per hour.
const ResultsGroup = "results"

// Source is an open HDF5 results file.
type Source struct {
	file    *hdf5.File
	results *hdf5.Group
}

// Open opens path read-only.
func Open(path string) (*Source, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	if !f.LinkExists(ResultsGroup) {
		f.Close()
		return nil, fmt.Errorf("%s: %w", ResultsGroup, loader.ErrMissingGroup)
	}
	results, err := f.OpenGroup(ResultsGroup)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Source{file: f, results: results}, nil
}

// Extract opens path, loads every hour and closes the file.
func Extract(path string) (dataset.Dataset, error) {
	src, err := Open(path)
	if err != nil {
		return dataset.Dataset{}, &dataset.FormatError{Detail: err.Error(), Err: err}
	}
	defer src.Close()

	log.Println("[HDF5] reading", path)
	return loader.Extract(src)
}

// Close releases the file handles.
func (s *Source) Close() error {
	if err := s.results.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// HourCount returns the number of links in the results group.
func (s *Source) HourCount() (int, error) {
	n, err := s.results.NumObjects()
	return int(n), err
}

// ReadTable reads a rows x 3 numeric dataset and converts it to float64.
func (s *Source) ReadTable(hour int, name string) ([][]float64, error) {
	groupName := loader.GroupName(hour)
	if !s.results.LinkExists(groupName) {
		return nil, fmt.Errorf("%s: %w", groupName, loader.ErrMissingGroup)
	}
	group, err := s.results.OpenGroup(groupName)
	if err != nil {
		return nil, err
	}
	defer group.Close()

	if !group.LinkExists(name) {
		return nil, fmt.Errorf("%s: %w", name, loader.ErrMissingTable)
	}
	dset, err := group.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer dset.Close()

	return readMatrix(dset)
}

func readMatrix(dset *hdf5.Dataset) ([][]float64, error) {
	space := dset.Space()
	if space == nil {
		return nil, fmt.Errorf("no dataspace")
	}
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("rank %d, want 2", len(dims))
	}
	rows, cols := int(dims[0]), int(dims[1])
	if rows == 0 {
		return [][]float64{}, nil
	}

	dtype, err := dset.Datatype()
	if err != nil {
		return nil, err
	}
	defer dtype.Close()

	flat, err := readFlat(dset, dtype, rows*cols)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return out, nil
}

// readFlat reads n elements in the file's own element type; the dataset is
// read without a memory type conversion so the buffer must match it.
func readFlat(dset *hdf5.Dataset, dtype *hdf5.Datatype, n int) ([]float64, error) {
	out := make([]float64, n)
	switch class, size := dtype.Class(), dtype.Size(); {
	case class == hdf5.T_FLOAT && size == 8:
		if err := dset.Read(&out); err != nil {
			return nil, err
		}
	case class == hdf5.T_FLOAT && size == 4:
		buf := make([]float32, n)
		if err := dset.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case class == hdf5.T_INTEGER && size == 8:
		buf := make([]int64, n)
		if err := dset.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case class == hdf5.T_INTEGER && size == 4:
		buf := make([]int32, n)
		if err := dset.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported element type class %v size %d", class, size)
	}
	return out, nil
}
