package source

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ohowland/gridviz/internal/lib/source/hdf5source"
	"github.com/ohowland/gridviz/internal/pkg/config"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"gotest.tools/v3/assert"
)

func TestExtractHDF5(t *testing.T) {
	ds, err := dataset.New(map[int]dataset.Tables{
		1: {Nodes: []dataset.Node{{NodeID: 1, NodeType: 1, Demand: 3}}},
		2: {Nodes: []dataset.Node{{NodeID: 1, NodeType: 1, Demand: 4}}},
	})
	assert.NilError(t, err)

	path := filepath.Join(t.TempDir(), "results.hdf5")
	assert.NilError(t, hdf5source.WriteFile(path, ds))

	got, err := Extract(config.Source{Kind: config.KindHDF5, Path: path})
	assert.NilError(t, err)
	assert.Equal(t, got.Len(), 2)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(config.Source{Kind: config.KindHDF5, Path: filepath.Join(t.TempDir(), "absent.hdf5")})
	assert.Assert(t, errors.Is(err, dataset.ErrDataFormat))
}

func TestExtractUnknownKind(t *testing.T) {
	_, err := Extract(config.Source{Kind: "csv"})
	assert.ErrorContains(t, err, "unknown kind")
}
