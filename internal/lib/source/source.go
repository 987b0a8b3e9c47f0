// Package source opens the backend named by the configuration and extracts
// the hourly dataset from it.
package source

import (
	"fmt"
	"log"

	"github.com/ohowland/gridviz/internal/lib/source/hdf5source"
	"github.com/ohowland/gridviz/internal/lib/source/mongosource"
	"github.com/ohowland/gridviz/internal/lib/source/sqlsource"
	"github.com/ohowland/gridviz/internal/pkg/config"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
)

// Extract loads the dataset from the backend selected by cfg.Kind.
func Extract(cfg config.Source) (dataset.Dataset, error) {
	log.Printf("[Source] loading from %s backend\n", cfg.Kind)
	switch cfg.Kind {
	case config.KindHDF5:
		return hdf5source.Extract(cfg.Path)
	case config.KindSQL:
		return sqlsource.Extract(sqlsource.Config{
			Driver:   cfg.Driver,
			DSN:      cfg.DSN,
			Table:    cfg.Table,
			Manifest: cfg.Manifest,
		})
	case config.KindMongo:
		return mongosource.Extract(mongosource.Config{
			URI:        cfg.URI,
			Port:       cfg.Port,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	}
	return dataset.Dataset{}, fmt.Errorf("source: unknown kind %q", cfg.Kind)
}
