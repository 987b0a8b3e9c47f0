// Package mongosource reads hourly result tables from a MongoDB collection
// holding one document per hour:
//
//	{hour: 1, branches: [[from, to, flow], ...], gens: [...], nodes: [...]}
package mongosource

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/loader"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// Config locates the collection.
type Config struct {
	URI        string `json:"URI"`
	Port       string `json:"Port"`
	Database   string `json:"Database"`
	Collection string `json:"Collection"`
}

func (c Config) address() string {
	if c.Port == "" {
		return c.URI
	}
	return c.URI + ":" + c.Port
}

// Source reads from one collection.
type Source struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Open connects to the server described by cfg.
func Open(cfg Config) (*Source, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.address()))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	log.Println("[Mongo] connected to", cfg.Database+"."+cfg.Collection)
	return &Source{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Extract connects, loads every hour and disconnects.
func Extract(cfg Config) (dataset.Dataset, error) {
	src, err := Open(cfg)
	if err != nil {
		return dataset.Dataset{}, &dataset.FormatError{Detail: err.Error(), Err: err}
	}
	defer src.Close()
	return loader.Extract(src)
}

// Close disconnects the client.
func (s *Source) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// HourCount returns the number of hour documents.
func (s *Source) HourCount() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	n, err := s.collection.CountDocuments(ctx, bson.D{})
	return int(n), err
}

// ReadTable fetches only the requested table field of the hour document.
func (s *Source) ReadTable(hour int, name string) ([][]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 0, name: 1})
	doc := bson.M{}
	err := s.collection.FindOne(ctx, bson.M{"hour": hour}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", loader.GroupName(hour), loader.ErrMissingGroup)
	}
	if err != nil {
		return nil, err
	}
	return tableFromDocument(doc, name)
}

func tableFromDocument(doc bson.M, name string) ([][]float64, error) {
	raw, ok := doc[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, loader.ErrMissingTable)
	}
	rows, ok := raw.(primitive.A)
	if !ok {
		return nil, fmt.Errorf("%s: not an array", name)
	}

	out := make([][]float64, len(rows))
	for i, r := range rows {
		cells, ok := r.(primitive.A)
		if !ok {
			return nil, fmt.Errorf("%s: row %d is not an array", name, i)
		}
		out[i] = make([]float64, len(cells))
		for j, c := range cells {
			v, err := toFloat(c)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d col %d: %v", name, i, j, err)
			}
			out[i][j] = v
		}
	}
	return out, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case primitive.Decimal128:
		return strconv.ParseFloat(n.String(), 64)
	}
	return 0, fmt.Errorf("non-numeric value %T", v)
}
