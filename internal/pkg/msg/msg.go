// Package msg is the request/reply envelope shared by the streaming
// presentation layers (websocket, NATS).
package msg

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/ohowland/gridviz/internal/pkg/cluster"
)

// Request asks for the cluster view of one hour.
type Request struct {
	Hour     int `json:"Hour"`
	Clusters int `json:"Clusters"`
}

// Reply carries a cluster view, or the reason it could not be computed.
type Reply struct {
	PID       uuid.UUID     `json:"PID"`
	Hour      int           `json:"Hour"`
	Clusters  int           `json:"Clusters"`
	Rows      []cluster.Row `json:"Rows"`
	Centroids []float64     `json:"Centroids"`
	Error     string        `json:"Error,omitempty"`
}

// Clusterer answers cluster requests for one session.
type Clusterer interface {
	PID() uuid.UUID
	Cluster(hour, k int) (cluster.Result, error)
}

// Answer runs req against c. Failures are reported in Reply.Error.
func Answer(c Clusterer, req Request) Reply {
	reply := Reply{PID: c.PID(), Hour: req.Hour, Clusters: req.Clusters}
	res, err := c.Cluster(req.Hour, req.Clusters)
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.Rows = res.Rows
	reply.Centroids = res.Centroids
	return reply
}

// Handle decodes a JSON Request, answers it and encodes the Reply.
func Handle(c Clusterer, data []byte) []byte {
	req := Request{}
	var reply Reply
	if err := json.Unmarshal(data, &req); err != nil {
		reply = Reply{PID: c.PID(), Error: fmt.Sprintf("malformed request: %v", err)}
	} else {
		reply = Answer(c, req)
	}

	body, err := json.Marshal(reply)
	if err != nil {
		// Rows and Centroids are plain numbers; only NaN or Inf flows land here
		body, _ = json.Marshal(Reply{PID: c.PID(), Hour: req.Hour, Clusters: req.Clusters, Error: err.Error()})
	}
	return body
}
