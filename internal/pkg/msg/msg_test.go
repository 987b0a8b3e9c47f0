package msg

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ohowland/gridviz/internal/pkg/cluster"
	"gotest.tools/v3/assert"
)

type fakeClusterer struct {
	pid uuid.UUID
	res cluster.Result
	err error
}

func (f fakeClusterer) PID() uuid.UUID {
	return f.pid
}

func (f fakeClusterer) Cluster(hour, k int) (cluster.Result, error) {
	if f.err != nil {
		return cluster.Result{}, f.err
	}
	r := f.res
	r.Hour, r.K = hour, k
	return r, nil
}

func newFake(t *testing.T) fakeClusterer {
	pid, err := uuid.NewUUID()
	assert.NilError(t, err)
	return fakeClusterer{
		pid: pid,
		res: cluster.Result{
			Rows:      []cluster.Row{{NodeFrom: 1, NodeTo: 2, Flow: -3, BranchID: 0, Cluster: 0}},
			Centroids: []float64{-3},
		},
	}
}

func TestAnswer(t *testing.T) {
	c := newFake(t)

	reply := Answer(c, Request{Hour: 2, Clusters: 1})
	assert.Equal(t, reply.PID, c.pid)
	assert.Equal(t, reply.Hour, 2)
	assert.Equal(t, reply.Clusters, 1)
	assert.Equal(t, reply.Error, "")
	assert.DeepEqual(t, reply.Rows, c.res.Rows)
}

func TestAnswerError(t *testing.T) {
	c := newFake(t)
	c.err = errors.New("invalid parameter: clusters=0: must be positive")

	reply := Answer(c, Request{Hour: 1, Clusters: 0})
	assert.Equal(t, reply.Error, c.err.Error())
	assert.Assert(t, reply.Rows == nil)
}

func TestHandle(t *testing.T) {
	c := newFake(t)

	out := Handle(c, []byte(`{"Hour": 3, "Clusters": 1}`))
	reply := Reply{}
	assert.NilError(t, json.Unmarshal(out, &reply))
	assert.Equal(t, reply.PID, c.pid)
	assert.Equal(t, reply.Hour, 3)
	assert.Equal(t, len(reply.Rows), 1)
	assert.Equal(t, reply.Rows[0].Flow, -3.0)
}

func TestHandleMalformed(t *testing.T) {
	c := newFake(t)

	out := Handle(c, []byte(`{"Hour": "three"`))
	reply := Reply{}
	assert.NilError(t, json.Unmarshal(out, &reply))
	assert.ErrorContains(t, errors.New(reply.Error), "malformed request")
}
