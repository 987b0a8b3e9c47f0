// Package natshandler serves cluster requests over NATS request/reply and
// provides the matching client.
package natshandler

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/ohowland/gridviz/internal/pkg/cluster"
	"github.com/ohowland/gridviz/internal/pkg/msg"

	nats "github.com/nats-io/nats.go"
)

// DefaultTimeout bounds one client request.
const DefaultTimeout = 5 * time.Second

// Handler answers msg.Request payloads published on one subject.
type Handler struct {
	pid       uuid.UUID
	url       string
	subject   string
	clusterer msg.Clusterer
	stop      chan bool
	ready     chan error
}

// New returns a Handler for subject on the server at url.
func New(url, subject string, c msg.Clusterer) (Handler, error) {
	pid, err := uuid.NewUUID()
	if err != nil {
		return Handler{}, err
	}
	return Handler{
		pid:       pid,
		url:       url,
		subject:   subject,
		clusterer: c,
		stop:      make(chan bool),
		ready:     make(chan error, 1),
	}, nil
}

// PID is a getter for the handler identity.
func (h Handler) PID() uuid.UUID {
	return h.pid
}

// Ready reports the outcome of connecting and subscribing. It yields one
// value per Process call.
func (h Handler) Ready() <-chan error {
	return h.ready
}

// Stop ends Process.
func (h *Handler) Stop() {
	h.stop <- true
}

// Process connects, subscribes and serves until Stop.
func (h Handler) Process() {
	log.Println("[NATS client] Process Started")
	nc, err := nats.Connect(h.url, nats.Name("gridviz"))
	if err != nil {
		log.Println("[NATS client] unable to connect:", err)
		h.ready <- err
		return
	}
	defer nc.Close()

	sub, err := nc.Subscribe(h.subject, func(m *nats.Msg) {
		if err := m.Respond(h.handle(m.Data)); err != nil {
			log.Printf("[NATS client] unable to respond on %s: %v", h.subject, err)
		}
	})
	if err != nil {
		log.Println("[NATS client] unable to subscribe:", err)
		h.ready <- err
		return
	}
	log.Printf("[NATS client] serving %s on %s\n", h.subject, nc.ConnectedUrl())
	h.ready <- nil

	<-h.stop
	sub.Unsubscribe()
	log.Println("[NATS client] Process Shutdown")
}

func (h Handler) handle(data []byte) []byte {
	return msg.Handle(h.clusterer, data)
}

// Client requests cluster views from a remote Handler. It satisfies
// msg.Clusterer.
type Client struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
	pid     uuid.UUID
}

// Dial connects a Client to url.
func Dial(url, subject string) (*Client, error) {
	nc, err := nats.Connect(url, nats.Name("gridviz-client"))
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, subject: subject, timeout: DefaultTimeout}, nil
}

// PID returns the session identity of the last reply received.
func (c *Client) PID() uuid.UUID {
	return c.pid
}

// Cluster sends one request and waits for the reply.
func (c *Client) Cluster(hour, k int) (cluster.Result, error) {
	data, err := json.Marshal(msg.Request{Hour: hour, Clusters: k})
	if err != nil {
		return cluster.Result{}, err
	}
	resp, err := c.nc.Request(c.subject, data, c.timeout)
	if err != nil {
		return cluster.Result{}, err
	}
	return c.decode(resp.Data)
}

func (c *Client) decode(data []byte) (cluster.Result, error) {
	reply := msg.Reply{}
	if err := json.Unmarshal(data, &reply); err != nil {
		return cluster.Result{}, err
	}
	c.pid = reply.PID
	if reply.Error != "" {
		return cluster.Result{}, errors.New(reply.Error)
	}
	return cluster.Result{
		Hour:      reply.Hour,
		K:         reply.Clusters,
		Rows:      reply.Rows,
		Centroids: reply.Centroids,
	}, nil
}

// Close drains and closes the connection.
func (c *Client) Close() error {
	return c.nc.Drain()
}
