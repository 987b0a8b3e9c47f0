// Package webservice is the HTTP presentation layer of the dashboard.
package webservice

import (
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/ohowland/gridviz/internal/pkg/dashboard"
	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/msg"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed static/index.html
var indexPage []byte

const contentTypeJSON = "application/json; charset=UTF-8"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// App serves one dashboard session.
type App struct {
	state   *dashboard.State
	origins []string
	metrics *metrics
	router  *mux.Router
}

type errorBody struct {
	Error string `json:"error"`
}

type healthBody struct {
	Status string `json:"status"`
	PID    string `json:"pid"`
	Hours  int    `json:"hours"`
}

// New builds the router for state. allowedOrigins feeds CORS and the
// websocket origin check; empty allows every origin.
func New(state *dashboard.State, allowedOrigins []string) *App {
	a := &App{
		state:   state,
		origins: allowedOrigins,
		metrics: newMetrics(),
	}
	a.router = a.makeRouter()
	return a
}

func (a *App) makeRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", a.BaseHandler).Methods("GET")
	r.HandleFunc("/api/graph", a.GraphHandler).Methods("GET")
	r.HandleFunc("/api/nodes", a.NodesHandler).Methods("GET")
	r.HandleFunc("/api/branches", a.BranchesHandler).Methods("GET")
	r.HandleFunc("/api/cluster", a.ClusterHandler).Methods("GET")
	r.HandleFunc("/api/bounds", a.BoundsHandler).Methods("GET")
	r.HandleFunc("/ws/cluster", a.ClusterSocketHandler)
	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{})).Methods("GET")
	return r
}

// Handler returns the router wrapped in request logging, panic recovery
// and CORS.
func (a *App) Handler() http.Handler {
	c := cors.Handler(cors.Options{
		AllowedOrigins: a.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return middleware.Logger(middleware.Recoverer(c(a.router)))
}

// BaseHandler serves the dashboard page.
func (a *App) BaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexPage)
}

// GraphHandler serves the hour 1 network graph.
func (a *App) GraphHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.state.Graph())
}

// NodesHandler serves the node bar rows.
func (a *App) NodesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.state.Nodes())
}

// BranchesHandler serves the branch bar rows.
func (a *App) BranchesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.state.Branches())
}

// BoundsHandler serves the valid ranges of the numeric inputs.
func (a *App) BoundsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.state.Bounds())
}

// ClusterHandler recomputes the cluster view for ?hour=&clusters=. Absent
// parameters take the initial view values.
func (a *App) ClusterHandler(w http.ResponseWriter, r *http.Request) {
	hour, err := intParam(r, "hour", dashboard.InitialHour)
	if err != nil {
		writeError(w, err)
		return
	}
	k, err := intParam(r, "clusters", dashboard.InitialClusters)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	res, err := a.state.Cluster(hour, k)
	a.metrics.observe(start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ClusterSocketHandler answers every msg.Request frame with a msg.Reply
// frame until the client disconnects.
func (a *App) ClusterSocketHandler(w http.ResponseWriter, r *http.Request) {
	up := upgrader
	up.CheckOrigin = a.checkOrigin
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Webservice] websocket upgrade:", err)
		return
	}
	defer conn.Close()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		start := time.Now()
		reply := msg.Handle(a.state, data)
		a.metrics.observeSocket(start)
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			log.Println("[Webservice] websocket write:", err)
			return
		}
	}
}

// HealthHandler reports liveness and the loaded session.
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{
		Status: "ok",
		PID:    a.state.PID().String(),
		Hours:  a.state.Dataset().Len(),
	})
}

func (a *App) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(a.origins) == 0 || origin == "" || origin == "http://"+r.Host {
		return true
	}
	for _, o := range a.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &dataset.ParamError{Name: name, Raw: raw, Reason: "not an integer"}
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, dataset.ErrInvalidParameter) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Println("[Webservice] malformed JSON:", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: err.Error()})
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	w.Write(body)
}
