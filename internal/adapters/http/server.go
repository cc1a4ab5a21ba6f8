package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/coroutines/pkg/domain"
	"github.com/aretw0/coroutines/pkg/observability"
	"github.com/aretw0/coroutines/pkg/script"
)

// maxScriptBytes bounds the body of POST /scripts.
const maxScriptBytes = 1 << 20

// Timeline is the part of coroutines.Timeline the API needs.
type Timeline interface {
	Name() string
	Active() bool
	Len() int
	Handles() []domain.Handle
	Start(step domain.Step) domain.Handle
	Clock() domain.Clock
	Logger() *slog.Logger
}

// Dispatcher runs fn on the goroutine that ticks the timeline.
// runner.Loop satisfies it.
type Dispatcher interface {
	Do(ctx context.Context, fn func()) error
}

// Server serves the status API of one timeline.
type Server struct {
	Timeline   Timeline
	Dispatcher Dispatcher
	Gatherer   prometheus.Gatherer
	Events     *observability.Stream

	mu       sync.Mutex
	programs []*script.Program
}

// Option configures a Server.
type Option func(*Server)

// WithDispatcher queues script starts onto the ticking goroutine.
// Without it steps are started from the request goroutine.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Server) {
		s.Dispatcher = d
	}
}

// WithGatherer sets the registry exposed on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithEvents enables GET /events.
func WithEvents(stream *observability.Stream) Option {
	return func(s *Server) {
		s.Events = stream
	}
}

// NewServer creates a server for tl.
func NewServer(tl Timeline, opts ...Option) *Server {
	s := &Server{Timeline: tl, Gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the timeline.
func NewHandler(tl Timeline, opts ...Option) http.Handler {
	return NewServer(tl, opts...).Routes()
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/timeline", s.GetTimeline)
	r.Post("/scripts", s.PostScript)
	r.Get("/vars", s.GetVars)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return r
}

// TimelineStatus is the body of GET /timeline.
type TimelineStatus struct {
	Name    string          `json:"name"`
	Active  bool            `json:"active"`
	Live    int             `json:"live"`
	Handles []domain.Handle `json:"handles"`
}

// ScriptStarted is the body of a successful POST /scripts.
type ScriptStarted struct {
	Name    string          `json:"name"`
	Handles []domain.Handle `json:"handles"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok")
}

// GetTimeline handles GET /timeline.
func (s *Server) GetTimeline(w http.ResponseWriter, r *http.Request) {
	handles := s.Timeline.Handles()
	if handles == nil {
		handles = []domain.Handle{}
	}
	writeJSON(w, http.StatusOK, TimelineStatus{
		Name:    s.Timeline.Name(),
		Active:  s.Timeline.Active(),
		Live:    len(handles),
		Handles: handles,
	})
}

// PostScript handles POST /scripts: the YAML body is compiled and its root
// steps are started on the timeline.
func (s *Server) PostScript(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScriptBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("Read error: %v", err), http.StatusRequestEntityTooLarge)
		return
	}

	sc, err := script.Parse(body)
	if err != nil {
		writeProblems(w, err)
		return
	}
	prog, err := sc.Compile(s.Timeline.Clock(), s.Timeline.Logger())
	if err != nil {
		writeProblems(w, err)
		return
	}

	var handles []domain.Handle
	start := func() { handles = prog.Start(s.Timeline) }
	if s.Dispatcher != nil {
		if err := s.Dispatcher.Do(r.Context(), start); err != nil {
			http.Error(w, fmt.Sprintf("Start error: %v", err), http.StatusServiceUnavailable)
			return
		}
	} else {
		start()
	}

	s.mu.Lock()
	s.programs = append(s.programs, prog)
	s.mu.Unlock()

	s.Timeline.Logger().Info("script started", "script", prog.Name, "steps", len(handles))
	writeJSON(w, http.StatusCreated, ScriptStarted{Name: prog.Name, Handles: handles})
}

// GetVars handles GET /vars: the variables of every script started through
// the API, keyed by script name. Unnamed scripts are keyed by position.
func (s *Server) GetVars(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	programs := append([]*script.Program(nil), s.programs...)
	s.mu.Unlock()

	out := make(map[string]map[string]float64, len(programs))
	for i, p := range programs {
		key := p.Name
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}
		if _, taken := out[key]; taken {
			key = fmt.Sprintf("%s#%d", key, i)
		}
		out[key] = p.Vars.Snapshot()
	}
	writeJSON(w, http.StatusOK, out)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.Events == nil {
		http.Error(w, "Event stream not enabled", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, cancel := s.Events.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// -- Helpers --

type problemResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

func writeProblems(w http.ResponseWriter, err error) {
	resp := problemResponse{Error: "invalid script"}
	for _, p := range script.Problems(err) {
		resp.Problems = append(resp.Problems, p.Error())
	}
	if len(resp.Problems) == 0 {
		resp.Problems = []string{err.Error()}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Debug("encode response", "err", err)
	}
}
