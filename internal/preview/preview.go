// Package preview serves the modules of a generation run over HTTP.
//
// Routes:
//
//	GET /api/modules        module list and run state (JSON)
//	GET /api/modules/{path} code of a module (text)
//	GET /api/bundle         all modules as a msgpack bundle
//	GET /ws                 run state pushed after every refresh
//
// Watch regenerates the modules when the resource document changes.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"

	"github.com/syssam/dsg/compiler/gen"
)

// Source produces the modules of a run.
type Source func(ctx context.Context) ([]gen.Module, error)

// Server holds the latest run and serves it.
type Server struct {
	source   Source
	logger   gen.Logger
	name     string
	debounce time.Duration

	mu      sync.RWMutex
	modules []gen.Module
	byPath  map[string]string
	err     error
	version int
	subs    map[chan struct{}]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger of the server.
func WithLogger(l gen.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithName sets the application name written to bundles.
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithDebounce sets how long Watch waits for file events to settle.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounce = d }
}

// New returns a Server for the source. Call Refresh to run it.
func New(source Source, opts ...Option) *Server {
	s := &Server{
		source:   source,
		logger:   gen.NopLogger{},
		debounce: 100 * time.Millisecond,
		byPath:   make(map[string]string),
		subs:     make(map[chan struct{}]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State is the run state reported to clients.
type State struct {
	Version int          `json:"version"`
	Error   string       `json:"error,omitempty"`
	Modules []ModuleInfo `json:"modules"`
}

// ModuleInfo describes a module without its code.
type ModuleInfo struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// Refresh runs the source and publishes the result. A failed run keeps the
// previous modules and reports the error.
func (s *Server) Refresh(ctx context.Context) error {
	modules, err := s.source(ctx)
	s.mu.Lock()
	s.version++
	s.err = err
	if err == nil {
		s.modules = modules
		s.byPath = make(map[string]string, len(modules))
		for _, m := range modules {
			s.byPath[m.Path] = m.Code
		}
	}
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("Generation failed", "err", err)
		return err
	}
	s.logger.Info("Modules refreshed", "modules", len(modules))
	return nil
}

// State returns the current run state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Version: s.version, Modules: make([]ModuleInfo, 0, len(s.modules))}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	for _, m := range s.modules {
		st.Modules = append(st.Modules, ModuleInfo{Path: m.Path, Size: len(m.Code)})
	}
	return st
}

func (s *Server) subscribe() (chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/modules", s.listModules)
		r.Get("/modules/*", s.getModule)
		r.Get("/bundle", s.getBundle)
	})
	r.Get("/ws", s.serveWS)
	return r
}

func (s *Server) listModules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.State())
}

func (s *Server) getModule(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	s.mu.RLock()
	code, ok := s.byPath[p]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "module not found: " + p})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(code))
}

func (s *Server) getBundle(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	modules := s.modules
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/x-msgpack")
	if err := gen.EncodeBundle(w, s.name, modules); err != nil {
		s.logger.Error("Encode bundle failed", "err", err)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		s.logger.Error("Websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	ch, unsubscribe := s.subscribe()
	defer unsubscribe()
	// Clients only listen; reading is left to CloseRead.
	ctx := conn.CloseRead(r.Context())
	for {
		if err := wsjson.Write(ctx, conn, s.State()); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ch:
		}
	}
}

// Watch refreshes the server whenever one of the paths changes, until ctx
// is done. Bursts of events within the debounce window cause one refresh.
func (s *Server) Watch(ctx context.Context, paths ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return err
		}
	}
	var (
		timer   = time.NewTimer(s.debounce)
		pending bool
	)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			timer.Reset(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("Watch failed", "err", err)
		case <-timer.C:
			if pending {
				pending = false
				_ = s.Refresh(ctx)
			}
		}
	}
}

// ListenAndServe serves the routes on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("Preview server listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
