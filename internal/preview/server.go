package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docket/internal/build"
	"git.home.luguber.info/inful/docket/internal/config"
	"git.home.luguber.info/inful/docket/internal/errors"
	"git.home.luguber.info/inful/docket/internal/logfields"
	"git.home.luguber.info/inful/docket/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// buildStatus tracks the outcome of the latest build.
type buildStatus struct {
	mu           sync.RWMutex
	last         *build.Result
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) record(res *build.Result, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.last = res
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (res *build.Result, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.last, bs.lastError, bs.hasGoodBuild
}

// StatusResponse is served by the status endpoint.
type StatusResponse struct {
	Status   string `json:"status"`
	BuildID  string `json:"build_id,omitempty"`
	Pages    int    `json:"pages"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Server serves the output directory of cfg and rebuilds it on request.
type Server struct {
	cfg      *config.Config
	builder  build.Service
	registry *prometheus.Registry
	status   buildStatus
	errs     *errors.HTTPErrorAdapter
	router   chi.Router
}

// NewServer creates a preview server. reg may be nil, in which case no
// metrics endpoint is mounted.
func NewServer(cfg *config.Config, builder build.Service, reg *prometheus.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		builder:  builder,
		registry: reg,
		errs:     errors.NewHTTPErrorAdapter(nil),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/-/status", s.handleStatus)
	r.Post("/-/rebuild", s.handleRebuild)
	if s.registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	r.Handle("/*", s.siteHandler())
	return r
}

// Rebuild runs one build and records its outcome.
func (s *Server) Rebuild(ctx context.Context) (*build.Result, error) {
	res, err := s.builder.Run(ctx, build.Request{Config: s.cfg})
	s.status.record(res, err)
	if err != nil {
		slog.Warn("Rebuild failed", logfields.Error(err))
	}
	return res, err
}

// Run performs the initial build, then serves on addr until ctx is done.
// Local sources are watched for changes; a configured rebuild interval adds
// periodic rebuilds.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := s.Rebuild(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	rebuilder := NewRebuilder(func(ctx context.Context) {
		slog.Info("Change detected; rebuilding site")
		_, _ = s.Rebuild(ctx)
	})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rebuilder.Run(ctx)
	}()

	if s.cfg.Git.URL == "" {
		w, err := NewWatcher(s.cfg.Source, s.cfg.Target)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to watch source").Build()
		}
		defer func() { _ = w.Close() }()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Run(ctx, rebuilder.Trigger)
		}()
	}

	if interval := s.cfg.Preview.RebuildInterval.Std(); interval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to start scheduler").Build()
		}
		if _, err := sched.SchedulePeriodic(interval, rebuilder.Trigger); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to schedule rebuild").Build()
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").WithContext("addr", addr).Build()
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	slog.Info("Preview server listening", logfields.Addr(ln.Addr().String()),
		logfields.URL(fmt.Sprintf("http://%s/", ln.Addr().String())))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		cancel()
		wg.Wait()
		if !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapError(err, errors.CategoryRuntime, "preview server failed").Build()
		}
		return nil
	}

	slog.Info("Shutting down preview server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	wg.Wait()
	return nil
}

// siteHandler serves the output directory. Until a build has succeeded the
// last build error is reported instead.
func (s *Server) siteHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Target))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err, good := s.status.get(); !good {
			if err == nil {
				err = errors.RuntimeError("site has not been built yet").Build()
			}
			s.errs.WriteErrorResponse(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	res, err, _ := s.status.get()
	writeJSON(w, http.StatusOK, statusResponse(res, err))
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	res, err := s.Rebuild(r.Context())
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(res, nil))
}

func statusResponse(res *build.Result, err error) StatusResponse {
	if res == nil {
		return StatusResponse{Status: "pending"}
	}
	out := StatusResponse{
		Status:   string(res.Status),
		BuildID:  res.BuildID,
		Pages:    res.Pages,
		Duration: res.Duration.String(),
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(ww.Status()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	})
}

// Addr formats the listen address for port.
func Addr(port int) string {
	return net.JoinHostPort("localhost", strconv.Itoa(port))
}
