package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/daily"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/snapshot"
	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/pkg/httplib/healthcheck"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

var symbolPattern = regexp.MustCompile(`^(sh|sz|bj)\d{6}$`)

// Focuser moves one instrument into the hot polling loop.
type Focuser interface {
	SetFocus(symbol string)
	Focus() string
}

// Signature names the threshold pair daily summaries are read with.
type Signature func(ctx context.Context) string

// Server is the operator HTTP surface: focus control, recent rows, health
// and metrics.
type Server struct {
	router    *mux.Router
	server    *http.Server
	focus     Focuser
	snapshots snapshot.SnapshotRepository
	daily     daily.DailyFlowRepository
	signature Signature
	health    *healthcheck.HealthCheck
	logger    logger.Interface
}

// NewServer wires the routes; it does not listen until Start.
func NewServer(
	port int,
	focus Focuser,
	snapshots snapshot.SnapshotRepository,
	daily daily.DailyFlowRepository,
	signature Signature,
	health *healthcheck.HealthCheck,
	log logger.Interface,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		focus:     focus,
		snapshots: snapshots,
		daily:     daily,
		signature: signature,
		health:    health,
		logger:    log,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)

	s.router.Handle("/health", s.health).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/focus", s.getFocus).Methods(http.MethodGet)
	s.router.HandleFunc("/focus", s.clearFocus).Methods(http.MethodDelete)
	s.router.HandleFunc("/focus/{symbol}", s.setFocus).Methods(http.MethodPut)

	s.router.HandleFunc("/snapshots/{symbol}", s.listSnapshots).Methods(http.MethodGet)
	s.router.HandleFunc("/daily/{symbol}", s.listDaily).Methods(http.MethodGet)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting control server", logger.NewField("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.ContextWithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
		w.Header().Set("X-Request-ID", util.GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type focusResponse struct {
	Focus string `json:"focus"`
}

func (s *Server) getFocus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, focusResponse{Focus: s.focus.Focus()})
}

func (s *Server) setFocus(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbol(w, r)
	if !ok {
		return
	}
	s.focus.SetFocus(symbol)
	writeJSON(w, http.StatusOK, focusResponse{Focus: symbol})
}

func (s *Server) clearFocus(w http.ResponseWriter, r *http.Request) {
	s.focus.SetFocus("")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbol(w, r)
	if !ok {
		return
	}
	limit, ok := s.limit(w, r)
	if !ok {
		return
	}

	filter := snapshot.Filter{Symbol: symbol, Limit: limit}
	if date := r.URL.Query().Get("date"); date != "" {
		from, err := time.ParseInLocation(util.DateLayout, date, util.Exchange)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.From = util.TimePoiner(from)
		filter.To = util.TimePoiner(from.AddDate(0, 0, 1))
	}

	rows, err := s.snapshots.GetByFilter(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), err, logger.NewField("symbol", symbol))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if rows == nil {
		rows = []*snapshot.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) listDaily(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbol(w, r)
	if !ok {
		return
	}
	limit, ok := s.limit(w, r)
	if !ok {
		return
	}

	flows, err := s.daily.History(r.Context(), symbol, s.signature(r.Context()), limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), err, logger.NewField("symbol", symbol))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, flows)
}

func (s *Server) symbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := strings.ToLower(mux.Vars(r)["symbol"])
	if !symbolPattern.MatchString(symbol) {
		writeError(w, http.StatusBadRequest, "symbol must look like sh600519")
		return "", false
	}
	return symbol, true
}

func (s *Server) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return min(n, maxLimit), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
