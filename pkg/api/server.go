// Package api serves the payment API over HTTP
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/batch"
	"mojapay.io/mobile-money/pkg/confirm"
	"mojapay.io/mobile-money/pkg/csv"
	"mojapay.io/mobile-money/pkg/gateway"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/report"
	"mojapay.io/mobile-money/pkg/staging"
)

const (
	// maxUploadSize bounds the size of an uploaded recipients file.
	maxUploadSize = 8 << 20

	shutdownTimeout = 10 * time.Second
)

// Announcer is told about finished payments.
type Announcer interface {
	BulkCompleted(ctx context.Context, s confirm.BulkSummary)
	IndividualCompleted(ctx context.Context, name string, amount decimal.Decimal)
}

var _ Announcer = &confirm.Broadcaster{}

type Config struct {
	// Log is the logger for requests and payments
	Log *zap.Logger

	// Gateway submits the payments
	Gateway gateway.Gateway

	// History is the transaction log
	History history.TransactionLogStore

	// Announcer is optional.
	Announcer Announcer

	// RowLimit applies to uploaded files. Defaults to csv.DefaultLimit.
	RowLimit *csv.Limit

	// AllowedOrigins for CORS. Defaults to every origin.
	AllowedOrigins []string

	// test hook for timestamps
	now func() time.Time
}

type Server struct {
	log       *zap.Logger
	gw        gateway.Gateway
	history   history.TransactionLogStore
	announcer Announcer
	rowLimit  csv.Limit
	origins   []string
	now       func() time.Time

	// bulkMu serializes bulk payments; one batch runs at a time.
	bulkMu sync.Mutex
	store  *staging.Store
	runner *batch.Runner

	reportMu   sync.Mutex
	lastReport []report.Row
}

func New(config Config) (*Server, error) {
	switch {
	case config.Log == nil:
		return nil, errors.New("log is required")
	case config.Gateway == nil:
		return nil, errors.New("gateway is required")
	case config.History == nil:
		return nil, errors.New("history is required")
	}
	if config.RowLimit == nil {
		config.RowLimit = &csv.DefaultLimit
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}
	if config.now == nil {
		config.now = time.Now
	}

	store := staging.New()
	runner, err := batch.New(batch.Config{
		Log:     config.Log.Named("batch"),
		Gateway: config.Gateway,
		Store:   store,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		log:       config.Log,
		gw:        config.Gateway,
		history:   config.History,
		announcer: config.Announcer,
		rowLimit:  *config.RowLimit,
		origins:   config.AllowedOrigins,
		now:       config.now,
		store:     store,
		runner:    runner,
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "gateway": s.gw.String()})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/payments/individual/", s.handleIndividualPayment)
		r.Post("/payments/bulk/", s.handleBulkPayment)
		r.Get("/transactions/", s.handleListTransfers)
		r.Delete("/transactions/", s.handleClearHistory)
		r.Get("/history/", s.handleHistory)
		r.Post("/bulk/upload/", s.handleUpload)
		r.Get("/bulk/report.csv", s.handleReportCSV)
		r.Get("/bulk/report.pdf", s.handleReportPDF)
	})

	return r
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errs.Wrap(err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	var group errs.Group
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		group.Add(srv.Shutdown(shutdownCtx))
	}()

	s.log.Info("Serving payment API", zap.String("addr", listener.Addr().String()), zap.Stringer("gateway", s.gw))
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errs.Wrap(err)
	}
	<-done
	return group.Err()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Debug("Request",
				zap.String("id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
