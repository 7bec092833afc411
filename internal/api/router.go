package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/uzeyirmammadli/catcare-sub001/internal/api/handlers/http/cases"
	"github.com/uzeyirmammadli/catcare-sub001/internal/api/handlers/http/comments"
	"github.com/uzeyirmammadli/catcare-sub001/internal/api/handlers/http/system"
	"github.com/uzeyirmammadli/catcare-sub001/internal/config"
	"github.com/uzeyirmammadli/catcare-sub001/internal/middleware"
	"github.com/uzeyirmammadli/catcare-sub001/internal/service"
	"github.com/uzeyirmammadli/catcare-sub001/internal/storage/media"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, mediaStore media.Store) *Server {
	caseHandler := cases.NewHandler(
		logger,
		svc.CaseService,
		svc.SearchService,
		svc.CommentService,
		svc.StatsService,
		mediaStore,
		cfg.Uploads.MaxUploadMB,
	)
	commentHandler := comments.NewHandler(logger, svc.CommentService)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, caseHandler, commentHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(cfg *config.Config, caseHandler *cases.Handler, commentHandler *comments.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Actor)

	// READ
	r.Get("/cases", caseHandler.ListOpen)
	r.Get("/resolved-cases", caseHandler.ListResolved)
	r.Get("/advanced-search", caseHandler.AdvancedSearch)
	r.Get("/view_case_details/{id}", caseHandler.Details)
	r.Get("/update/{id}", caseHandler.GetForUpdate)
	r.Get("/stats", caseHandler.CaseStats)

	// WRITE
	r.Group(func(wr chi.Router) {
		wr.Use(middleware.RequireUser)
		wr.Use(middleware.Limit(5, 10, 10*time.Minute, logger))

		wr.Post("/report", caseHandler.Report)
		wr.Post("/update/{id}", caseHandler.Update)
		wr.Post("/resolve_case/{id}", caseHandler.Resolve)
		wr.Post("/remove_media/{id}", caseHandler.RemoveMedia)
		wr.Post("/delete_case/{id}", caseHandler.DeleteCase)

		wr.Post("/view_case_details/{id}/comments", commentHandler.Add)
		wr.Post("/edit_comment/{id}", commentHandler.Edit)
		wr.Post("/delete_comment/{id}", commentHandler.Delete)
	})

	// SYSTEM
	r.Get("/health", systemHandler.SystemHealth)

	// Stored uploads served straight from disk.
	if cfg.Uploads.Dir != "" {
		prefix := strings.TrimRight(cfg.Uploads.BaseURL, "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Uploads.Dir)))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
