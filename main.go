package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/EmpoweredVote/civic-requests/internal/config"
	"github.com/EmpoweredVote/civic-requests/internal/db"
	"github.com/EmpoweredVote/civic-requests/internal/middleware"
	"github.com/EmpoweredVote/civic-requests/internal/pages"
	"github.com/EmpoweredVote/civic-requests/internal/requests"
	"github.com/EmpoweredVote/civic-requests/internal/validation"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	conn, err := db.Connect(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	if err := auth.Init(conn); err != nil {
		slog.Error("auth init failed", "error", err)
		os.Exit(1)
	}
	if err := requests.Init(conn); err != nil {
		slog.Error("requests init failed", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL, nil)
	if err != nil {
		slog.Error("token codec", "error", err)
		os.Exit(1)
	}
	gate := auth.NewGate(auth.NewUserRepository(conn), auth.NewBcryptHasher(auth.PasswordCost), tokens)
	v := validation.New()
	cookies := auth.CookieOptions{Secure: cfg.IsProduction()}

	areas := middleware.DefaultAreas
	if cfg.RoutePolicyFile != "" {
		areas, err = middleware.LoadAreas(cfg.RoutePolicyFile)
		if err != nil {
			slog.Error("route policy", "error", err)
			os.Exit(1)
		}
	}
	policy := middleware.NewRoutePolicy(gate, areas)
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMin)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RouteGate(policy, cookies))

	r.Get("/health", pages.Health)
	r.Mount("/api/auth", auth.SetupRoutes(auth.NewHandler(gate, v, cookies), limiter.Middleware))
	r.Mount("/api/requests", requests.SetupRoutes(requests.NewHandler(requests.NewRepository(conn), v, nil), gate))
	r.Mount("/", pages.SetupRoutes())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
