package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"
	"github.com/thansetan/patro/converter"
	"github.com/thansetan/patro/db"
	"github.com/thansetan/patro/middleware"
	"github.com/thansetan/patro/visitor"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticDirFS embed.FS

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
	AddSource: true,
}))

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logger.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = db.DriverSQLite
	}
	dsn := os.Getenv("DATA_SOURCE_NAME")
	if dsn == "" && driver == db.DriverSQLite {
		dsn = "patro.sqlite3"
	}
	conn, err := db.NewConn(driver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	staticFilesFS, err := fs.Sub(staticDirFS, "static")
	if err != nil {
		return fmt.Errorf("static dir doesn't exists: %w", err)
	}

	// only a sqlite file can be watched for live updates
	var watchFile string
	if driver == db.DriverSQLite {
		watchFile = dsn
	}
	visitorSvc := visitor.NewService(visitor.NewRepo(conn))
	visitors := visitor.NewController(visitorSvc, watchFile, logger)
	controller := converter.NewController(converter.NewService(), visitorSvc, tmpl, logger)

	clientIP := middleware.ClientIP(strings.Split(os.Getenv("TRUSTED_PROXY"), ",")...)
	rateLimit := middleware.NewRateLimit(ctx, envUint("RATE_LIMIT", 60), time.Minute, 5*time.Minute, clientIP)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(controller.FourOFour)
	r.MethodNotAllowedHandler = http.HandlerFunc(controller.FourOFour)

	r.Path("/").HandlerFunc(controller.Index).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(func(next http.Handler) http.Handler { return rateLimit.Handle(next) })
	api.Path("/bs").HandlerFunc(controller.ToBS).Methods(http.MethodGet)
	api.Path("/ad").HandlerFunc(controller.ToAD).Methods(http.MethodGet)
	api.Path("/age").HandlerFunc(controller.Age).Methods(http.MethodGet)
	api.Path("/calendar/{year:[0-9]+}").HandlerFunc(controller.Year).Methods(http.MethodGet)
	r.Path("/visit").HandlerFunc(rateLimit.Handle(http.HandlerFunc(visitors.Visit))).Methods(http.MethodPost)
	r.Path("/visitors").HandlerFunc(visitors.Count).Methods(http.MethodGet)
	r.Path("/sse").HandlerFunc(visitors.Event).Methods(http.MethodGet)
	r.Path("/healthcheck").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.PathPrefix("/").Handler(http.StripPrefix("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := fs.Stat(staticFilesFS, r.URL.Path); err != nil {
			controller.FourOFour(w, r)
			return
		}
		http.FileServer(http.FS(staticFilesFS)).ServeHTTP(w, r)
	})))

	srv := new(http.Server)
	srv.Handler = middleware.NewLogger(logger).Handle(r)
	srv.Addr = fmt.Sprintf("0.0.0.0:%s", envString("PORT", "8080"))
	srv.ReadHeaderTimeout = 10 * time.Second
	// live update streams are ended by the request context on shutdown
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(fmt.Sprintf("server listening at %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http error listening: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(visitor.SessionTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				n, err := visitorSvc.Cleanup(ctx, now)
				if err != nil {
					logger.ErrorContext(ctx, "failed to clean up visitor sessions", "error", err.Error())
					continue
				}
				logger.DebugContext(ctx, "visitor sessions cleaned up", "deleted", n)
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 64)
	if err != nil || v == 0 {
		return fallback
	}
	return v
}
