package api

import (
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/thansetan/patro/converter"
	"github.com/thansetan/patro/db"
	"github.com/thansetan/patro/helper"
	"github.com/thansetan/patro/visitor"
)

var (
	once    sync.Once
	handler http.Handler
	initErr error
	logger  = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// HandlerPatro is the serverless entry point. It serves the JSON API and
// the visitor counter from Postgres; pages and live updates are left to the
// long-running server.
func HandlerPatro(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		var conn *sql.DB
		conn, initErr = db.NewConn(db.DriverPostgres, os.Getenv("POSTGRES_URL"))
		if initErr != nil {
			return
		}
		handler = newMux(conn)
	})
	if initErr != nil {
		logger.ErrorContext(r.Context(), "failed to connect to database", "error", initErr.Error())
		helper.OurFault(w)
		return
	}
	handler.ServeHTTP(w, r)
}

func newMux(conn *sql.DB) *http.ServeMux {
	visitorSvc := visitor.NewService(visitor.NewRepo(conn))
	visitors := visitor.NewController(visitorSvc, "", logger)
	controller := converter.NewController(converter.NewService(), visitorSvc, template.New(""), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/bs", controller.ToBS)
	mux.HandleFunc("GET /api/ad", controller.ToAD)
	mux.HandleFunc("GET /api/age", controller.Age)
	mux.HandleFunc("GET /api/calendar/{year}", func(w http.ResponseWriter, r *http.Request) {
		controller.YearOf(w, r, r.PathValue("year"))
	})
	mux.HandleFunc("POST /visit", visitors.Visit)
	mux.HandleFunc("GET /visitors", visitors.Count)
	return mux
}
