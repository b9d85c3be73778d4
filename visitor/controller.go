package visitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thansetan/patro/helper"
)

const cookieName = "patro_visitor"

type controller struct {
	logger *slog.Logger
	svc    *visitorService
	// dbFile is watched for writes by Event. Empty disables Event.
	dbFile string
}

func NewController(svc *visitorService, dbFile string, logger *slog.Logger) *controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &controller{logger, svc, dbFile}
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (c *controller) Visit(w http.ResponseWriter, r *http.Request) {
	var visitorID string
	if cookie, err := r.Cookie(cookieName); err == nil {
		visitorID = cookie.Value
	}
	count, visitorID, err := c.svc.Visit(r.Context(), visitorID, time.Now())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to record visit", "error", err.Error(), "remote_addr", r.RemoteAddr)
		helper.OurFault(w)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    visitorID,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	helper.WriteJSON(w, http.StatusOK, countResponse{count})
}

func (c *controller) Count(w http.ResponseWriter, r *http.Request) {
	count, err := c.svc.Count(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to get visitor count", "error", err.Error(), "remote_addr", r.RemoteAddr)
		helper.OurFault(w)
		return
	}
	helper.WriteJSON(w, http.StatusOK, countResponse{count})
}

// Event streams the visitor count as server-sent events, pushing a new
// value every time the database file is written.
func (c *controller) Event(w http.ResponseWriter, r *http.Request) {
	if c.dbFile == "" {
		helper.WriteMessage(w, http.StatusNotFound, "live updates are not available")
		return
	}
	c.logger.InfoContext(r.Context(), "client connected!", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", os.Getenv("ALLOWED_SSE_ORIGINS"))
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, "retry:3000\n\n")
	rc := http.NewResponseController(w)
	rc.Flush()

	last, err := c.sendCount(w, r)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to send visitor count!", "error", err, "remote_addr", r.RemoteAddr)
		last = -1
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create watcher!", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	defer watcher.Close()
	err = watcher.Add(c.dbFile)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to watch sqlite file!", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	keepaliveTicker := time.NewTicker(25 * time.Second)
	defer keepaliveTicker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				c.logger.ErrorContext(r.Context(), "watcher closed!", "remote_addr", r.RemoteAddr)
				return
			}
			if !event.Has(fsnotify.Write) {
				break
			}
			count, err := c.svc.Count(r.Context())
			if err != nil {
				c.logger.ErrorContext(r.Context(), "failed to get visitor count!", "error", err, "remote_addr", r.RemoteAddr)
				break
			}
			// session touches write the file too
			if count == last {
				break
			}
			last = count
			err = writeEvent(w, count)
			if err != nil {
				c.logger.InfoContext(r.Context(), "write failed, client likely disconnected", "remote_addr", r.RemoteAddr)
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.ErrorContext(r.Context(), "watcher error", "error", err, "remote_addr", r.RemoteAddr)
		case <-keepaliveTicker.C:
			_, err := fmt.Fprint(w, ":ping\n\n")
			if err != nil {
				c.logger.InfoContext(r.Context(), "keepalive ping failed, client likely disconnected", "remote_addr", r.RemoteAddr)
				return
			}
			err = rc.Flush()
			if err != nil {
				c.logger.InfoContext(r.Context(), "flush failed, client likely disconnected", "remote_addr", r.RemoteAddr)
				return
			}
		case <-r.Context().Done():
			c.logger.InfoContext(r.Context(), "client disconnected!", "remote_addr", r.RemoteAddr)
			return
		}
	}
}

func (c *controller) sendCount(w http.ResponseWriter, r *http.Request) (int64, error) {
	count, err := c.svc.Count(r.Context())
	if err != nil {
		return 0, err
	}
	return count, writeEvent(w, count)
}

func writeEvent(w http.ResponseWriter, count int64) error {
	jsonBytes, err := json.Marshal(countResponse{count})
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "event:visitors\ndata:%s\n\n", jsonBytes)
	if err != nil {
		return fmt.Errorf("error writing event: %w", err)
	}
	err = http.NewResponseController(w).Flush()
	if err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}
	return nil
}
