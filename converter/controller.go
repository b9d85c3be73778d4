package converter

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/thansetan/patro/calendar"
	"github.com/thansetan/patro/helper"
	"github.com/thansetan/patro/model"
)

type visitorCounter interface {
	Count(context.Context) (int64, error)
}

type controller struct {
	tmpl     *template.Template
	logger   *slog.Logger
	svc      *converterService
	visitors visitorCounter
	now      func() time.Time
}

func NewController(svc *converterService, visitors visitorCounter, tmpl *template.Template, logger *slog.Logger) *controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &controller{tmpl, logger, svc, visitors, time.Now}
}

func (c *controller) Index(w http.ResponseWriter, r *http.Request) {
	today, err := c.svc.ToBS(c.now())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to convert today", "error", err.Error(), "remote_addr", r.RemoteAddr)
		helper.OurFault(w)
		return
	}
	var count int64
	if c.visitors != nil {
		count, err = c.visitors.Count(r.Context())
		if err != nil {
			// the page is still useful without the counter
			c.logger.WarnContext(r.Context(), "failed to get visitor count", "error", err.Error(), "remote_addr", r.RemoteAddr)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	err = c.tmpl.ExecuteTemplate(w, "index", model.PageData{
		Today:         today,
		VisitorCount:  count,
		NepaliMonths:  calendar.NepaliMonths,
		EnglishMonths: calendar.EnglishMonths,
		MinYear:       calendar.MinYear,
		MaxYear:       calendar.MaxYear,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to execute index template", "error", err.Error(), "remote_addr", r.RemoteAddr)
	}
}

// ToBS converts the "date" query parameter (YYYY-MM-DD, today when empty)
// to BS.
func (c *controller) ToBS(w http.ResponseWriter, r *http.Request) {
	date, err := c.parseDate(r.URL.Query().Get("date"))
	if err != nil {
		helper.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := c.svc.ToBS(date)
	if err != nil {
		c.writeError(w, r, "failed to convert to bs", err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, data)
}

// ToAD converts the "year", "month" (0-based) and "day" query parameters
// from BS to AD.
func (c *controller) ToAD(w http.ResponseWriter, r *http.Request) {
	bs, err := parseBSDate(r)
	if err != nil {
		helper.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := c.svc.ToAD(bs.Year, bs.Month, bs.Day)
	if err != nil {
		c.writeError(w, r, "failed to convert to ad", err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, data)
}

func (c *controller) Age(w http.ResponseWriter, r *http.Request) {
	var (
		data model.Age
		q    = r.URL.Query()
		now  = c.now()
	)
	switch kind := strings.ToLower(strings.TrimSpace(q.Get("calendar"))); kind {
	case "", CalendarAD:
		if q.Get("date") == "" {
			helper.WriteMessage(w, http.StatusBadRequest, "date can't be empty!")
			return
		}
		birth, err := c.parseDate(q.Get("date"))
		if err != nil {
			helper.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err = c.svc.GregorianAge(birth, now)
		if err != nil {
			c.writeError(w, r, "failed to calculate ad age", err)
			return
		}
	case CalendarBS:
		birth, err := parseBSDate(r)
		if err != nil {
			helper.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err = c.svc.BSAge(birth, now)
		if err != nil {
			c.writeError(w, r, "failed to calculate bs age", err)
			return
		}
	default:
		helper.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("unknown calendar %q, use %q or %q", kind, CalendarAD, CalendarBS))
		return
	}
	helper.WriteJSON(w, http.StatusOK, data)
}

func (c *controller) Year(w http.ResponseWriter, r *http.Request) {
	c.YearOf(w, r, mux.Vars(r)["year"])
}

// YearOf writes the month table of the BS year in yearStr, for routers that
// don't go through mux.
func (c *controller) YearOf(w http.ResponseWriter, r *http.Request, yearStr string) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		helper.WriteMessage(w, http.StatusBadRequest, "invalid year!")
		return
	}
	data, err := c.svc.Year(year)
	if err != nil {
		c.writeError(w, r, "failed to get year", err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, data)
}

func (c controller) FourOFour(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	err := c.tmpl.ExecuteTemplate(w, "404", nil)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to execute 404 template", "error", err.Error(), "remote_addr", r.RemoteAddr)
	}
}

// writeError maps calendar errors to 400 and everything else to 500.
func (c *controller) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, calendar.ErrYearOutOfRange) ||
		errors.Is(err, calendar.ErrInvalidField) ||
		errors.Is(err, calendar.ErrFutureBirthDate) {
		c.logger.InfoContext(r.Context(), msg, "error", err.Error(), "remote_addr", r.RemoteAddr)
		helper.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c.logger.ErrorContext(r.Context(), msg, "error", err.Error(), "remote_addr", r.RemoteAddr)
	helper.OurFault(w)
}

func (c *controller) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c.now(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

func parseBSDate(r *http.Request) (calendar.BSDate, error) {
	var (
		d     calendar.BSDate
		err   error
		q     = r.URL.Query()
		month int
	)
	d.Year, err = strconv.Atoi(strings.TrimSpace(q.Get("year")))
	if err != nil {
		return d, errors.New("invalid year!")
	}
	month, err = strconv.Atoi(strings.TrimSpace(q.Get("month")))
	if err != nil {
		return d, errors.New("invalid month!")
	}
	d.Month = calendar.Month(month)
	d.Day, err = strconv.Atoi(strings.TrimSpace(q.Get("day")))
	if err != nil {
		return d, errors.New("invalid day!")
	}
	return d, nil
}
