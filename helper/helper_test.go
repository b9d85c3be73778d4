package helper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	for _, tc := range []struct {
		year  int
		month time.Month
		want  int
	}{
		{2023, time.January, 31},
		{2023, time.February, 28},
		{2024, time.February, 29},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2023, time.April, 30},
	} {
		assert.Equal(t, tc.want, DaysInMonth(tc.year, tc.month), "%d %s", tc.year, tc.month)
		// agrees with time's own normalization
		assert.Equal(t, tc.want, time.Date(tc.year, tc.month+1, 0, 0, 0, 0, 0, time.UTC).Day())
	}
}

func TestWriteMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteMessage(rec, http.StatusBadRequest, "invalid year!")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"invalid year!"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	OurFault(rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
