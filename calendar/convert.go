package calendar

import (
	"fmt"
	"sort"
	"time"
)

// civil drops everything but the calendar date of t, read in t's own
// location.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysSinceEpoch counts calendar days from Epoch to t. Both sides are UTC
// midnights so the division is exact.
func daysSinceEpoch(t time.Time) int {
	return int(civil(t).Sub(Epoch).Hours()) / 24
}

// ToBS returns the BS date of the calendar day of t.
func ToBS(t time.Time) (BSDate, error) {
	n := daysSinceEpoch(t)
	if n < 0 || n >= yearStart[len(yearStart)-1] {
		return BSDate{}, fmt.Errorf("%w: %s is outside %s - %s", ErrYearOutOfRange,
			civil(t).Format(time.DateOnly), Epoch.Format(time.DateOnly), LastDay().Format(time.DateOnly))
	}
	return fromOffset(n), nil
}

// fromOffset maps a day offset known to be inside the table to its BS date.
func fromOffset(n int) BSDate {
	i := sort.Search(len(monthDays), func(i int) bool {
		return yearStart[i+1] > n
	})
	n -= yearStart[i]
	month := Baisakh
	for n >= monthDays[i][month] {
		n -= monthDays[i][month]
		month++
	}
	return BSDate{Year: MinYear + i, Month: month, Day: n + 1}
}

// ToGregorian returns the Gregorian day, at midnight UTC, of the given BS
// date.
func ToGregorian(year int, month Month, day int) (time.Time, error) {
	n, err := BSDate{Year: year, Month: month, Day: day}.offset()
	if err != nil {
		return time.Time{}, err
	}
	return Epoch.AddDate(0, 0, n), nil
}

// LastDay is the Gregorian day of the last tabulated BS day.
func LastDay() time.Time {
	return Epoch.AddDate(0, 0, yearStart[len(yearStart)-1]-1)
}

// Today returns the BS date of now's calendar day.
func Today(now time.Time) (BSDate, error) {
	return ToBS(now)
}
