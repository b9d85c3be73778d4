// Package calendar converts dates between the Gregorian calendar and the
// Bikram Sambat (BS) calendar used in Nepal.
//
// BS months have no closed-form length, so conversions are driven by a
// month-length table covering BS years MinYear through MaxYear, anchored at
// Epoch (1943-04-14 AD = 2000 Baisakh 1 BS). Everything here is read-only
// after package initialization and safe for concurrent use.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinYear = 2000
	MaxYear = 2090
)

var (
	ErrYearOutOfRange  = errors.New("year out of range")
	ErrInvalidField    = errors.New("invalid calendar field")
	ErrFutureBirthDate = errors.New("birth date is in the future")
)

// Epoch is the Gregorian day of EpochBS.
var Epoch = time.Date(1943, time.April, 14, 0, 0, 0, 0, time.UTC)

// EpochBS is the first day of the table.
var EpochBS = BSDate{Year: MinYear, Month: Baisakh, Day: 1}

var EnglishMonths = [12]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

var NepaliMonths = [12]string{
	"Baisakh",
	"Jestha",
	"Ashadh",
	"Shrawan",
	"Bhadra",
	"Ashwin",
	"Kartik",
	"Mangsir",
	"Poush",
	"Magh",
	"Falgun",
	"Chaitra",
}

var DayNames = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// Month is a zero-based BS month, Baisakh being 0.
type Month int

const (
	Baisakh Month = iota
	Jestha
	Ashadh
	Shrawan
	Bhadra
	Ashwin
	Kartik
	Mangsir
	Poush
	Magh
	Falgun
	Chaitra
)

func (m Month) String() string {
	if m < Baisakh || m > Chaitra {
		return fmt.Sprintf("%%!Month(%d)", int(m))
	}
	return NepaliMonths[m]
}

// BSDate is a day in the Bikram Sambat calendar.
type BSDate struct {
	Year  int   `json:"year"`
	Month Month `json:"month"`
	Day   int   `json:"day"`
}

// Validate reports whether d names a tabulated day.
func (d BSDate) Validate() error {
	n, err := DaysInMonth(d.Year, d.Month)
	if err != nil {
		return err
	}
	if d.Day < 1 || d.Day > n {
		return fmt.Errorf("%w: day %d, %s %d has %d days", ErrInvalidField, d.Day, d.Month, d.Year, n)
	}
	return nil
}

func (d BSDate) MonthName() string {
	return d.Month.String()
}

// Weekday returns the day of the week of d, or -1 when d is not a
// tabulated day.
func (d BSDate) Weekday() time.Weekday {
	n, err := d.offset()
	if err != nil {
		return -1
	}
	return Epoch.AddDate(0, 0, n).Weekday()
}

// DayName is empty when d is not a tabulated day.
func (d BSDate) DayName() string {
	wd := d.Weekday()
	if wd < 0 {
		return ""
	}
	return DayNames[wd]
}

func (d BSDate) String() string {
	return FormatBS(d)
}

// Before reports whether d is strictly earlier than other.
func (d BSDate) Before(other BSDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// offset returns the number of days between EpochBS and d.
func (d BSDate) offset() (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	n := yearStart[d.Year-MinYear]
	for _, days := range monthDays[d.Year-MinYear][:d.Month] {
		n += days
	}
	return n + d.Day - 1, nil
}

// addMonths moves d forward by months, clamping the day to the length of
// the target month.
func (d BSDate) addMonths(months int) (BSDate, error) {
	m := int(d.Month) + months
	out := BSDate{Year: d.Year + m/12, Month: Month(m % 12)}
	n, err := DaysInMonth(out.Year, out.Month)
	if err != nil {
		return BSDate{}, err
	}
	out.Day = min(d.Day, n)
	return out, nil
}
