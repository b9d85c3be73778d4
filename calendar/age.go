package calendar

import (
	"fmt"
	"time"

	"github.com/thansetan/patro/helper"
)

// Age is a calendar difference between two days.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

func (a Age) String() string {
	return fmt.Sprintf("%d years, %d months and %d days", a.Years, a.Months, a.Days)
}

func newAge(months, days int) Age {
	return Age{Years: months / 12, Months: months % 12, Days: days}
}

// GregorianAge returns the age on today's calendar day of someone born on
// birth's calendar day, counted in Gregorian years and months.
//
// Whole months are counted from birth, a birth day missing from the target
// month falls on that month's last day, and the remaining days are counted
// from there.
func GregorianAge(birth, today time.Time) (Age, error) {
	birth, today = civil(birth), civil(today)
	if birth.After(today) {
		return Age{}, fmt.Errorf("%w: %s is after %s", ErrFutureBirthDate, birth.Format(time.DateOnly), today.Format(time.DateOnly))
	}
	months := (today.Year()-birth.Year())*12 + int(today.Month()) - int(birth.Month())
	anchor := addMonths(birth, months)
	if anchor.After(today) {
		months--
		anchor = addMonths(birth, months)
	}
	return newAge(months, int(today.Sub(anchor).Hours())/24), nil
}

// addMonths moves the UTC midnight t forward by months, clamping the day
// to the length of the target month.
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := min(t.Day(), helper.DaysInMonth(first.Year(), first.Month()))
	return first.AddDate(0, 0, day-1)
}

// BSAge returns the age on today's calendar day of someone born on the BS
// date birth, counted in BS years and months the same way GregorianAge
// counts Gregorian ones.
func BSAge(birth BSDate, today time.Time) (Age, error) {
	if err := birth.Validate(); err != nil {
		return Age{}, err
	}
	now, err := ToBS(today)
	if err != nil {
		return Age{}, err
	}
	if now.Before(birth) {
		return Age{}, fmt.Errorf("%w: %s is after %s", ErrFutureBirthDate, FormatBS(birth), FormatBS(now))
	}
	months := (now.Year-birth.Year)*12 + int(now.Month) - int(birth.Month)
	anchor, err := birth.addMonths(months)
	if err != nil {
		return Age{}, err
	}
	if now.Before(anchor) {
		months--
		// birth itself is never after now, so this stays in the table.
		anchor, err = birth.addMonths(months)
		if err != nil {
			return Age{}, err
		}
	}
	from, err := anchor.offset()
	if err != nil {
		return Age{}, err
	}
	return newAge(months, daysSinceEpoch(today)-from), nil
}
