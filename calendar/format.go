package calendar

import (
	"fmt"
	"time"
)

// FormatBS renders d as "17 Poush 2079 (Sunday)". The day name is left out
// when d is not a tabulated day.
func FormatBS(d BSDate) string {
	day := d.DayName()
	if day == "" {
		return fmt.Sprintf("%d %s %d", d.Day, d.MonthName(), d.Year)
	}
	return fmt.Sprintf("%d %s %d (%s)", d.Day, d.MonthName(), d.Year, day)
}

// FormatGregorian renders the calendar day of t as "1 January 2023 (Sunday)".
func FormatGregorian(t time.Time) string {
	return fmt.Sprintf("%d %s %d (%s)", t.Day(), EnglishMonths[t.Month()-1], t.Year(), DayNames[t.Weekday()])
}
