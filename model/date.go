package model

import (
	"time"

	"github.com/thansetan/patro/calendar"
)

type BSDate struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	DayName   string `json:"day_name"`
	Formatted string `json:"formatted"`
}

func NewBSDate(d calendar.BSDate) BSDate {
	return BSDate{
		Year:      d.Year,
		Month:     int(d.Month),
		Day:       d.Day,
		MonthName: d.MonthName(),
		DayName:   d.DayName(),
		Formatted: calendar.FormatBS(d),
	}
}

type ADDate struct {
	Date      string `json:"date"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	DayName   string `json:"day_name"`
	Formatted string `json:"formatted"`
}

// NewADDate reports month 0-based, the same way BS months are reported.
func NewADDate(t time.Time) ADDate {
	return ADDate{
		Date:      t.Format(time.DateOnly),
		Year:      t.Year(),
		Month:     int(t.Month()) - 1,
		Day:       t.Day(),
		MonthName: calendar.EnglishMonths[t.Month()-1],
		DayName:   calendar.DayNames[t.Weekday()],
		Formatted: calendar.FormatGregorian(t),
	}
}

type Conversion struct {
	AD ADDate `json:"ad"`
	BS BSDate `json:"bs"`
}

type Age struct {
	calendar.Age
	Calendar  string `json:"calendar"`
	Formatted string `json:"formatted"`
}

type Month struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Days  int    `json:"days"`
}

type YearInfo struct {
	Year   int     `json:"year"`
	Days   int     `json:"days"`
	Start  ADDate  `json:"start"`
	Months []Month `json:"months"`
}

// PageData feeds the index template.
type PageData struct {
	Today         Conversion
	VisitorCount  int64
	NepaliMonths  [12]string
	EnglishMonths [12]string
	MinYear       int
	MaxYear       int
}
