package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/thansetan/patro/calendar"
)

// CLI defines the command-line interface structure
type CLI struct {
	ToBS   ToBSCmd   `cmd:"" name:"to-bs" help:"Convert an AD date to BS"`
	ToAD   ToADCmd   `cmd:"" name:"to-ad" help:"Convert a BS date to AD"`
	Age    AgeCmd    `cmd:"" help:"Calculate age from a birth date"`
	Months MonthsCmd `cmd:"" help:"Print the month table of a BS year"`
}

// runContext is bound into every Run method.
type runContext struct {
	Out io.Writer
	Now time.Time
}

// ToBSCmd converts an AD date to BS
type ToBSCmd struct {
	Date string `arg:"" optional:"" help:"AD date as YYYY-MM-DD (default: today)"`
}

func (c *ToBSCmd) Run(rc *runContext) error {
	date := rc.Now
	if c.Date != "" {
		var err error
		date, err = time.Parse(time.DateOnly, c.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", c.Date)
		}
	}
	bs, err := calendar.ToBS(date)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.Out, calendar.FormatBS(bs))
	return nil
}

// ToADCmd converts a BS date to AD
type ToADCmd struct {
	Year  int `arg:"" help:"BS year"`
	Month int `arg:"" help:"BS month, 1 (Baisakh) to 12 (Chaitra)"`
	Day   int `arg:"" help:"Day of the month"`
}

func (c *ToADCmd) Run(rc *runContext) error {
	ad, err := calendar.ToGregorian(c.Year, calendar.Month(c.Month-1), c.Day)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.Out, calendar.FormatGregorian(ad))
	return nil
}

// AgeCmd calculates an age in either calendar
type AgeCmd struct {
	Calendar string `name:"calendar" short:"c" enum:"ad,bs" default:"ad" help:"Calendar of the birth date (ad or bs)"`
	Birth    string `arg:"" help:"Birth date, YYYY-MM-DD with a 1-based month"`
}

func (c *AgeCmd) Run(rc *runContext) error {
	var (
		age calendar.Age
		err error
	)
	switch c.Calendar {
	case "bs":
		var y, m, d int
		if _, err := fmt.Sscanf(strings.TrimSpace(c.Birth), "%d-%d-%d", &y, &m, &d); err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", c.Birth)
		}
		age, err = calendar.BSAge(calendar.BSDate{Year: y, Month: calendar.Month(m - 1), Day: d}, rc.Now)
	default:
		birth, perr := time.Parse(time.DateOnly, c.Birth)
		if perr != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", c.Birth)
		}
		age, err = calendar.GregorianAge(birth, rc.Now)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.Out, age)
	return nil
}

// MonthsCmd prints the month lengths of a BS year
type MonthsCmd struct {
	Year int `arg:"" help:"BS year"`
}

func (c *MonthsCmd) Run(rc *runContext) error {
	lengths, err := calendar.MonthLengths(c.Year)
	if err != nil {
		return err
	}
	start, err := calendar.ToGregorian(c.Year, calendar.Baisakh, 1)
	if err != nil {
		return err
	}
	for i, days := range lengths {
		fmt.Fprintf(rc.Out, "%2d %-8s %2d days  starts %s\n", i+1, calendar.Month(i), days, start.Format(time.DateOnly))
		start = start.AddDate(0, 0, days)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("patro"),
		kong.Description("Bikram Sambat / Gregorian date converter"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&runContext{Out: os.Stdout, Now: time.Now()})
	ctx.FatalIfErrorf(err)
}
