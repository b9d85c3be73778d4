package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thansetan/patro/calendar"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("patro"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = ctx.Run(&runContext{Out: &out, Now: time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC)})
	return out.String(), err
}

func TestToBS(t *testing.T) {
	out, err := run(t, "to-bs", "2023-01-01")
	require.NoError(t, err)
	assert.Equal(t, "17 Poush 2079 (Sunday)\n", out)

	out, err = run(t, "to-bs")
	require.NoError(t, err)
	assert.Equal(t, "17 Poush 2079 (Sunday)\n", out)

	_, err = run(t, "to-bs", "1900-01-01")
	require.ErrorIs(t, err, calendar.ErrYearOutOfRange)

	_, err = run(t, "to-bs", "yesterday")
	require.Error(t, err)
}

func TestToAD(t *testing.T) {
	out, err := run(t, "to-ad", "2080", "1", "1")
	require.NoError(t, err)
	assert.Equal(t, "14 April 2023 (Friday)\n", out)

	_, err = run(t, "to-ad", "2080", "13", "1")
	require.ErrorIs(t, err, calendar.ErrInvalidField)

	_, err = run(t, "to-ad", "2091", "1", "1")
	require.ErrorIs(t, err, calendar.ErrYearOutOfRange)
}

func TestAge(t *testing.T) {
	out, err := run(t, "age", "2000-01-15")
	require.NoError(t, err)
	assert.Equal(t, "22 years, 11 months and 17 days\n", out)

	out, err = run(t, "age", "--calendar=bs", "2057-01-01")
	require.NoError(t, err)
	assert.Equal(t, "22 years, 8 months and 16 days\n", out)

	_, err = run(t, "age", "2024-01-01")
	require.ErrorIs(t, err, calendar.ErrFutureBirthDate)

	_, err = run(t, "age", "--calendar=jalali", "2000-01-01")
	require.Error(t, err)
}

func TestMonths(t *testing.T) {
	out, err := run(t, "months", "2079")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, " 1 Baisakh  31 days  starts 2022-04-14", lines[0])
	assert.Equal(t, " 9 Poush    30 days  starts 2022-12-16", lines[8])
}
