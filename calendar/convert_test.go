package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// step returns the day after d the naive way, rolling over the month and
// the year.
func step(d BSDate) BSDate {
	if d.Day < monthDays[d.Year-MinYear][d.Month] {
		d.Day++
		return d
	}
	d.Day = 1
	d.Month++
	if d.Month > Chaitra {
		d.Month = Baisakh
		d.Year++
	}
	return d
}

func TestTable(t *testing.T) {
	t.Parallel()
	for i, months := range monthDays {
		year := MinYear + i
		total := 0
		for m, n := range months {
			got, err := DaysInMonth(year, Month(m))
			require.NoError(t, err)
			assert.Equal(t, n, got)
			assert.GreaterOrEqual(t, n, 29, "%d %s", year, Month(m))
			assert.LessOrEqual(t, n, 32, "%d %s", year, Month(m))
			total += n
		}
		assert.Contains(t, []int{365, 366}, total, "year %d", year)
		length, err := YearLength(year)
		require.NoError(t, err)
		assert.Equal(t, total, length)
	}
}

func TestDaysInMonth(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name  string
		year  int
		month Month
		want  int
		err   error
	}{
		{name: "first", year: 2000, month: Baisakh, want: 30},
		{name: "last", year: 2090, month: Chaitra, want: 30},
		{name: "32 days", year: 2056, month: Bhadra, want: 32},
		{name: "before table", year: 1999, month: Baisakh, err: ErrYearOutOfRange},
		{name: "after table", year: 2091, month: Baisakh, err: ErrYearOutOfRange},
		{name: "negative month", year: 2080, month: -1, err: ErrInvalidField},
		{name: "month 12", year: 2080, month: 12, err: ErrInvalidField},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := DaysInMonth(tc.year, tc.month)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEpoch(t *testing.T) {
	t.Parallel()
	got, err := ToBS(date(1943, time.April, 14))
	require.NoError(t, err)
	assert.Equal(t, BSDate{Year: 2000, Month: Baisakh, Day: 1}, got)

	ad, err := ToGregorian(2000, Baisakh, 1)
	require.NoError(t, err)
	assert.Equal(t, date(1943, time.April, 14), ad)
	assert.Equal(t, time.Wednesday, EpochBS.Weekday())
}

func TestToBS(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in   time.Time
		want BSDate
	}{
		{in: date(2023, time.January, 1), want: BSDate{Year: 2079, Month: Poush, Day: 17}},
		{in: date(2023, time.April, 14), want: BSDate{Year: 2080, Month: Baisakh, Day: 1}},
		{in: date(2024, time.April, 13), want: BSDate{Year: 2081, Month: Baisakh, Day: 1}},
		{in: date(2000, time.January, 1), want: BSDate{Year: 2056, Month: Poush, Day: 17}},
		{in: date(2034, time.April, 13), want: BSDate{Year: 2090, Month: Chaitra, Day: 30}},
		// Only the calendar day counts, whatever the zone or clock.
		{in: time.Date(2023, time.January, 1, 23, 59, 0, 0, time.FixedZone("NPT", 5*3600+45*60)), want: BSDate{Year: 2079, Month: Poush, Day: 17}},
		{in: time.Date(2023, time.January, 1, 1, 0, 0, 0, time.FixedZone("UTC-8", -8*3600)), want: BSDate{Year: 2079, Month: Poush, Day: 17}},
	} {
		tc := tc
		t.Run(tc.in.Format(time.RFC3339), func(t *testing.T) {
			got, err := ToBS(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToBS_OutOfRange(t *testing.T) {
	t.Parallel()
	for _, in := range []time.Time{
		date(1943, time.April, 13),
		date(1900, time.January, 1),
		date(2034, time.April, 14),
		{},
	} {
		_, err := ToBS(in)
		require.ErrorIs(t, err, ErrYearOutOfRange, in.String())
	}
}

func TestToGregorian(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in   BSDate
		want time.Time
	}{
		{in: BSDate{Year: 2079, Month: Poush, Day: 17}, want: date(2023, time.January, 1)},
		{in: BSDate{Year: 2080, Month: Baisakh, Day: 1}, want: date(2023, time.April, 14)},
		{in: BSDate{Year: 2090, Month: Chaitra, Day: 30}, want: date(2034, time.April, 13)},
	} {
		got, err := ToGregorian(tc.in.Year, tc.in.Month, tc.in.Day)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestToGregorian_Invalid(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name string
		in   BSDate
		err  error
	}{
		{name: "year 1999", in: BSDate{Year: 1999, Month: Baisakh, Day: 1}, err: ErrYearOutOfRange},
		{name: "year 2091", in: BSDate{Year: 2091, Month: Baisakh, Day: 1}, err: ErrYearOutOfRange},
		{name: "month 12", in: BSDate{Year: 2080, Month: 12, Day: 1}, err: ErrInvalidField},
		{name: "day 0", in: BSDate{Year: 2080, Month: Baisakh, Day: 0}, err: ErrInvalidField},
		{name: "day 32 in 31 day month", in: BSDate{Year: 2080, Month: Baisakh, Day: 32}, err: ErrInvalidField},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToGregorian(tc.in.Year, tc.in.Month, tc.in.Day)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	var (
		prev   BSDate
		walked = EpochBS
		day    int
	)
	for year := MinYear; year <= MaxYear; year++ {
		for month := Baisakh; month <= Chaitra; month++ {
			n, err := DaysInMonth(year, month)
			require.NoError(t, err)
			for d := 1; d <= n; d++ {
				want := BSDate{Year: year, Month: month, Day: d}
				ad, err := ToGregorian(year, month, d)
				require.NoError(t, err)
				require.Equal(t, Epoch.AddDate(0, 0, day), ad, "%v", want)

				got, err := ToBS(ad)
				require.NoError(t, err)
				require.Equal(t, want, got)
				require.Equal(t, walked, got)
				require.Equal(t, ad.Weekday(), got.Weekday())
				if day > 0 {
					require.True(t, prev.Before(got), "%v before %v", prev, got)
				}
				prev = got
				day++
				if day < yearStart[len(yearStart)-1] {
					walked = step(walked)
				}
			}
		}
	}
	assert.Equal(t, LastDay(), Epoch.AddDate(0, 0, day-1))
}

func TestMonotonic(t *testing.T) {
	t.Parallel()
	prev, err := ToBS(Epoch)
	require.NoError(t, err)
	for v := Epoch.AddDate(0, 0, 1); !v.After(LastDay()); v = v.AddDate(0, 0, 1) {
		got, err := ToBS(v)
		require.NoError(t, err)
		require.Equal(t, step(prev), got, v.Format(time.DateOnly))
		prev = got
	}
}

func TestMonthLengths(t *testing.T) {
	t.Parallel()
	got, err := MonthLengths(2079)
	require.NoError(t, err)
	assert.Equal(t, [12]int{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, got)

	_, err = MonthLengths(2091)
	require.ErrorIs(t, err, ErrYearOutOfRange)
	_, err = YearLength(1999)
	require.ErrorIs(t, err, ErrYearOutOfRange)
}

func BenchmarkToBS(b *testing.B) {
	b.ReportAllocs()
	v := date(2023, time.January, 1)
	for i := 0; i < b.N; i++ {
		_, _ = ToBS(v)
	}
}
