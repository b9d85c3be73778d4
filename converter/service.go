package converter

import (
	"fmt"
	"time"

	"github.com/thansetan/patro/calendar"
	"github.com/thansetan/patro/model"
)

const (
	CalendarAD = "ad"
	CalendarBS = "bs"
)

type converterService struct{}

func NewService() *converterService {
	return &converterService{}
}

func (s *converterService) ToBS(date time.Time) (model.Conversion, error) {
	var data model.Conversion
	bs, err := calendar.ToBS(date)
	if err != nil {
		return data, fmt.Errorf("convert to bs: %w", err)
	}
	ad, err := calendar.ToGregorian(bs.Year, bs.Month, bs.Day)
	if err != nil {
		return data, fmt.Errorf("convert back to ad: %w", err)
	}
	data.AD = model.NewADDate(ad)
	data.BS = model.NewBSDate(bs)
	return data, nil
}

func (s *converterService) ToAD(year int, month calendar.Month, day int) (model.Conversion, error) {
	var data model.Conversion
	ad, err := calendar.ToGregorian(year, month, day)
	if err != nil {
		return data, fmt.Errorf("convert to ad: %w", err)
	}
	data.AD = model.NewADDate(ad)
	data.BS = model.NewBSDate(calendar.BSDate{Year: year, Month: month, Day: day})
	return data, nil
}

func (s *converterService) GregorianAge(birth, today time.Time) (model.Age, error) {
	age, err := calendar.GregorianAge(birth, today)
	if err != nil {
		return model.Age{}, fmt.Errorf("calculate ad age: %w", err)
	}
	return model.Age{Age: age, Calendar: CalendarAD, Formatted: age.String()}, nil
}

func (s *converterService) BSAge(birth calendar.BSDate, today time.Time) (model.Age, error) {
	age, err := calendar.BSAge(birth, today)
	if err != nil {
		return model.Age{}, fmt.Errorf("calculate bs age: %w", err)
	}
	return model.Age{Age: age, Calendar: CalendarBS, Formatted: age.String()}, nil
}

func (s *converterService) Year(year int) (model.YearInfo, error) {
	var data model.YearInfo
	lengths, err := calendar.MonthLengths(year)
	if err != nil {
		return data, fmt.Errorf("get month lengths: %w", err)
	}
	start, err := calendar.ToGregorian(year, calendar.Baisakh, 1)
	if err != nil {
		return data, fmt.Errorf("get first day: %w", err)
	}
	data.Year = year
	data.Start = model.NewADDate(start)
	data.Months = make([]model.Month, 0, len(lengths))
	for i, days := range lengths {
		data.Days += days
		data.Months = append(data.Months, model.Month{
			Index: i,
			Name:  calendar.Month(i).String(),
			Days:  days,
		})
	}
	return data, nil
}
