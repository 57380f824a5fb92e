package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when user input is not a valid calendar day.
var ErrInvalidDate = errors.New("invalid date")

const (
	isoDateLayout    = "2006-01-02"
	germanDateLayout = "02.01.2006"
)

// Date is a calendar day without a time component. It is stored as
// YYYY-MM-DD text so rows written by earlier versions of the bot stay readable.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate normalises y-m-d the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// ParseDate accepts TT.MM.JJJJ (day and month may have one digit) and
// YYYY-MM-DD. Dates that do not exist, like 31.02.2024, are rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	var y, m, d int
	var err error
	switch {
	case strings.Count(s, ".") == 2:
		parts := strings.Split(s, ".")
		d, m, y, err = atoi3(parts[0], parts[1], parts[2])
	case strings.Count(s, "-") == 2:
		parts := strings.Split(s, "-")
		y, m, d, err = atoi3(parts[0], parts[1], parts[2])
	default:
		err = ErrInvalidDate
	}
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if y < 1000 || y > 9999 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	date := NewDate(y, time.Month(m), d)
	if date.year != y || int(date.month) != m || date.day != d {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

func atoi3(a, b, c string) (int, int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

func (d Date) ordinal() int {
	return d.year*10000 + int(d.month)*100 + d.day
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(other Date) bool { return d.ordinal() < other.ordinal() }

func (d Date) After(other Date) bool { return d.ordinal() > other.ordinal() }

// AddDays returns the day n days after d.
func (d Date) AddDays(n int) Date {
	return NewDate(d.year, d.month, d.day+n)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time(time.UTC).Format(isoDateLayout)
}

// German formats d as TT.MM.JJJJ for display.
func (d Date) German() string {
	return d.Time(time.UTC).Format(germanDateLayout)
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanText(string(v))
	case string:
		return d.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(isoDateLayout) {
		s = s[:len(isoDateLayout)]
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
