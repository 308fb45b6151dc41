package invoice

import (
	"strings"
	"time"

	"github.com/aqua-invoicing/pkg/ierr"
)

const (
	// ISOLayout is the wire format for invoice dates.
	ISOLayout = "2006-01-02"
	// DisplayLayout is how dates are printed on the document: DD-MM-YYYY.
	DisplayLayout = "02-01-2006"
)

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate returns the calendar date y-m-d.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp; a timestamp keeps the
// calendar date in its own offset.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(ISOLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, ierr.WithError(err).
			WithHintf("invalid date %q, expected YYYY-MM-DD", s).
			Mark(ierr.ErrValidation)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// Display formats the date as DD-MM-YYYY.
func (d Date) Display() string {
	return d.Time.Format(DisplayLayout)
}

func (d Date) String() string {
	return d.Time.Format(ISOLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
