package invoice

import (
	"regexp"
	"strconv"
	"strings"
)

var dayCount = regexp.MustCompile(`(?i)(\d+)\s*day`)

// maxTermDays bounds the credit period; larger counts are treated like
// unreadable terms.
const maxTermDays = 36500

// DueDate derives the due date from the payment terms. Cash on delivery or blank
// terms have no due date. "N days" gives date+N for N up to a hundred years. Any
// other terms fall back to the invoice date itself.
func DueDate(date Date, terms string) (Date, bool) {
	t := strings.TrimSpace(terms)
	if t == "" || strings.EqualFold(t, "COD") {
		return Date{}, false
	}
	m := dayCount.FindStringSubmatch(t)
	if m == nil {
		return date, true
	}
	days, err := strconv.Atoi(m[1])
	if err != nil || days > maxTermDays {
		return date, true
	}
	return date.AddDays(days), true
}

// DueDate is DueDate(inv.Date, inv.Terms).
func (inv Invoice) DueDate() (Date, bool) {
	return DueDate(inv.Date, inv.Terms)
}
