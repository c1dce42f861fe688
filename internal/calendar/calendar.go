// Package calendar enumerates the tradable delivery months.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Month is a delivery month; ordinal order is chronological order.
type Month int

const (
	Jan22 Month = iota
	Feb22
	Mar22
	Apr22
	May22
	Jun22
	Jul22
	Aug22
	Sep22
	Oct22
	Nov22
	Dec22
	Jan23
	Feb23
	Mar23
	Apr23
	May23
	Jun23
	Jul23
	Aug23
	Sep23
	Oct23
	Nov23
	Dec23
	Jan24
	Feb24
	Mar24
	Apr24
	May24
	Jun24
	Jul24
	Aug24
	Sep24
	Oct24
	Nov24
	Dec24
	size
)

const firstYear = 22

var ErrUnknownMonth = errors.New("calendar: unknown month")

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Size is the number of months in the calendar.
func Size() int { return int(size) }

func (m Month) Valid() bool { return m >= 0 && m < size }

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return fmt.Sprintf("%s%02d", monthNames[m%12], firstYear+int(m)/12)
}

// Parse accepts names such as "Jun23", case-insensitively.
func Parse(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, s)
	}
	idx := -1
	for i, n := range monthNames {
		if strings.EqualFold(n, s[:3]) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, s)
	}
	yy, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, s)
	}
	m := Month((yy-firstYear)*12 + idx)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %q out of range", ErrUnknownMonth, s)
	}
	return m, nil
}
