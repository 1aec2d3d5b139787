// Package hhmm normalizes time-of-day values to the H*100+M integer
// encoding used by the ERP custom tables ("08:30" -> 830).
package hhmm

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse normalizes a free-form time-of-day string to an HHMM integer.
// Accepted forms are "H:MM", "HH:MM", "HMM" and "HHMM". Empty or
// unparseable input returns nil rather than an error, so one bad value
// never fails a whole record.
func Parse(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var hours, minutes int
	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil
		}
		hours, minutes = h, m
	} else {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		hours, minutes = v/100, v%100
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return nil
	}

	v := hours*100 + minutes
	return &v
}

// Format renders an HHMM integer as "HH:MM".
func Format(v int) string {
	return fmt.Sprintf("%02d:%02d", v/100, v%100)
}
