package httpkit

import (
	"fmt"
	"time"
)

// AmzDate is the parsed form of an x-amz-date / X-Amz-Date value
// (YYYYMMDDTHHMMSSZ). Each field is kept separately so the two derived
// string forms (full ISO-ish timestamp and the bare date stamp used in
// the credential scope) can be re-emitted without reformatting through
// time.Time.
type AmzDate struct {
	Year, Month, Day, Hour, Minute, Second int
}

// ParseAmzDate parses "20060102T150405Z". It rejects anything containing
// non-digits in the numeric positions, a wrong-length string, or a value
// that doesn't round-trip through the standard library's calendar
// validation (e.g. month 13, February 30).
func ParseAmzDate(s string) (AmzDate, error) {
	if len(s) != 16 || s[8] != 'T' || s[15] != 'Z' {
		return AmzDate{}, fmt.Errorf("httpkit: malformed amz-date %q", s)
	}
	digits := s[0:8] + s[9:15]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return AmzDate{}, fmt.Errorf("httpkit: non-digit in amz-date %q", s)
		}
	}
	t, err := time.Parse("20060102T150405Z", s)
	if err != nil {
		return AmzDate{}, fmt.Errorf("httpkit: invalid amz-date %q: %w", s, err)
	}
	return AmzDate{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}, nil
}

// ISO8601 re-emits the full "YYYYMMDDTHHMMSSZ" form, as used in the
// string-to-sign.
func (d AmzDate) ISO8601() string {
	return fmt.Sprintf("%04d%02d%02dT%02d%02d%02dZ", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// DateStamp re-emits the bare "YYYYMMDD" form used in the credential
// scope and as the HMAC date key input.
func (d AmzDate) DateStamp() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Time returns the UTC time.Time this date represents.
func (d AmzDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)
}
