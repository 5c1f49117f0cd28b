package banksalad

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Excel's 1900 date system counts days from an epoch that, combined with the
// fictitious 1900-02-29, works out to 1899-12-30 for serials above 59.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var koreanDateRe = regexp.MustCompile(`^(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일?$`)
var koreanTimeRe = regexp.MustCompile(`^(오전|오후)\s*(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)
var clockTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)

// parseDate accepts Excel serial numbers, Korean 년/월/일 text, and
// year-first or day-first strings with ".", "/" or "-" separators.
// Results are memoized per parse call.
func parseDate(cell string, cache map[string]time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return time.Time{}, false
	}

	if cached, ok := cache[trimmed]; ok {
		return cached, !cached.IsZero()
	}

	parsed, ok := parseDateUncached(trimmed)
	if ok {
		cache[trimmed] = parsed
	} else {
		cache[trimmed] = time.Time{}
	}

	return parsed, ok
}

func parseDateUncached(s string) (time.Time, bool) {
	// Excel serial. Serials at or below 59 predate the 1900 leap-year bug
	// and never appear in real statement exports, so they are rejected.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 59 || serial > 2958465 { // 9999-12-31
			return time.Time{}, false
		}
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}

	if m := koreanDateRe.FindStringSubmatch(s); m != nil {
		return makeDate(m[1], m[2], m[3])
	}

	var parts []string
	for _, sep := range []string{".", "/", "-"} {
		if strings.Contains(s, sep) {
			parts = strings.Split(s, sep)
			break
		}
	}

	if len(parts) != 3 {
		return time.Time{}, false
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Year-first when the leading part is four digits, day-first otherwise.
	if len(parts[0]) == 4 {
		return makeDate(parts[0], parts[1], parts[2])
	}

	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}

	return makeDate(year, parts[1], parts[0])
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 1); reject those.
	if t.Day() != d || t.Month() != time.Month(m) {
		return time.Time{}, false
	}

	return t, true
}

// parseTimeOfDay returns seconds since midnight. Accepts 24-hour HH:MM[:SS]
// text, Korean 오전/오후 12-hour text, and Excel fractional-day serials.
func parseTimeOfDay(cell string) (int, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false
	}

	if m := koreanTimeRe.FindStringSubmatch(trimmed); m != nil {
		hour, _ := strconv.Atoi(m[2])
		minute, _ := strconv.Atoi(m[3])
		second := 0
		if m[4] != "" {
			second, _ = strconv.Atoi(m[4])
		}

		if hour < 1 || hour > 12 || minute > 59 || second > 59 {
			return 0, false
		}

		// 오전 12시 is midnight, 오후 12시 is noon.
		if hour == 12 {
			hour = 0
		}
		if m[1] == "오후" {
			hour += 12
		}

		return hour*3600 + minute*60 + second, true
	}

	if m := clockTimeRe.FindStringSubmatch(trimmed); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		second := 0
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}

		if hour > 23 || minute > 59 || second > 59 {
			return 0, false
		}

		return hour*3600 + minute*60 + second, true
	}

	// Fractional-day serial. A datetime serial keeps only its fraction.
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil && serial >= 0 {
		frac := serial - float64(int64(serial))
		return int(frac * 86400), true
	}

	return 0, false
}
