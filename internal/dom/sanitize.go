// internal/dom/sanitize.go
package dom

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	validFloatRe = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?$`)
	colorRe      = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	dateRe       = regexp.MustCompile(`^(\d{4,})-(\d{2})-(\d{2})$`)
	monthRe      = regexp.MustCompile(`^(\d{4,})-(\d{2})$`)
	weekRe       = regexp.MustCompile(`^(\d{4,})-W(\d{2})$`)
	timeRe       = regexp.MustCompile(`^(\d{2}):(\d{2})(:(\d{2})(\.\d{1,3})?)?$`)
)

// SanitizeValue applies the value sanitization algorithm of an input type.
func SanitizeValue(inputType, value string) string {
	switch inputType {
	case "text", "search", "tel", "password":
		return stripNewlines(value)
	case "url", "email":
		return strings.TrimSpace(stripNewlines(value))
	case "number":
		if IsValidFloat(value) {
			return value
		}
		return ""
	case "range":
		if IsValidFloat(value) {
			return value
		}
		return "50"
	case "color":
		if colorRe.MatchString(value) {
			return strings.ToLower(value)
		}
		return "#000000"
	case "date":
		if IsValidDate(value) {
			return value
		}
		return ""
	case "month":
		if IsValidMonth(value) {
			return value
		}
		return ""
	case "week":
		if IsValidWeek(value) {
			return value
		}
		return ""
	case "time":
		if IsValidTime(value) {
			return value
		}
		return ""
	case "datetime-local":
		if v, ok := normalizeDateTime(value); ok {
			return v
		}
		return ""
	}
	return value
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// IsValidFloat reports whether s is a valid floating-point number string.
func IsValidFloat(s string) bool {
	return validFloatRe.MatchString(s)
}

// IsValidDate reports whether s is a valid date string (YYYY-MM-DD).
func IsValidDate(s string) bool {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(year, month)
}

// IsValidMonth reports whether s is a valid month string (YYYY-MM).
func IsValidMonth(s string) bool {
	m := monthRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return year >= 1 && month >= 1 && month <= 12
}

// IsValidWeek reports whether s is a valid week string (YYYY-Www).
func IsValidWeek(s string) bool {
	m := weekRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if year < 1 || week < 1 {
		return false
	}
	// Years starting on Thursday, or leap years starting on Wednesday, have 53 weeks.
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Weekday()
	max := 52
	if jan1 == time.Thursday || (jan1 == time.Wednesday && daysIn(year, 2) == 29) {
		max = 53
	}
	return week <= max
}

// IsValidTime reports whether s is a valid time string (HH:MM[:SS[.sss]]).
func IsValidTime(s string) bool {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return false
	}
	if m[4] != "" {
		second, _ := strconv.Atoi(m[4])
		if second > 59 {
			return false
		}
	}
	return true
}

func normalizeDateTime(s string) (string, bool) {
	sep := strings.IndexAny(s, "T ")
	if sep < 0 {
		return "", false
	}
	date, clock := s[:sep], s[sep+1:]
	if !IsValidDate(date) || !IsValidTime(clock) {
		return "", false
	}
	return date + "T" + clock, true
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
