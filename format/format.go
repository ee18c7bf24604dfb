package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DefaultFilenameLength is the maximum length SanitizeFilename keeps when the
// caller passes a non-positive limit.
const DefaultFilenameLength = 50

const (
	timestampLayout = "20060102_150405"
	displayLayout   = "2006-01-02 15:04:05"
)

// SafeString converts v to a string, mapping nil to "".
func SafeString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case float64:
		// JSON numbers decode as float64; integral values print without a fraction.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprint(val)
	}
}

// SanitizeFilename replaces every rune that is not a letter or digit with an
// underscore and truncates the result to maxLength runes.
func SanitizeFilename(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultFilenameLength
	}

	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == maxLength {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}

// Timestamp formats t for use inside filenames (YYYYMMDD_HHMMSS).
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// DisplayTime formats t for humans (YYYY-MM-DD HH:MM:SS).
func DisplayTime(t time.Time) string {
	return t.Format(displayLayout)
}

// Seconds renders d as seconds with two decimals, e.g. "3.50".
func Seconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}

// Duration renders d as "12.34 seconds" below one minute and
// "2 minutes and 3.00 seconds" above.
func Duration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.2f seconds", secs)
	}
	minutes := int(secs / 60)
	remaining := secs - float64(minutes)*60
	return fmt.Sprintf("%d minutes and %.2f seconds", minutes, remaining)
}
