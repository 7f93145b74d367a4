package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultTruncateLength = 280
	Ellipsis              = "…"
)

var relativeDatePattern = regexp.MustCompile(`^(\d+)(y|mo|w|d|h|m|s)(?:\s+.*)?$`)

var relativeDateUnits = map[string]string{
	"y":  "year",
	"mo": "month",
	"w":  "week",
	"d":  "day",
	"h":  "hour",
	"m":  "minute",
	"s":  "second",
}

// FormatRelativeDate turns compact stamps such as "3d" or "1mo Edited" into
// "3 days ago" and "1 month ago". Anything else is returned unchanged.
func FormatRelativeDate(s string) string {
	match := relativeDatePattern.FindStringSubmatch(s)
	if match == nil {
		return s
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return s
	}

	unit := relativeDateUnits[match[2]]
	if value != 1 {
		unit += "s"
	}

	return strconv.Itoa(value) + " " + unit + " ago"
}

// TruncateText shortens text to at most maxLength runes of visible content,
// cutting at the last whitespace at or before the limit and appending an
// ellipsis. Without such whitespace the cut is made at the limit.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultTruncateLength
	}

	if utf8.RuneCountInString(strings.TrimSuffix(text, Ellipsis)) <= maxLength {
		return text
	}

	runes := []rune(text)
	cutoff := maxLength
	for i := min(maxLength, len(runes)-1); i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cutoff = i
			break
		}
	}

	kept := strings.TrimRightFunc(string(runes[:cutoff]), unicode.IsSpace)
	if kept == "" {
		kept = string(runes[:maxLength])
	}

	return kept + Ellipsis
}

func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func cleanName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// cleanCount keeps the leading decimal digits of s, or nothing when s does
// not start with a number.
func cleanCount(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	if _, err := strconv.Atoi(s[:end]); err != nil {
		return ""
	}
	return s[:end]
}

func cleanRelativeDate(s string) string {
	return FormatRelativeDate(cleanName(s))
}
