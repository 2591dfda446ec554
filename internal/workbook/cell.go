package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// Layouts tried when classifying a cell as a timestamp, most specific first.
// Time-only layouts parse onto the zero date, which is how a column of bare
// times is later recognized.
var (
	dateTimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006/01/02 15:04:05",
		"1/2/2006 15:04:05",
		"01/02/2006 15:04:05",
		"1/2/2006 15:04",
		"2006-01-02 15:04",
		"1/2/2006 3:04 PM",
	}
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"2006.01.02",
		"01/02/2006",
		"1/2/2006",
		"01-02-2006",
		"1-2-2006",
		"01.02.2006",
		"1.2.2006",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
	timeLayouts = []string{
		"15:04:05",
		"15:04",
		"3:04:05 PM",
		"3:04 PM",
	}
)

var boolWords = map[string]bool{
	"true":  true,
	"t":     true,
	"yes":   true,
	"y":     true,
	"false": false,
	"f":     false,
	"no":    false,
	"n":     false,
}

// ParseCell classifies one raw cell string into the typed cell model.
//
// Order matters: integer before float so "42" stays integral, both before
// boolean so "1"/"0" read as numbers, timestamp before the text fallback.
// Empty or whitespace-only input is null.
func ParseCell(raw string) sheetport.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return sheetport.NullCell()
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sheetport.IntCell(v)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return sheetport.FloatCell(v)
	}
	if v, ok := boolWords[strings.ToLower(s)]; ok {
		return sheetport.BoolCell(v)
	}
	if t, ok := parseTimestamp(s); ok {
		return sheetport.TimestampCell(t)
	}

	return sheetport.TextCell(s)
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
