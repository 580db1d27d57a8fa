// Package ical renders RFC 5545 calendar documents for the private
// booking feed.
package ical

import (
	"strings"
	"time"
)

const timestampLayout = "20060102T150405Z"

type Event struct {
	UID         string
	Stamp       time.Time
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	Location    string
}

type Calendar struct {
	ProdID string
	Name   string
	Events []Event
}

// Escape protects text for iCalendar fields. Order matters: backslash
// first, then semicolon, comma, and the newline variants.
func Escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, ";", `\;`)
	text = strings.ReplaceAll(text, ",", `\,`)
	text = strings.ReplaceAll(text, "\r\n", `\n`)
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\n`)
	return text
}

// Render produces the full VCALENDAR document with CRLF line endings.
// Instants are emitted in UTC.
func (cal *Calendar) Render() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//" + Escape(cal.ProdID) + "//Booking Calendar//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + Escape(cal.Name),
		"X-WR-TIMEZONE:UTC",
	}

	for _, ev := range cal.Events {
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+ev.UID,
			"DTSTAMP:"+ev.Stamp.UTC().Format(timestampLayout),
			"DTSTART:"+ev.Start.UTC().Format(timestampLayout),
			"DTEND:"+ev.End.UTC().Format(timestampLayout),
			"SUMMARY:"+Escape(ev.Summary),
			"DESCRIPTION:"+Escape(ev.Description),
			"LOCATION:"+Escape(ev.Location),
			"STATUS:CONFIRMED",
			"TRANSP:OPAQUE",
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")

	return strings.Join(lines, "\r\n")
}
