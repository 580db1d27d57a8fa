package ical

import (
	"strings"
	"testing"
	"time"
)

func TestEscape(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A; B, C\nD", `A\; B\, C\nD`},
		{`back\slash`, `back\\slash`},
		{"crlf\r\nhere", `crlf\nhere`},
		{"bare\rcr", `bare\ncr`},
		{"plain text", "plain text"},
	}

	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	cal := Calendar{
		ProdID: "Kavanagh BL",
		Name:   "Consultations",
		Events: []Event{
			{
				UID:         "booking-1@example.com",
				Stamp:       start,
				Start:       start,
				End:         start.Add(30 * time.Minute),
				Summary:     "Consultation - Aoife; Byrne",
				Description: "Intake Ref: abc\nSee CRM for details.",
				Location:    "The Distillery Building, Dublin 7",
			},
		},
	}

	out := cal.Render()

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n") {
		t.Fatal("calendar must open with BEGIN:VCALENDAR and VERSION on CRLF lines")
	}
	if !strings.HasSuffix(out, "END:VCALENDAR") {
		t.Fatal("calendar must close with END:VCALENDAR")
	}
	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Fatal("all line endings must be CRLF")
	}

	for _, want := range []string{
		"DTSTART:20260914T090000Z",
		"DTEND:20260914T093000Z",
		`SUMMARY:Consultation - Aoife\; Byrne`,
		`DESCRIPTION:Intake Ref: abc\nSee CRM for details.`,
		"STATUS:CONFIRMED",
		"X-WR-TIMEZONE:UTC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered calendar missing %q", want)
		}
	}
}

func TestRenderConvertsToUTC(t *testing.T) {
	dublin, err := time.LoadLocation("Europe/Dublin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// Irish summer time is UTC+1.
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, dublin)

	cal := Calendar{
		ProdID: "Kavanagh BL",
		Name:   "Consultations",
		Events: []Event{{UID: "u", Stamp: start, Start: start, End: start.Add(time.Hour)}},
	}

	if !strings.Contains(cal.Render(), "DTSTART:20260701T090000Z") {
		t.Fatal("local instants must be emitted in UTC")
	}
}
