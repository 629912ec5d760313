package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// writeString writes to w and logs any error (helper for ICS generation)
func writeString(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}

// GenerateICS writes events as an iCalendar file of all-day entries.
// Query params alarm=HH:MM and alarmDays=N add a reminder to every entry.
func GenerateICS(w http.ResponseWriter, r *http.Request, date string, events []Event, stamp time.Time) {
	alarmTime := r.URL.Query().Get("alarm")
	alarmDays, err := strconv.Atoi(r.URL.Query().Get("alarmDays"))
	if err != nil || alarmDays < 0 {
		alarmDays = 0
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=events_%s.ics", date))

	writeString(w, "BEGIN:VCALENDAR\n")
	writeString(w, "VERSION:2.0\n")
	writeString(w, "PRODID:%s\n", ICSProductID)
	writeString(w, "X-WR-CALNAME:Events %s\n", date)
	writeString(w, "CALSCALE:GREGORIAN\n")

	for _, event := range events {
		eventDate, err := time.Parse(DateLayout, event.Date)
		if err != nil {
			continue
		}

		// All-day event
		writeString(w, "BEGIN:VEVENT\n")
		writeString(w, "UID:%d-%s@%s\n", event.ID, event.Date, ICSDomain)
		writeString(w, "DTSTAMP:%s\n", stamp.UTC().Format("20060102T150405Z"))
		writeString(w, "DTSTART;VALUE=DATE:%s\n", eventDate.Format("20060102"))
		writeString(w, "DTEND;VALUE=DATE:%s\n", eventDate.AddDate(0, 0, 1).Format("20060102"))
		writeString(w, "SUMMARY:%s\n", escapeICSText(event.Name))
		writeString(w, "DESCRIPTION:%s (added %s)\n", escapeICSText(event.Name), event.DateAdded)

		if alarmTime != "" {
			AddAlarm(w, eventDate, alarmDays, alarmTime, event.Name)
		}

		writeString(w, "END:VEVENT\n")
	}

	writeString(w, "END:VCALENDAR\n")
}

// AddAlarm adds a VALARM firing at alarmTime (HH:MM) daysBefore the event
func AddAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}

	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return
	}

	// Trigger is relative to the event start at 00:00
	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmDateTime := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)
	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)
	totalMinutes := int(alarmDateTime.Sub(eventStart).Minutes())

	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}

	days := totalMinutes / (24 * 60)
	remainingMinutes := totalMinutes % (24 * 60)

	writeString(w, "BEGIN:VALARM\n")
	writeString(w, "ACTION:DISPLAY\n")
	writeString(w, "DESCRIPTION:Reminder: %s\n", escapeICSText(description))
	writeString(w, "TRIGGER:%sP%dDT%dH%dM\n", sign, days, remainingMinutes/60, remainingMinutes%60)
	writeString(w, "END:VALARM\n")
}

// GenerateCSV writes events as CSV with a header row
func GenerateCSV(w http.ResponseWriter, date string, events []Event) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=events_%s.csv", date))

	cw := csv.NewWriter(w)
	rows := [][]string{{"id", "name", "date", "date_added"}}
	for _, e := range events {
		rows = append(rows, []string{strconv.Itoa(e.ID), e.Name, e.Date, e.DateAdded})
	}
	if err := cw.WriteAll(rows); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeICSText(s string) string {
	return icsEscaper.Replace(s)
}
