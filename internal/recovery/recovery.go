// Package recovery rebuilds appointment records from sent confirmation emails
// when the primary store has been lost.
package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const SourceEmail = "email"

var ErrNotAppointmentEmail = errors.New("recovery: email does not describe an appointment")

// Record is the minimal shape of an appointment recovered from an outside source.
type Record struct {
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	Service       string    `json:"service"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Source        string    `json:"source"`
	SourceID      string    `json:"source_id"`
	SentAt        time.Time `json:"sent_at"`
}

// SentEmail is one entry of a mail provider export.
type SentEmail struct {
	ID        string    `json:"id"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	subjectRe = regexp.MustCompile(`^(Potvrzení|Připomínka) rezervace:`)
	greetRe   = regexp.MustCompile(`(?m)^Dobrý den, (.+),\s*$`)
	serviceRe = regexp.MustCompile(`(?m)^Služba:\s*(.+?)\s*$`)
	slotRe    = regexp.MustCompile(`(?m)^Termín:\s*(?:\S+\s+)?(\d{1,2})\.\s*(\d{1,2})\.\s*(\d{4})\s+v\s+(\d{1,2}):(\d{2})`)
)

// ExtractFromEmail pulls booking fields out of a confirmation or reminder body.
// Status update emails are ignored: they repeat data already carried by the confirmation.
func ExtractFromEmail(subject, text string) (Record, error) {
	if !subjectRe.MatchString(strings.TrimSpace(subject)) {
		return Record{}, ErrNotAppointmentEmail
	}

	var rec Record
	if m := greetRe.FindStringSubmatch(text); m != nil {
		rec.CustomerName = strings.TrimSpace(m[1])
	}
	if m := serviceRe.FindStringSubmatch(text); m != nil {
		rec.Service = m[1]
	}

	m := slotRe.FindStringSubmatch(text)
	if m == nil || rec.Service == "" {
		return Record{}, ErrNotAppointmentEmail
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month || hour > 23 || minute > 59 {
		return Record{}, fmt.Errorf("%w: invalid date %s.%s.%s", ErrNotAppointmentEmail, m[1], m[2], m[3])
	}
	rec.Date = d.Format(time.DateOnly)
	rec.Time = fmt.Sprintf("%02d:%02d", hour, minute)
	rec.Source = SourceEmail
	return rec, nil
}

// FromExport reads a JSON array of sent emails and writes one JSON record per line.
// Several emails about the same booking collapse into one record, keeping the earliest.
func FromExport(r io.Reader, w io.Writer) (written, skipped int, err error) {
	var emails []SentEmail
	if err := json.NewDecoder(r).Decode(&emails); err != nil {
		return 0, 0, fmt.Errorf("recovery: decode export: %w", err)
	}

	seen := make(map[string]bool, len(emails))
	enc := json.NewEncoder(w)
	for _, e := range emails {
		rec, err := ExtractFromEmail(e.Subject, e.Text)
		if err != nil {
			skipped++
			continue
		}
		if len(e.To) > 0 {
			rec.CustomerEmail = strings.ToLower(strings.TrimSpace(e.To[0]))
		}
		rec.SourceID = e.ID
		rec.SentAt = e.CreatedAt

		key := rec.CustomerEmail + "|" + rec.Date + "|" + rec.Time
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		if err := enc.Encode(rec); err != nil {
			return written, skipped, fmt.Errorf("recovery: write record: %w", err)
		}
		written++
	}
	return written, skipped, nil
}
