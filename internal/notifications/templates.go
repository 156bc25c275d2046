package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
)

var czechWeekdays = [...]string{"neděle", "pondělí", "úterý", "středa", "čtvrtek", "pátek", "sobota"}

var statusLabels = map[domain.AppointmentStatus]string{
	domain.StatusPending:   "čeká na potvrzení",
	domain.StatusConfirmed: "potvrzena",
	domain.StatusCancelled: "zrušena",
}

// view данные для шаблонов
type view struct {
	ShopName        string
	CustomerName    string
	Service         string
	DurationMinutes int
	Price           int
	DateLabel       string
	Time            string
	Status          string
	Notes           string
}

type rendered struct {
	Subject string
	HTML    string
	Text    string
}

const htmlLayout = `<!DOCTYPE html>
<html lang="cs"><body style="font-family:sans-serif">
<h2>{{.Title}}</h2>
<p>Dobrý den, {{.V.CustomerName}},</p>
<p>{{.Lead}}</p>
<table>
<tr><td>Služba:</td><td><strong>{{.V.Service}}</strong></td></tr>
<tr><td>Termín:</td><td>{{.V.DateLabel}} v {{.V.Time}}</td></tr>
<tr><td>Délka:</td><td>{{.V.DurationMinutes}} min</td></tr>
{{if .V.Price}}<tr><td>Cena:</td><td>{{.V.Price}} Kč</td></tr>{{end}}
{{if .V.Status}}<tr><td>Stav:</td><td>{{.V.Status}}</td></tr>{{end}}
</table>
{{if .V.Notes}}<p>Poznámka: {{.V.Notes}}</p>{{end}}
<p>Online zrušení je možné nejpozději 24 hodin před termínem.</p>
<p>{{.V.ShopName}}</p>
</body></html>`

const textLayout = `{{.Title}}

Dobrý den, {{.V.CustomerName}},
{{.Lead}}

Služba: {{.V.Service}}
Termín: {{.V.DateLabel}} v {{.V.Time}}
Délka: {{.V.DurationMinutes}} min
{{if .V.Price}}Cena: {{.V.Price}} Kč
{{end}}{{if .V.Status}}Stav: {{.V.Status}}
{{end}}{{if .V.Notes}}Poznámka: {{.V.Notes}}
{{end}}
Online zrušení je možné nejpozději 24 hodin před termínem.
{{.V.ShopName}}
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlLayout))
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textLayout))
)

type page struct {
	Title string
	Lead  string
	V     view
}

func newView(shopName string, a *domain.Appointment) view {
	quote := catalog.Resolve(a.ServiceName)
	v := view{
		ShopName:        shopName,
		CustomerName:    a.CustomerName,
		Service:         quote.Name,
		DurationMinutes: quote.DurationMinutes,
		Price:           quote.Price,
		DateLabel:       dateLabel(a.Date),
		Time:            a.Time,
	}
	if a.Notes != nil {
		v.Notes = *a.Notes
	}
	return v
}

func dateLabel(date string) string {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d. %d. %d", czechWeekdays[d.Weekday()], d.Day(), int(d.Month()), d.Year())
}

func render(kind domain.NotificationKind, shopName string, a *domain.Appointment) (rendered, error) {
	v := newView(shopName, a)
	p := page{V: v}

	var subject string
	switch kind {
	case domain.NotificationConfirmation:
		subject = fmt.Sprintf("Potvrzení rezervace: %s %s", v.DateLabel, v.Time)
		p.Title = "Děkujeme za rezervaci"
		p.Lead = "vaši rezervaci jsme přijali."
	case domain.NotificationReminder:
		subject = fmt.Sprintf("Připomínka rezervace: %s %s", v.DateLabel, v.Time)
		p.Title = "Připomínka termínu"
		p.Lead = "připomínáme vám zítřejší termín."
	case domain.NotificationStatusUpdate:
		p.V.Status = statusLabels[a.Status]
		subject = fmt.Sprintf("Rezervace %s: %s %s", p.V.Status, v.DateLabel, v.Time)
		p.Title = "Změna stavu rezervace"
		p.Lead = "stav vaší rezervace se změnil."
	default:
		return rendered{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, p); err != nil {
		return rendered{}, fmt.Errorf("render html: %w", err)
	}
	if err := textTmpl.Execute(&text, p); err != nil {
		return rendered{}, fmt.Errorf("render text: %w", err)
	}

	return rendered{Subject: subject, HTML: html.String(), Text: strings.TrimSpace(text.String()) + "\n"}, nil
}
