package mail

import (
	"bytes"
	"html/template"
	"time"
)

var funcs = template.FuncMap{
	// displayDate renders ISO dates as 2 January 2006 and leaves anything
	// else untouched.
	"displayDate": func(s string) string {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.Format("2 January 2006")
		}
		return s
	},
}

var (
	bookingConfirmationTmpl = template.Must(template.New("booking").Funcs(funcs).Parse(`<h2>Booking Confirmation</h2>
<p>Dear {{.Name}},</p>
<p>Thank you for requesting a booking with Dress2MyDoor!</p>
<h3>Booking Details:</h3>
<ul>
  <li><strong>Date:</strong> {{displayDate .Date}}</li>
  <li><strong>Time:</strong> {{.Time}}</li>
  <li><strong>Phone:</strong> {{.Phone}}</li>
</ul>
<p>We will confirm your appointment shortly. If you have any questions, please don't hesitate to contact us.</p>
<p>Best regards,<br/>Dress2MyDoor Team</p>
`))

	adminBookingTmpl = template.Must(template.New("admin-booking").Funcs(funcs).Parse(`<h2>New Booking Request</h2>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Phone:</strong> {{.Phone}}</li>
  <li><strong>Date:</strong> {{displayDate .Date}}</li>
  <li><strong>Time:</strong> {{.Time}}</li>
</ul>
{{if .Message}}<h3>Message:</h3>
<p>{{.Message}}</p>
{{end}}`))

	contactConfirmationTmpl = template.Must(template.New("contact").Parse(`<h2>Message Received</h2>
<p>Dear {{.Name}},</p>
<p>Thank you for contacting Dress2MyDoor! We have received your message and will get back to you as soon as possible.</p>
<h3>Your Message:</h3>
<p>{{.Message}}</p>
<p>We appreciate your interest and will respond within 24-48 hours.</p>
<p>Best regards,<br/>Dress2MyDoor Team</p>
`))

	adminContactTmpl = template.Must(template.New("admin-contact").Parse(`<h2>New Contact Form Submission</h2>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Phone:</strong> {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</li>
</ul>
<h3>Message:</h3>
<p>{{.Message}}</p>
`))
)

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
