package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// BookingEmailData fills the booking notification templates.
type BookingEmailData struct {
	BookingID    string
	Email        string // patient address, used as Reply-To on clinic mail
	ClinicName   string
	CustomerName string
	Phone        string
	Date         string // formatted in the clinic timezone
	Status       string
	Notes        string
}

var (
	statusText = texttemplate.Must(texttemplate.New("status").Parse(`Hello {{.CustomerName}},

Your appointment at {{.ClinicName}} on {{.Date}} has been {{.Status}}.
{{if eq .Status "confirmed"}}
Please arrive ten minutes early and bring any previous reports.
{{else}}
If you would like another time, please submit a new request or call the clinic.
{{end}}
{{.ClinicName}}
`))

	statusHTML = htmltemplate.Must(htmltemplate.New("status").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0f766e;">Hello {{.CustomerName}},</h2>
    <p>Your appointment at <strong>{{.ClinicName}}</strong> on <strong>{{.Date}}</strong> has been <strong>{{.Status}}</strong>.</p>
    {{if eq .Status "confirmed"}}<p>Please arrive ten minutes early and bring any previous reports.</p>
    {{else}}<p>If you would like another time, please submit a new request or call the clinic.</p>{{end}}
    <p style="color: #666; font-size: 14px;">{{.ClinicName}}</p>
</body>
</html>`))

	newRequestText = texttemplate.Must(texttemplate.New("new-request").Parse(`New online booking request

Name:  {{.CustomerName}}
Phone: {{.Phone}}
Date:  {{.Date}}
{{if .Notes}}Notes: {{.Notes}}
{{end}}`))
)

func clinicName(data BookingEmailData) string {
	if data.ClinicName == "" {
		return "the clinic"
	}
	return data.ClinicName
}

// BuildBookingStatusEmail tells a patient their booking changed status.
func BuildBookingStatusEmail(to string, data BookingEmailData) (Message, error) {
	data.ClinicName = clinicName(data)

	var text, html bytes.Buffer
	if err := statusText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render status text: %w", err)
	}
	if err := statusHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render status html: %w", err)
	}

	return Message{
		To:        []string{to},
		Subject:   fmt.Sprintf("Your appointment has been %s", data.Status),
		TextBody:  text.String(),
		HTMLBody:  html.String(),
		BookingID: data.BookingID,
	}, nil
}

// BuildNewRequestEmail notifies the clinic inbox of a new online request.
func BuildNewRequestEmail(to string, data BookingEmailData) (Message, error) {
	var text bytes.Buffer
	if err := newRequestText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render new request text: %w", err)
	}
	return Message{
		To:        []string{to},
		ReplyTo:   data.Email,
		Subject:   fmt.Sprintf("New booking request from %s", data.CustomerName),
		TextBody:  text.String(),
		BookingID: data.BookingID,
	}, nil
}
