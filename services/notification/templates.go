package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"barkbox/models"
)

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: {{.Accent}}; color: white; text-align: center; padding: 10px; }
        .content { background-color: #f4f4f4; padding: 20px; }
        .footer { text-align: center; color: #777; margin-top: 20px; }
        .status-badge { display: inline-block; padding: 5px 10px; border-radius: 5px; font-weight: bold; color: white; }
        .status-pending { background-color: #FFC107; }
        .status-confirmed { background-color: #4CAF50; }
        .status-completed { background-color: #2196F3; }
        .status-cancelled { background-color: #F44336; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>{{.Title}}</h1></div>
        <div class="content">
            <h2>Hello {{.Owner.FirstName}},</h2>
            {{template "body" .}}
        </div>
        <div class="footer"><p>&copy; {{.Year}} BarkBox Services. All rights reserved.</p></div>
    </div>
</body>
</html>{{end}}`

const createdHTML = `{{define "body"}}<p>Your booking has been successfully created with the following details:</p>
            <ul>
                <li><strong>Service:</strong> {{.Booking.Service}}</li>
                <li><strong>Pet Name:</strong> {{.Booking.PetName}}</li>
                <li><strong>Appointment Date:</strong> {{.Date}}</li>
                <li><strong>Appointment Time:</strong> {{.Booking.AppointmentTime}}</li>
                <li><strong>Status:</strong> {{.Booking.Status}}</li>
            </ul>
            <p>Thank you for choosing our service!</p>{{end}}`

const statusHTML = `{{define "body"}}<p>The status of your booking has been updated:</p>
            <ul>
                <li><strong>Service:</strong> {{.Booking.Service}}</li>
                <li><strong>Pet Name:</strong> {{.Booking.PetName}}</li>
                <li><strong>Appointment Date:</strong> {{.Date}} {{.Booking.AppointmentTime}}</li>
                <li><strong>Status:</strong> <span class="status-badge status-{{.Booking.Status}}">{{.StatusLabel}}</span></li>
            </ul>
            {{if .Booking.Notes}}<p><strong>Additional Notes:</strong> {{.Booking.Notes}}</p>{{end}}
            <p>Thank you for your continued trust!</p>{{end}}`

var (
	createdTmpl = template.Must(template.Must(template.New("created").Parse(layoutHTML)).Parse(createdHTML))
	statusTmpl  = template.Must(template.Must(template.New("status").Parse(layoutHTML)).Parse(statusHTML))
)

type emailView struct {
	Title       string
	Accent      template.CSS
	Owner       *models.PersonSummary
	Booking     *models.Booking
	Date        string
	StatusLabel string
	Year        int
}

func newEmailView(title string, accent template.CSS, b *models.Booking, owner *models.PersonSummary) emailView {
	return emailView{
		Title:       title,
		Accent:      accent,
		Owner:       owner,
		Booking:     b,
		Date:        b.AppointmentDate.Format("January 2, 2006"),
		StatusLabel: strings.ToUpper(string(b.Status)),
		Year:        b.UpdatedAt.Year(),
	}
}

// RenderBookingCreated renders the confirmation sent after a booking is made.
func RenderBookingCreated(b *models.Booking, owner *models.PersonSummary) (Message, error) {
	var buf bytes.Buffer
	view := newEmailView("Booking Confirmation", "#4CAF50", b, owner)
	if err := createdTmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return Message{}, fmt.Errorf("failed to render booking created email: %w", err)
	}
	return Message{To: owner.Email, Subject: "Booking Confirmation - BarkBox Services", HTML: buf.String()}, nil
}

// RenderBookingStatus renders the status update email.
func RenderBookingStatus(b *models.Booking, owner *models.PersonSummary) (Message, error) {
	var buf bytes.Buffer
	view := newEmailView("Booking Status Update", "#2196F3", b, owner)
	if err := statusTmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return Message{}, fmt.Errorf("failed to render booking status email: %w", err)
	}
	return Message{
		To:      owner.Email,
		Subject: "Booking Status Update - " + view.StatusLabel,
		HTML:    buf.String(),
	}, nil
}
