package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// layout 通用外框，各模板只填充 content
const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #667eea; color: #fff; padding: 24px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1>{{.Club}}</h1>
    <h2>{{.Title}}</h2>
  </div>
  <div style="background: #f8f9fa; padding: 24px; border-radius: 0 0 10px 10px;">
    {{template "content" .}}
    <p style="text-align: center; color: #666; font-size: 14px;">Best regards,<br><strong>Team {{.Club}}</strong><br>{{.SiteURL}}</p>
  </div>
</body>
</html>{{end}}`

const registrationReceived = `{{define "content"}}
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Thank you for registering for <strong>{{.Event}}</strong>. We have received your registration and are waiting for payment confirmation.</p>
<h3>Registration Details</h3>
<p><strong>Name:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}<br>
<strong>Roll Number:</strong> {{.RollNo}}<br>
<strong>Event:</strong> {{.Event}}<br>
<strong>Amount:</strong> ₹{{.Amount}}<br>
<strong>Status:</strong> Pending Payment</p>
{{if .Handle}}<h3>Complete Your Payment</h3>
<p>Pay ₹{{.Amount}} to UPI ID <strong>{{.Handle}}</strong> with the reference <em>{{.Note}}</em>. If you have already paid, please allow some time for confirmation.</p>{{end}}
{{end}}`

const registrationConfirmed = `{{define "content"}}
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Your registration for <strong>{{.Event}}</strong> has been confirmed by our team. Your payment has been verified.</p>
<h3>Registration Details</h3>
<p><strong>Name:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}<br>
<strong>Roll Number:</strong> {{.RollNo}}<br>
<strong>Department:</strong> {{.Branch}}<br>
<strong>Year:</strong> {{.Year}}<br>
<strong>Transaction:</strong> {{.TransactionID}}<br>
<strong>Confirmed On:</strong> {{.ConfirmedOn}}</p>
{{if .ConfirmedBy}}<p style="font-size: 12px; color: #888;">This registration was confirmed by: {{.ConfirmedBy}}</p>{{end}}
{{end}}`

const contactNotification = `{{define "content"}}
<h3>New Contact Form Submission</h3>
<p><strong>Name:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}<br>
<strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p style="white-space: pre-wrap;">{{.Message}}</p>
<p><strong>Submitted at:</strong> {{.SubmittedAt}}</p>
{{end}}`

const subscriptionWelcome = `{{define "content"}}
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Thanks for subscribing to {{.Club}} updates. You will hear from us about upcoming events, workshops and opportunities.</p>
{{end}}`

var templates = map[string]*template.Template{
	"registration_received":  parse(registrationReceived),
	"registration_confirmed": parse(registrationConfirmed),
	"contact_notification":   parse(contactNotification),
	"subscription_welcome":   parse(subscriptionWelcome),
}

func parse(content string) *template.Template {
	t := template.Must(template.New("layout").Parse(layout))
	return template.Must(t.Parse(content))
}

// Render 渲染指定模板
func Render(name string, data interface{}) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("mail template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
