package common

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"
)

type EmailTemplate string

const (
	EmailVerification      EmailTemplate = "verification"
	EmailPasswordReset     EmailTemplate = "password_reset"
	EmailWelcome           EmailTemplate = "welcome"
	EmailEventSignup       EmailTemplate = "event_signup"
	EmailShiftAssignment   EmailTemplate = "shift_assignment"
	EmailAdminNewVolunteer EmailTemplate = "admin_new_volunteer"
	EmailAdminSponsorApp   EmailTemplate = "admin_sponsor_application"
	EmailSponsorConfirm    EmailTemplate = "sponsor_application_confirmation"
)

const layout = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;color:#1f2937">
<h2 style="color:#065f46">{{.Org}}</h2>
{{template "body" .}}
<p style="color:#6b7280;font-size:12px;margin-top:32px">{{.Org}} &middot; {{.BaseURL}}</p>
</div>`

type emailDef struct {
	subject string
	body    string
}

var emailDefs = map[EmailTemplate]emailDef{
	EmailVerification: {
		subject: "Verify your email address",
		body: `<p>Hi {{.Name}},</p>
<p>Thanks for signing up to volunteer. Please confirm your email address:</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>This link expires in 48 hours.</p>`,
	},
	EmailPasswordReset: {
		subject: "Reset your password",
		body: `<p>Hi {{.Name}},</p>
<p>We received a request to reset your password.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>This link expires in one hour. If you did not ask for this you can ignore this email.</p>`,
	},
	EmailWelcome: {
		subject: "Welcome aboard",
		body: `<p>Hi {{.Name}},</p>
<p>Your email is verified and your volunteer portal is ready.</p>
<p><a href="{{.Link}}">Go to the portal</a></p>`,
	},
	EmailEventSignup: {
		subject: "You're signed up: {{.EventTitle}}",
		body: `<p>Hi {{.Name}},</p>
<p>We received your signup for <strong>{{.EventTitle}}</strong> on {{.When}}{{if .Location}} at {{.Location}}{{end}}.</p>
<p>A coordinator will confirm your shift shortly.</p>`,
	},
	EmailShiftAssignment: {
		subject: "Shift confirmed: {{.EventTitle}}",
		body: `<p>Hi {{.Name}},</p>
<p>Your shift for <strong>{{.EventTitle}}</strong> on {{.When}}{{if .Location}} at {{.Location}}{{end}} is confirmed.</p>
{{if .Notes}}<p>Notes from the coordinator: {{.Notes}}</p>{{end}}`,
	},
	EmailAdminNewVolunteer: {
		subject: "New volunteer registration: {{.Name}}",
		body: `<p>{{.Name}} ({{.Email}}) registered as a volunteer.</p>
<p><a href="{{.Link}}">Review in the admin portal</a></p>`,
	},
	EmailAdminSponsorApp: {
		subject: "New sponsor application: {{.Sponsor}}",
		body: `<p>A new {{.TierName}} sponsor application was submitted.</p>
<ul>
<li>Sponsor: {{.Sponsor}}</li>
<li>Contact: {{.Name}} &lt;{{.Email}}&gt; {{.Phone}}</li>
<li>Address: {{.Address}}</li>
{{if .Website}}<li>Website: {{.Website}}</li>{{end}}
</ul>
{{if .Message}}<p>Message: {{.Message}}</p>{{end}}
<p><a href="{{.Link}}">Open in the admin portal</a></p>`,
	},
	EmailSponsorConfirm: {
		subject: "Thank you for your sponsorship application",
		body: `<p>Hi {{.Name}},</p>
<p>Thank you for applying to become a <strong>{{.TierName}}</strong> sponsor.</p>
<p>To complete your sponsorship of {{.AmountDue}}, please make checks payable to
<strong>{{.PayableTo}}</strong> and mail them to {{.MailingAddress}}, or pay online at
<a href="{{.OnlineURL}}">{{.OnlineURL}}</a>. Please include the memo <strong>{{.Memo}}</strong>.</p>`,
	},
}

// EmailData is the union of fields used by the templates. Unused fields
// stay empty.
type EmailData struct {
	Org     string
	BaseURL string

	Name  string
	Email string
	Phone string
	Link  string

	EventTitle string
	When       string
	Location   string
	Notes      string

	Sponsor        string
	TierName       string
	Address        string
	Website        string
	Message        string
	AmountDue      string
	PayableTo      string
	MailingAddress string
	OnlineURL      string
	Memo           string
}

type compiledEmail struct {
	subject *texttemplate.Template
	body    *template.Template
}

// EmailRenderer holds the parsed templates.
type EmailRenderer struct {
	org       string
	baseURL   string
	templates map[EmailTemplate]compiledEmail
}

func NewEmailRenderer(org, baseURL string) (*EmailRenderer, error) {
	r := &EmailRenderer{org: org, baseURL: baseURL, templates: make(map[EmailTemplate]compiledEmail, len(emailDefs))}
	for name, def := range emailDefs {
		subject, err := texttemplate.New(string(name) + "_subject").Parse(def.subject)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s subject: %w", name, err)
		}
		body, err := template.New(string(name)).Parse(layout)
		if err == nil {
			_, err = body.New("body").Parse(def.body)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s body: %w", name, err)
		}
		r.templates[name] = compiledEmail{subject: subject, body: body}
	}
	return r, nil
}

// Render builds the message for one recipient.
func (r *EmailRenderer) Render(name EmailTemplate, to string, data EmailData) (EmailMessage, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return EmailMessage{}, fmt.Errorf("unknown email template %q", name)
	}
	data.Org = r.org
	data.BaseURL = r.baseURL

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render %s subject: %w", name, err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render %s body: %w", name, err)
	}

	return EmailMessage{
		To:       to,
		Subject:  subject.String(),
		HTML:     body.String(),
		Template: name,
	}, nil
}

// FormatEventTime renders event times in emails.
func FormatEventTime(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 3:04 PM")
}
