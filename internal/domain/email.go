package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// Email template names understood by the EmailService.
const (
	EmailTemplateWelcome               = "welcome"
	EmailTemplateRegistrationConfirmed = "registration_confirmed"
	EmailTemplateRegistrationCancelled = "registration_cancelled"
	EmailTemplateEventCancelled        = "event_cancelled"
	EmailTemplateOrganizerApproved     = "organizer_approved"
	EmailTemplateOrganizerRejected     = "organizer_rejected"
)

// RegistrationEmailData holds data for registration lifecycle emails.
type RegistrationEmailData struct {
	FullName   string
	EventTitle string
	EventURL   string
	StartDate  string
}

// EventCancelledEmailData holds data for the event-cancelled email.
type EventCancelledEmailData struct {
	FullName   string
	EventTitle string
	Reason     string
}

// OrganizerDecisionEmailData holds data for organizer approval/rejection emails.
type OrganizerDecisionEmailData struct {
	BusinessName string
	DashboardURL string
}

// WelcomeEmailData holds data for the signup welcome email.
type WelcomeEmailData struct {
	FullName string
	Email    string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	Send(ctx context.Context, to, template string, data any) error
}
