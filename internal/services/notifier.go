package services

import (
	"context"
	"log/slog"
	"time"

	"evently/internal/domain"
)

const notifyTimeout = 5 * time.Second

// notifier persists an in-app notification and optionally sends an email for
// each notice. Delivery runs detached from the caller's request: the triggering
// operation has already committed, so failures here are logged and swallowed.
type notifier struct {
	notificationRepo domain.NotificationRepository
	emailService     domain.EmailService
	logger           *slog.Logger
}

func NewNotifier(notificationRepo domain.NotificationRepository, emailService domain.EmailService, logger *slog.Logger) domain.Notifier {
	return &notifier{
		notificationRepo: notificationRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

func (n *notifier) Notify(_ context.Context, notice domain.Notice) {
	// Detach from the request context so an already-answered request
	// cannot cancel the fan-out mid-flight.
	go n.deliver(notice)
}

func (n *notifier) deliver(notice domain.Notice) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if notice.Title != "" {
		entry := &domain.Notification{
			UserID:      notice.UserID,
			OrganizerID: notice.OrganizerID,
			Title:       notice.Title,
			Message:     notice.Message,
			Severity:    notice.Severity,
			CreatedAt:   time.Now(),
		}
		if entry.Severity == "" {
			entry.Severity = domain.NotificationInfo
		}
		if err := n.notificationRepo.Create(ctx, entry); err != nil {
			n.logger.Error("failed to persist notification",
				"title", notice.Title, "user_id", notice.UserID, "error", err)
		}
	}

	if notice.Email != "" && notice.Template != "" {
		if err := n.emailService.Send(ctx, notice.Email, notice.Template, notice.Data); err != nil {
			n.logger.Error("failed to send notification email",
				"template", notice.Template, "to", notice.Email, "error", err)
		}
	}
}
