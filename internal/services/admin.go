package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"evently/internal/domain"
)

type adminService struct {
	eventRepo        domain.EventRepository
	organizerRepo    domain.OrganizerRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	auditRepo        domain.AuditLogRepository
	mediaStore       domain.MediaStore
	notifier         domain.Notifier
	frontendURL      string
	logger           *slog.Logger
	contextTimeout   time.Duration
}

func NewAdminService(eventRepo domain.EventRepository,
	organizerRepo domain.OrganizerRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	auditRepo domain.AuditLogRepository,
	mediaStore domain.MediaStore,
	notifier domain.Notifier,
	frontendURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AdminService {
	return &adminService{
		eventRepo:        eventRepo,
		organizerRepo:    organizerRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		auditRepo:        auditRepo,
		mediaStore:       mediaStore,
		notifier:         notifier,
		frontendURL:      frontendURL,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *adminService) ListOrganizers(ctx context.Context, status string, params domain.PaginationParams) ([]*domain.Organizer, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.organizerRepo.List(ctx, status, params)
}

func (s *adminService) ApproveOrganizer(ctx context.Context, adminID, organizerID string) error {
	return s.moderateOrganizer(ctx, adminID, organizerID, domain.OrganizerStatusApproved, "")
}

func (s *adminService) RejectOrganizer(ctx context.Context, adminID, organizerID, reason string) error {
	return s.moderateOrganizer(ctx, adminID, organizerID, domain.OrganizerStatusRejected, reason)
}

func (s *adminService) BlockOrganizer(ctx context.Context, adminID, organizerID string) error {
	return s.moderateOrganizer(ctx, adminID, organizerID, domain.OrganizerStatusBlocked, "")
}

func (s *adminService) moderateOrganizer(ctx context.Context, adminID, organizerID, status, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.organizerRepo.GetByID(ctx, organizerID)
	if err != nil {
		return err
	}
	if err := s.organizerRepo.SetStatus(ctx, organizerID, status, time.Now()); err != nil {
		return err
	}

	// Approval grants the owner the organizer role; blocking a previously
	// approved organizer revokes it.
	switch status {
	case domain.OrganizerStatusApproved:
		if err := s.userRepo.SetRole(ctx, org.OwnerUserID, domain.RoleOrganizer); err != nil {
			return err
		}
	case domain.OrganizerStatusBlocked:
		if err := s.userRepo.SetRole(ctx, org.OwnerUserID, domain.RoleUser); err != nil {
			return err
		}
	}

	s.audit(ctx, &domain.AuditLog{
		AdminID:     adminID,
		Action:      "organizer_" + status,
		Module:      "organizers",
		OrganizerID: organizerID,
		Metadata:    moderationMetadata(reason),
	})
	s.notifyOrganizerDecision(ctx, org, status)
	return nil
}

func (s *adminService) SetEventFeatured(ctx context.Context, adminID, eventID string, featured bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.SetFeatured(ctx, eventID, featured); err != nil {
		return err
	}
	action := "event_featured"
	if !featured {
		action = "event_unfeatured"
	}
	s.audit(ctx, &domain.AuditLog{
		AdminID: adminID,
		Action:  action,
		Module:  "events",
		EventID: eventID,
	})
	return nil
}

// RemoveEvent deletes an event by admin decision. Unlike the organizer path
// no lock window applies; the organizer and all active attendees are told why.
func (s *adminService) RemoveEvent(ctx context.Context, adminID, eventID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	attendees, err := s.registrationRepo.ListByEventID(ctx, eventID, true)
	if err != nil {
		return err
	}
	org, err := s.organizerRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.audit(ctx, &domain.AuditLog{
		AdminID:     adminID,
		Action:      "event_removed",
		Module:      "events",
		OrganizerID: event.OrganizerID,
		EventID:     eventID,
		Metadata:    moderationMetadata(reason),
	})

	if reason == "" {
		reason = "The event was removed by platform moderation."
	}
	s.notifier.Notify(ctx, domain.Notice{
		OrganizerID: org.ID,
		Title:       "Event removed",
		Message:     fmt.Sprintf("%q was removed by an administrator: %s", event.Title, reason),
		Severity:    domain.NotificationError,
	})
	for _, a := range attendees {
		s.notifier.Notify(ctx, domain.Notice{
			UserID:   a.User.ID,
			Email:    a.User.Email,
			Template: domain.EmailTemplateEventCancelled,
			Data: domain.EventCancelledEmailData{
				FullName:   a.User.FullName,
				EventTitle: event.Title,
				Reason:     reason,
			},
			Title:    "Event cancelled",
			Message:  fmt.Sprintf("%q has been cancelled.", event.Title),
			Severity: domain.NotificationWarning,
		})
	}

	s.releaseMedia(event.AllMedia())
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.List(ctx, filter, params)
}

func (s *adminService) BlockUser(ctx context.Context, adminID, userID, reason string) error {
	return s.moderateUser(ctx, adminID, userID, true, reason)
}

func (s *adminService) UnblockUser(ctx context.Context, adminID, userID string) error {
	return s.moderateUser(ctx, adminID, userID, false, "")
}

func (s *adminService) moderateUser(ctx context.Context, adminID, userID string, blocked bool, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Blocked == blocked {
		return nil
	}
	if err := s.userRepo.SetBlocked(ctx, userID, blocked, reason); err != nil {
		return err
	}

	action := "user_blocked"
	if !blocked {
		action = "user_unblocked"
	}
	meta := map[string]any{"user_id": userID}
	if reason != "" {
		meta["reason"] = reason
	}
	s.audit(ctx, &domain.AuditLog{
		AdminID:  adminID,
		Action:   action,
		Module:   "users",
		Metadata: meta,
	})

	if blocked {
		msg := "Your account has been suspended by platform moderation."
		if reason != "" {
			msg = fmt.Sprintf("Your account has been suspended: %s", reason)
		}
		s.notifier.Notify(ctx, domain.Notice{
			UserID:   userID,
			Title:    "Account suspended",
			Message:  msg,
			Severity: domain.NotificationError,
		})
	}
	return nil
}

func (s *adminService) GetPlatformAnalytics(ctx context.Context) (*domain.PlatformAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	organizers, err := s.organizerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	daily, err := s.registrationRepo.DailyCounts(ctx, time.Now().Add(-analyticsWindow))
	if err != nil {
		return nil, err
	}

	return &domain.PlatformAnalytics{
		TotalUsers:         users,
		TotalOrganizers:    organizers,
		TotalEvents:        events,
		TotalRegistrations: registrations,
		DailyRegistrations: daily,
	}, nil
}

func (s *adminService) ListAuditLogs(ctx context.Context, params domain.PaginationParams) ([]*domain.AuditLog, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.auditRepo.List(ctx, params)
}

// audit failures are logged, not propagated: the moderation action itself has
// already committed.
func (s *adminService) audit(ctx context.Context, entry *domain.AuditLog) {
	entry.CreatedAt = time.Now()
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log",
			"action", entry.Action, "admin_id", entry.AdminID, "error", err)
	}
}

func (s *adminService) notifyOrganizerDecision(ctx context.Context, org *domain.Organizer, status string) {
	owner, err := s.userRepo.GetByID(ctx, org.OwnerUserID)
	if err != nil {
		s.logger.Error("failed to load organizer owner for notification",
			"organizer_id", org.ID, "error", err)
		return
	}

	notice := domain.Notice{OrganizerID: org.ID}
	switch status {
	case domain.OrganizerStatusApproved:
		notice.Email = owner.Email
		notice.Template = domain.EmailTemplateOrganizerApproved
		notice.Data = domain.OrganizerDecisionEmailData{
			BusinessName: org.BusinessName,
			DashboardURL: s.frontendURL + "/organizer/dashboard",
		}
		notice.Title = "Organizer application approved"
		notice.Message = "Your organizer account is approved. You can now create events."
		notice.Severity = domain.NotificationSuccess
	case domain.OrganizerStatusRejected:
		notice.Email = owner.Email
		notice.Template = domain.EmailTemplateOrganizerRejected
		notice.Data = domain.OrganizerDecisionEmailData{
			BusinessName: org.BusinessName,
			DashboardURL: s.frontendURL,
		}
		notice.Title = "Organizer application rejected"
		notice.Message = "Your organizer application was not approved."
		notice.Severity = domain.NotificationWarning
	case domain.OrganizerStatusBlocked:
		notice.Title = "Organizer account blocked"
		notice.Message = "Your organizer account has been blocked by platform moderation."
		notice.Severity = domain.NotificationError
	default:
		return
	}
	s.notifier.Notify(ctx, notice)
}

func (s *adminService) releaseMedia(media []domain.Media) {
	if len(media) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	for _, m := range media {
		if err := s.mediaStore.Delete(ctx, m.PublicID); err != nil {
			s.logger.Error("failed to delete media object", "public_id", m.PublicID, "error", err)
		}
	}
}

func moderationMetadata(reason string) map[string]any {
	if reason == "" {
		return nil
	}
	return map[string]any{"reason": reason}
}
