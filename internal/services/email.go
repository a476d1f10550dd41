package services

import (
	"context"
	"fmt"
	"log/slog"

	"evently/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{
		mailer:   mailer,
		renderer: renderer,
		logger:   logger,
	}
}

func (s *emailService) Send(ctx context.Context, to, template string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s email: %w", template, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.Debug("email sent", "template", template, "to", to)
	return nil
}
