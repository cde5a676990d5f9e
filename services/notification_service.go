package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// NotificationService persists notifications and mirrors them to the
// receiver's realtime room. Realtime delivery is best-effort; persistence is
// the source of truth.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	notifier         Notifier
	logger           *slog.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// Send stores the notification and pushes it to the receiver's room.
func (s *NotificationService) Send(ctx context.Context, notification *models.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return mapRepoError(err)
	}
	s.notifier.NotifyUser(notification.ReceiverID, notification.Type, notification)
	return nil
}

// NotifySquadRegistration tells the first administrator that a team enrolled
// a squad. Failures are logged only; registration must not fail on a
// notification problem.
func (s *NotificationService) NotifySquadRegistration(ctx context.Context, squad *models.Squad, team *models.Team, tournament *models.Tournament) {
	adminID, err := s.userRepo.FirstAdminID(ctx)
	if err != nil {
		s.logger.Warn("no administrator to notify about squad registration",
			slog.Int("squad_id", squad.ID),
			slog.String("error", err.Error()))
		return
	}

	notification := &models.Notification{
		Type:        "squad_registration",
		Status:      "pending",
		SenderID:    adminID,
		ReceiverID:  adminID,
		Message:     fmt.Sprintf("%s registered a squad for %s", team.Name, tournament.Name),
		RedirectURL: fmt.Sprintf("/tournaments/%d/squads/%d", tournament.ID, squad.ID),
	}
	if err := s.Send(ctx, notification); err != nil {
		s.logger.Warn("squad registration notification failed",
			slog.Int("squad_id", squad.ID),
			slog.String("error", err.Error()))
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}
