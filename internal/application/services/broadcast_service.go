package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/providers"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/observability"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// maxConcurrentSends bounds the fan-out worker pool so a large audience
// does not open one connection per recipient at once.
const maxConcurrentSends = 8

// BroadcastInput describes one broadcast request
type BroadcastInput struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity string   `json:"severity,omitempty"`
	Target   string   `json:"target"`
	Building string   `json:"building,omitempty"`
	UserIDs  []string `json:"user_ids,omitempty"`
}

// BroadcastService fans notifications out to residents over the message
// gateway and records one in-app notification row per recipient.
type BroadcastService struct {
	notifRepo repositories.NotificationRepository
	userRepo  repositories.UserRepository
	gateway   providers.MessageGateway
	logger    zerolog.Logger
}

// NewBroadcastService creates a new broadcast service. gateway may be nil,
// in which case every external delivery is recorded as failed.
func NewBroadcastService(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	gateway providers.MessageGateway,
) *BroadcastService {
	return &BroadcastService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		logger:    observability.GetLogger().With().Str("service", "broadcast").Logger(),
	}
}

var severityEmoji = map[entities.NotificationSeverity]string{
	entities.SeverityInfo:    "ℹ️",
	entities.SeverityWarning: "⚠️",
	entities.SeveritySuccess: "✅",
	entities.SeverityError:   "❌",
}

// Broadcast resolves the audience, pushes the message to every recipient
// and persists one notification row per recipient regardless of the
// delivery outcome. A failed push is an ordinary per-recipient result.
func (s *BroadcastService) Broadcast(ctx context.Context, input BroadcastInput) (*entities.BroadcastResult, error) {
	severity, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	audience, err := s.resolveAudience(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &entities.BroadcastResult{TotalCount: len(audience)}
	if len(audience) == 0 {
		return result, nil
	}

	text := formatBroadcast(severity, input.Title, input.Message)
	sentAt := time.Now().UTC()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, maxConcurrentSends)
	)

	for _, recipient := range audience {
		wg.Add(1)
		sem <- struct{}{}
		go func(user *entities.User) {
			defer wg.Done()
			defer func() { <-sem }()

			sendErr := s.deliver(ctx, user, text)

			notification := &entities.Notification{
				ID:             uuid.New().String(),
				RecipientID:    user.ID,
				Title:          input.Title,
				Message:        input.Message,
				Severity:       severity,
				Target:         entities.NotificationTarget(input.Target),
				DeliveryStatus: entities.DeliverySent,
				SentAt:         sentAt,
				ReadBy:         []string{},
			}
			if sendErr != nil {
				notification.DeliveryStatus = entities.DeliveryFailed
				notification.DeliveryError = sendErr.Error()
			}

			if err := s.notifRepo.Create(ctx, notification); err != nil {
				s.logger.Error().Err(err).
					Str("recipient_id", user.ID).
					Msg("failed to persist notification row")
			}

			mu.Lock()
			if sendErr != nil {
				result.FailedCount++
			} else {
				result.SentCount++
			}
			mu.Unlock()
		}(recipient)
	}
	wg.Wait()

	s.logger.Info().
		Int("sent", result.SentCount).
		Int("failed", result.FailedCount).
		Int("total", result.TotalCount).
		Str("target", input.Target).
		Msg("broadcast finished")

	return result, nil
}

func (s *BroadcastService) validate(input *BroadcastInput) (entities.NotificationSeverity, error) {
	if input.Title == "" {
		return "", apperrors.NewValidationError("title is required")
	}
	if input.Message == "" {
		return "", apperrors.NewValidationError("message is required")
	}
	if input.Severity == "" {
		input.Severity = string(entities.SeverityInfo)
	}
	severity := entities.NotificationSeverity(input.Severity)
	if !severity.Valid() {
		return "", apperrors.NewValidationError("unknown severity: " + input.Severity)
	}

	switch entities.NotificationTarget(input.Target) {
	case entities.TargetAll:
	case entities.TargetBuilding:
		if input.Building == "" {
			return "", apperrors.NewValidationError("building is required for building target")
		}
	case entities.TargetSpecific:
		if len(input.UserIDs) == 0 {
			return "", apperrors.NewValidationError("user_ids is required for specific target")
		}
	default:
		return "", apperrors.NewValidationError("unknown target: " + input.Target)
	}

	return severity, nil
}

// resolveAudience returns the active users addressed by the target. Only
// active accounts are ever part of an audience.
func (s *BroadcastService) resolveAudience(ctx context.Context, input BroadcastInput) ([]*entities.User, error) {
	switch entities.NotificationTarget(input.Target) {
	case entities.TargetBuilding:
		return s.userRepo.ListActiveByBuilding(ctx, input.Building)
	case entities.TargetSpecific:
		return s.userRepo.ListActiveByIDs(ctx, input.UserIDs)
	default:
		return s.userRepo.ListActive(ctx)
	}
}

func (s *BroadcastService) deliver(ctx context.Context, user *entities.User, text string) error {
	if s.gateway == nil {
		return apperrors.NewExternalError("message gateway is not configured", nil)
	}
	if user.TelegramID == "" {
		return apperrors.NewExternalError("recipient has no telegram chat", nil)
	}
	return s.gateway.Send(ctx, user.TelegramID, text)
}

func formatBroadcast(severity entities.NotificationSeverity, title, message string) string {
	return fmt.Sprintf("%s <b>%s</b>\n\n%s", severityEmoji[severity], title, message)
}

// MarkRead adds the user to a notification's read-by set. Marking twice
// is a no-op, not an error.
func (s *BroadcastService) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.notifRepo.MarkRead(ctx, notificationID, userID)
}

// ListForUser returns a recipient's most recent notifications
func (s *BroadcastService) ListForUser(ctx context.Context, userID string) ([]*entities.Notification, error) {
	return s.notifRepo.ListByRecipient(ctx, userID, 50)
}

// TestGateway checks connectivity with the external message gateway
func (s *BroadcastService) TestGateway(ctx context.Context) error {
	if s.gateway == nil {
		return apperrors.NewExternalError("message gateway is not configured", nil)
	}
	return s.gateway.Ping(ctx)
}

// SendTest checks gateway connectivity and pushes a test message to the
// caller's own chat
func (s *BroadcastService) SendTest(ctx context.Context, user *entities.User) error {
	if err := s.TestGateway(ctx); err != nil {
		return err
	}
	text := formatBroadcast(entities.SeverityInfo, "Test message", "Gateway connectivity check passed")
	return s.deliver(ctx, user, text)
}
