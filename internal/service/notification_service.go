package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/jobs"
)

// NotificationJobType tags queue jobs carrying notification rows.
const NotificationJobType = "notification.batch"

const notificationFeedSize = 20

type notificationRepository interface {
	BulkCreate(ctx context.Context, notifications []models.Notification) error
	ListLatest(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type jobDispatcher interface {
	Running() bool
	Enqueue(job jobs.Job) error
}

// NotificationService fans in-app notifications out through the background queue.
type NotificationService struct {
	repo    notificationRepository
	queue   jobDispatcher
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationService constructs the service. Without a queue every send is written inline.
func NewNotificationService(repo notificationRepository, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// UseQueue routes sends through queue. The queue's handler should be HandleJob.
func (s *NotificationService) UseQueue(queue jobDispatcher) {
	s.queue = queue
}

// Notify sends one notification. Failures are logged only.
func (s *NotificationService) Notify(ctx context.Context, userID, title, message string, link *string) {
	s.NotifyMany(ctx, []string{userID}, title, message, link)
}

// NotifyMany sends the same notification to every user. Failures are logged only.
func (s *NotificationService) NotifyMany(ctx context.Context, userIDs []string, title, message string, link *string) {
	if len(userIDs) == 0 {
		return
	}
	now := s.now().UTC()
	batch := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		batch = append(batch, models.Notification{UserID: id, Title: title, Message: message, Link: link, CreatedAt: now})
	}

	if s.queue != nil && s.queue.Running() {
		if err := s.queue.Enqueue(jobs.Job{Type: NotificationJobType, Payload: batch}); err != nil {
			s.metrics.NotificationsDropped()
			s.logger.Warn("notification batch dropped", zap.Int("recipients", len(batch)), zap.Error(err))
		}
		return
	}

	if err := s.persist(ctx, batch); err != nil {
		s.metrics.NotificationsDropped()
		s.logger.Warn("failed to store notifications", zap.Int("recipients", len(batch)), zap.Error(err))
	}
}

// HandleJob is the queue handler; a returned error makes the queue retry.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	batch, ok := job.Payload.([]models.Notification)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.persist(ctx, batch)
}

func (s *NotificationService) persist(ctx context.Context, batch []models.Notification) error {
	if err := s.repo.BulkCreate(ctx, batch); err != nil {
		return err
	}
	s.metrics.NotificationsSent(len(batch))
	return nil
}

// List returns the caller's latest notifications and unread count.
func (s *NotificationService) List(ctx context.Context, actor models.Actor) (*models.NotificationFeed, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	items, err := s.repo.ListLatest(ctx, actor.UserID, notificationFeedSize)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count notifications")
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &models.NotificationFeed{Items: items, UnreadCount: unread}, nil
}

// MarkAsRead marks one of the caller's notifications read.
func (s *NotificationService) MarkAsRead(ctx context.Context, actor models.Actor, id string) error {
	if err := authorize(actor); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, id, actor.UserID); err != nil {
		return repoError(err, "notification not found", "failed to update notification")
	}
	return nil
}

// MarkAllAsRead marks every unread notification of the caller read and returns how many changed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor models.Actor) (int, error) {
	if err := authorize(actor); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to update notifications")
	}
	return n, nil
}
