package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bigidrise/mealguard/internal/models"
)

// AuditService persists audit rows to the database. It only ever
// inserts; rows are immutable once written.
type AuditService struct {
	db *gorm.DB
}

var _ AuditSink = (*AuditService)(nil)

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Append(ctx context.Context, entry *models.SafetyAuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListForUser returns a user's audit rows, newest first. Read side for
// support tooling; the gate itself never reads the log.
func (s *AuditService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SafetyAuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.SafetyAuditLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// TeeAuditSink fans one append out to several sinks. The first sink is
// authoritative; failures of the rest are logged and ignored so an
// archival hiccup cannot lose the primary row.
type TeeAuditSink struct {
	primary   AuditSink
	secondary []AuditSink
	logger    *zap.Logger
}

var _ AuditSink = (*TeeAuditSink)(nil)

func NewTeeAuditSink(logger *zap.Logger, primary AuditSink, secondary ...AuditSink) *TeeAuditSink {
	return &TeeAuditSink{primary: primary, secondary: secondary, logger: logger}
}

func (s *TeeAuditSink) Append(ctx context.Context, entry *models.SafetyAuditLog) error {
	if err := s.primary.Append(ctx, entry); err != nil {
		return err
	}
	for _, sink := range s.secondary {
		if err := sink.Append(ctx, entry); err != nil {
			s.logger.Warn("secondary audit sink failed", zap.Error(err))
		}
	}
	return nil
}
