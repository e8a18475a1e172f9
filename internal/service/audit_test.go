package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bigidrise/mealguard/internal/models"
)

func TestAuditAppendAndList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	userID := seedUser(t, db)
	svc := NewAuditService(db)

	for i := 0; i < 3; i++ {
		entry := &models.SafetyAuditLog{
			UserID:          userID,
			MealRequestText: fmt.Sprintf("request %d", i),
			SafetyMode:      models.SafetyModeBlocked,
			TablesVersion:   "2025.08.1",
			CreatedAt:       time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, svc.Append(ctx, entry))
		assert.NotEqual(t, uuid.Nil, entry.ID, "append assigns an id")
	}

	entries, err := svc.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "request 2", entries[0].MealRequestText, "newest first")

	entries, err = svc.ListForUser(ctx, userID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAuditListOtherUserSeesNothing(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	userID := seedUser(t, db)
	svc := NewAuditService(db)

	require.NoError(t, svc.Append(ctx, &models.SafetyAuditLog{
		UserID:          userID,
		MealRequestText: "pad thai",
		SafetyMode:      models.SafetyModeBlocked,
	}))

	entries, err := svc.ListForUser(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTeeAuditSink(t *testing.T) {
	ctx := context.Background()
	primary := &recordingAuditSink{}
	secondary := &recordingAuditSink{}
	tee := NewTeeAuditSink(zap.NewNop(), primary, secondary)

	entry := &models.SafetyAuditLog{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		MealRequestText: "pad thai",
		SafetyMode:      models.SafetyModeOverride,
	}
	require.NoError(t, tee.Append(ctx, entry))
	assert.Len(t, primary.all(), 1)
	assert.Len(t, secondary.all(), 1)
}

func TestTeeAuditSinkSecondaryFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	primary := &recordingAuditSink{}
	tee := NewTeeAuditSink(zap.NewNop(), primary, failingAuditSink{})

	err := tee.Append(ctx, &models.SafetyAuditLog{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		SafetyMode: models.SafetyModeBlocked,
	})
	require.NoError(t, err)
	assert.Len(t, primary.all(), 1)
}

func TestTeeAuditSinkPrimaryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	secondary := &recordingAuditSink{}
	tee := NewTeeAuditSink(zap.NewNop(), failingAuditSink{}, secondary)

	err := tee.Append(ctx, &models.SafetyAuditLog{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		SafetyMode: models.SafetyModeBlocked,
	})
	assert.Error(t, err)
	assert.Empty(t, secondary.all(), "secondary is skipped when the primary fails")
}
