package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

type fakeActivityLogRepo struct {
	entries []models.ActivityLog
	err     error
}

func (f *fakeActivityLogRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	if f.err != nil {
		return f.err
	}
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityLogRepo) List(_ context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func TestActivityRecordPersistsWithoutBroker(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	svc := NewActivityService(repo, nil, "", zerolog.Nop())

	entityID := uint(4)
	err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    2,
		ActorRole:  models.RoleTeacher,
		Action:     "course.created",
		EntityType: "course",
		EntityID:   &entityID,
		Metadata:   map[string]interface{}{"title": "Algebra"},
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	require.Equal(t, "course.created", repo.entries[0].Action)
	require.Equal(t, models.RoleTeacher, repo.entries[0].ActorRole)
}

func TestActivityRecordPropagatesRepoError(t *testing.T) {
	repo := &fakeActivityLogRepo{err: errBoom}
	svc := NewActivityService(repo, nil, "", zerolog.Nop())

	err := svc.Record(context.Background(), ActivityEntry{Action: "course.created"})
	require.ErrorIs(t, err, errBoom)
}

func TestActivityList(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	svc := NewActivityService(repo, nil, "", zerolog.Nop())

	for _, action := range []string{"course.created", "submission.submitted"} {
		require.NoError(t, svc.Record(context.Background(), ActivityEntry{ActorID: 1, Action: action, EntityType: "course"}))
	}

	entries, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
