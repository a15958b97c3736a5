package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/UtonulVTebe/studyhub-api/internal/dto"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/repository"
)

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	ActorID    uint
	ActorRole  string
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit events.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService persists audit entries and fans them out to NATS for
// downstream consumers.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, limit int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo        repository.ActivityLogRepository
	nats        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
	now         func() time.Time
}

type activityEvent struct {
	Action     string                 `json:"action"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	SentAt     time.Time              `json:"sent_at"`
}

// NewActivityService constructs the activity service. A nil NATS connection
// disables event publishing; audit rows are written regardless.
func NewActivityService(repo repository.ActivityLogRepository, natsConn *nats.Conn, subjectBase string, logger zerolog.Logger) ActivityService {
	if subjectBase == "" {
		subjectBase = "studyhub.events"
	}
	return &activityService{
		repo:        repo,
		nats:        natsConn,
		subjectBase: subjectBase,
		logger:      logger.With().Str("component", "activity_service").Logger(),
		now:         time.Now,
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	record := models.ActivityLog{
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// publish is fire-and-forget: an unreachable broker never fails the request
// that produced the event.
func (s *activityService) publish(entry ActivityEntry) {
	if s.nats == nil {
		return
	}

	event := activityEvent{
		Action:     entry.Action,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   entry.Metadata,
		SentAt:     s.now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to encode activity event")
		return
	}

	subject := s.subjectBase + "." + entry.Action
	if err := s.nats.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish activity event")
	}
}

func (s *activityService) List(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}
	return responses, nil
}
