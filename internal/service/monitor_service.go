package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/model"
)

// ViolationNotice is one live proctoring event as seen by exam monitors.
type ViolationNotice struct {
	AttemptID      uuid.UUID           `json:"attempt_id"`
	ExamID         uuid.UUID           `json:"exam_id"`
	StudentID      int                 `json:"student_id"`
	ViolationType  model.ViolationType `json:"violation_type"`
	Severity       model.Severity      `json:"severity"`
	ViolationCount int                 `json:"violation_count"`
	AutoSubmitted  bool                `json:"auto_submitted"`
	At             time.Time           `json:"at"`
}

// EventPublisher pushes violation notices to whoever is watching. The
// proctoring pipeline treats publishing as best-effort.
type EventPublisher interface {
	PublishViolation(ctx context.Context, notice ViolationNotice) error
}

// MonitorService fans violation notices out over Redis Pub/Sub, one channel
// per exam, and feeds them back to WebSocket monitor sessions. Pub/Sub
// keeps this working across multiple API instances.
type MonitorService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(rdb *redis.Client, log zerolog.Logger) *MonitorService {
	return &MonitorService{
		rdb: rdb,
		log: log.With().Str("component", "monitor_service").Logger(),
	}
}

// PublishViolation broadcasts a notice on the exam's monitor channel.
func (s *MonitorService) PublishViolation(ctx context.Context, notice ViolationNotice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	channel := config.CacheKey.AttemptMonitorChannel(notice.ExamID.String())
	return s.rdb.Publish(ctx, channel, data).Err()
}

// Subscribe opens a live feed of violation notices for one exam. The
// returned cancel func must be called to release the subscription; the
// channel closes when the context ends or the subscription is cancelled.
func (s *MonitorService) Subscribe(ctx context.Context, examID uuid.UUID) (<-chan ViolationNotice, func()) {
	channel := config.CacheKey.AttemptMonitorChannel(examID.String())
	pubsub := s.rdb.Subscribe(ctx, channel)

	out := make(chan ViolationNotice, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var notice ViolationNotice
			if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
				s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("dropping malformed monitor message")
				continue
			}
			select {
			case out <- notice:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}
	return out, cancel
}
