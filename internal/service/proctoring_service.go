package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/analyzer"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/model"
)

// FrameReport is the verdict returned to the exam client after each frame
// upload or violation report. The client uses it to show warnings and to
// learn that the attempt was auto-submitted.
type FrameReport struct {
	ViolationDetected bool                `json:"violation_detected"`
	ViolationType     model.ViolationType `json:"violation_type,omitempty"`
	Severity          model.Severity      `json:"severity,omitempty"`
	ViolationCount    int                 `json:"violation_count"`
	Threshold         int                 `json:"threshold"`
	FinalWarning      bool                `json:"final_warning"`
	AutoSubmitted     bool                `json:"auto_submitted"`
	ProctoringActive  bool                `json:"proctoring_active"`
}

// EvidenceSaver persists violation frames for later admin review.
type EvidenceSaver interface {
	Save(attemptID string, at time.Time, frame []byte) (string, error)
}

// ProctoringService runs the webcam frame pipeline: analyze, classify,
// record, warn, and auto-submit once the violation threshold is reached.
type ProctoringService struct {
	cfg        *config.Config
	attempts   AttemptStore
	violations ViolationStore
	exams      ExamStore
	sessions   *ExamSessionService
	analyzer   analyzer.Analyzer
	evidence   EvidenceSaver
	publisher  EventPublisher
	log        zerolog.Logger
}

// NewProctoringService creates a new ProctoringService.
func NewProctoringService(
	cfg *config.Config,
	attempts AttemptStore,
	violations ViolationStore,
	exams ExamStore,
	sessions *ExamSessionService,
	az analyzer.Analyzer,
	evidence EvidenceSaver,
	publisher EventPublisher,
	log zerolog.Logger,
) *ProctoringService {
	return &ProctoringService{
		cfg:        cfg,
		attempts:   attempts,
		violations: violations,
		exams:      exams,
		sessions:   sessions,
		analyzer:   az,
		evidence:   evidence,
		publisher:  publisher,
		log:        log.With().Str("component", "proctoring_service").Logger(),
	}
}

// ProcessFrame analyzes one webcam frame for an in-progress attempt.
//
// Analyzer failures degrade by policy: fail-open passes the frame as clean
// so an exam never dies with the detector, fail-closed rejects it. A clean
// frame records nothing; only violations leave a trace.
func (s *ProctoringService) ProcessFrame(ctx context.Context, studentID int, attemptID string, frame []byte) (*FrameReport, error) {
	attempt, err := s.activeAttempt(ctx, studentID, attemptID)
	if err != nil {
		return nil, err
	}

	active, err := s.proctoringActive(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if !active {
		return &FrameReport{
			ViolationCount:   attempt.ViolationCount,
			Threshold:        s.cfg.AutoSubmitThreshold,
			ProctoringActive: false,
		}, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, frame)
	if err != nil {
		if s.cfg.ProctoringFailClosed {
			// Fail-closed: an unanalyzable frame counts as a violation and
			// runs through the same threshold machinery as a detected one.
			s.log.Warn().Err(err).Str("attempt_id", attemptID).Msg("analyzer failed, counting frame as a violation")
			event := &model.ViolationEvent{
				AttemptID:     attempt.ID,
				ViolationType: model.ViolationManualReport,
				Severity:      model.SeverityLow,
				Details:       "frame analysis unavailable",
			}
			return s.recordViolation(ctx, attempt, event)
		}
		s.log.Warn().Err(err).Str("attempt_id", attemptID).Msg("analyzer failed, passing frame as clean")
		analysis = analyzer.Clean()
	}

	vtype, severity, details, found := Classify(analysis)
	if !found {
		return &FrameReport{
			ViolationCount:   attempt.ViolationCount,
			Threshold:        s.cfg.AutoSubmitThreshold,
			ProctoringActive: true,
		}, nil
	}

	evidencePath := ""
	if s.evidence != nil {
		evidencePath, err = s.evidence.Save(attempt.ID.String(), time.Now(), frame)
		if err != nil {
			// Evidence loss must not block the violation record itself.
			s.log.Error().Err(err).Str("attempt_id", attemptID).Msg("failed to save evidence frame")
			evidencePath = ""
		}
	}

	event := &model.ViolationEvent{
		AttemptID:     attempt.ID,
		ViolationType: vtype,
		Severity:      severity,
		Details:       details,
		EvidencePath:  evidencePath,
	}
	return s.recordViolation(ctx, attempt, event)
}

// Report records an explicit violation sent by the exam client, e.g. a tab
// switch or fullscreen exit it detected locally.
func (s *ProctoringService) Report(ctx context.Context, studentID int, req *model.ReportViolationRequest) (*FrameReport, error) {
	attempt, err := s.activeAttempt(ctx, studentID, req.AttemptID.String())
	if err != nil {
		return nil, err
	}

	active, err := s.proctoringActive(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if !active {
		return &FrameReport{
			ViolationCount:   attempt.ViolationCount,
			Threshold:        s.cfg.AutoSubmitThreshold,
			ProctoringActive: false,
		}, nil
	}

	vtype := model.ViolationType(req.ViolationType)
	severity := model.Severity(req.Severity)
	if severity == "" {
		severity = SeverityFor(vtype)
	}

	event := &model.ViolationEvent{
		AttemptID:     attempt.ID,
		ViolationType: vtype,
		Severity:      severity,
		Details:       req.Details,
	}
	return s.recordViolation(ctx, attempt, event)
}

// recordViolation appends the event, bumps the tally, notifies monitors,
// and force-submits at the threshold. The count used for the threshold
// decision is the one returned by the atomic increment, so concurrent
// frames cannot both see threshold-1.
func (s *ProctoringService) recordViolation(ctx context.Context, attempt *model.ExamAttempt, event *model.ViolationEvent) (*FrameReport, error) {
	count, err := s.violations.RecordAndIncrement(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("record violation: %w", err)
	}

	report := &FrameReport{
		ViolationDetected: true,
		ViolationType:     event.ViolationType,
		Severity:          event.Severity,
		ViolationCount:    count,
		Threshold:         s.cfg.AutoSubmitThreshold,
		FinalWarning:      count == s.cfg.AutoSubmitThreshold-1,
		ProctoringActive:  true,
	}

	if count >= s.cfg.AutoSubmitThreshold {
		forced, err := s.sessions.ForceSubmit(ctx, attempt.ID)
		if err != nil {
			return nil, fmt.Errorf("auto submit: %w", err)
		}
		// Either this call forced it or a concurrent one already did;
		// the client is told to stop in both cases.
		report.AutoSubmitted = true
		if forced {
			s.log.Warn().
				Str("attempt_id", attempt.ID.String()).
				Int("violations", count).
				Msg("attempt auto-submitted at violation threshold")
		}
	}

	notice := ViolationNotice{
		AttemptID:      attempt.ID,
		ExamID:         attempt.ExamID,
		StudentID:      attempt.StudentID,
		ViolationType:  event.ViolationType,
		Severity:       event.Severity,
		ViolationCount: count,
		AutoSubmitted:  report.AutoSubmitted,
		At:             time.Now(),
	}
	if err := s.publisher.PublishViolation(ctx, notice); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("failed to publish monitor notice")
	}

	return report, nil
}

func (s *ProctoringService) activeAttempt(ctx context.Context, studentID int, attemptID string) (*model.ExamAttempt, error) {
	id, err := uuid.Parse(attemptID)
	if err != nil {
		return nil, ErrAttemptNotFound
	}

	attempt, err := s.attempts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrAttemptNotFound
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrAttemptNotActive
	}
	return attempt, nil
}

// proctoringActive combines the global switch with the per-exam flag.
func (s *ProctoringService) proctoringActive(ctx context.Context, attempt *model.ExamAttempt) (bool, error) {
	if !s.cfg.ProctoringEnabled {
		return false, nil
	}
	exam, err := s.exams.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return false, fmt.Errorf("get exam: %w", err)
	}
	return exam.ProctoringEnabled, nil
}

// Classify maps a frame analysis to at most one violation. Checks run in
// strict priority order and the first hit wins, so a frame with no face
// never also counts as looking away.
func Classify(a *analyzer.FrameAnalysis) (model.ViolationType, model.Severity, string, bool) {
	switch {
	case a.FaceCount == 0:
		return model.ViolationNoFace, model.SeverityHigh, "no face visible in frame", true
	case a.FaceCount > 1:
		return model.ViolationMultipleFaces, model.SeverityHigh,
			fmt.Sprintf("%d faces visible in frame", a.FaceCount), true
	case !a.LookingAtScreen:
		return model.ViolationLookingAway, model.SeverityMedium, "student looking away from screen", true
	}

	for _, obj := range a.DetectedObjects {
		switch strings.ToLower(obj.Label) {
		case "cell phone", "mobile phone", "phone":
			return model.ViolationMobileDetected, model.SeverityHigh,
				fmt.Sprintf("mobile phone detected (confidence %.2f)", obj.Confidence), true
		case "book":
			return model.ViolationBookDetected, model.SeverityMedium,
				fmt.Sprintf("book detected (confidence %.2f)", obj.Confidence), true
		}
	}

	return "", "", "", false
}

// SeverityFor returns the default severity of a violation type, used when
// a client report does not carry one.
func SeverityFor(t model.ViolationType) model.Severity {
	switch t {
	case model.ViolationNoFace, model.ViolationMultipleFaces, model.ViolationMobileDetected:
		return model.SeverityHigh
	case model.ViolationLookingAway, model.ViolationBookDetected:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
