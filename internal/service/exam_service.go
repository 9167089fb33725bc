package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/model"
)

// Exam lifecycle errors.
var (
	ErrExamNotDraft     = errors.New("exam is not in draft state")
	ErrExamNotPublished = errors.New("exam is not published")
	ErrNoQuestions      = errors.New("exam has no questions")
	ErrBadQuestion      = errors.New("question definition is incomplete")
)

// ExamService handles the admin-side exam catalog: creation, question
// authoring, and the publish/complete lifecycle.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, questions QuestionStore, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// Create adds a new exam in draft state.
func (s *ExamService) Create(ctx context.Context, adminID int, req *model.CreateExamRequest) (*model.Exam, error) {
	proctoring := true
	if req.ProctoringEnabled != nil {
		proctoring = *req.ProctoringEnabled
	}

	exam := &model.Exam{
		Title:             req.Title,
		ExamType:          model.ExamType(req.ExamType),
		DurationMinutes:   req.DurationMinutes,
		TotalMarks:        req.TotalMarks,
		PassingMarks:      req.PassingMarks,
		Instructions:      req.Instructions,
		ScheduledDate:     req.ScheduledDate,
		Status:            model.ExamStatusDraft,
		ProctoringEnabled: proctoring,
		CreatedBy:         adminID,
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

// AddQuestion appends a question to a draft exam. Published exams are
// immutable, so any non-draft status is rejected.
func (s *ExamService) AddQuestion(ctx context.Context, examID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	q := &model.Question{
		ExamID:        examID,
		QuestionType:  model.QuestionType(req.QuestionType),
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Marks:         req.Marks,
		Difficulty:    req.Difficulty,
		Language:      req.Language,
		TestCases:     req.TestCases,
	}

	switch q.QuestionType {
	case model.QuestionTypeMCQ:
		if len(q.Options) == 0 || q.CorrectOption == "" {
			return nil, fmt.Errorf("%w: mcq question needs options and a correct option", ErrBadQuestion)
		}
	case model.QuestionTypeCoding:
		if q.Language == "" {
			return nil, fmt.Errorf("%w: coding question needs a language", ErrBadQuestion)
		}
	}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// Publish transitions a draft exam to published and warms its payload
// cache. An exam with no questions cannot be published.
func (s *ExamService) Publish(ctx context.Context, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	if err := s.exams.UpdateStatus(ctx, examID, model.ExamStatusPublished); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	exam.Status = model.ExamStatusPublished

	// Warm the payload cache so the first student start does not hit the DB.
	// A cache failure is not fatal: GetPayload falls back to Postgres.
	if err := s.cachePayload(ctx, exam, questions); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("failed to warm exam payload cache")
	}

	return exam, nil
}

// Complete closes a published exam. Students can no longer start attempts;
// the cached payload is dropped.
func (s *ExamService) Complete(ctx context.Context, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotPublished
	}

	if err := s.exams.UpdateStatus(ctx, examID, model.ExamStatusCompleted); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	exam.Status = model.ExamStatusCompleted

	if err := s.rdb.Del(ctx, config.CacheKey.ExamPayloadKey(examID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("failed to drop exam payload cache")
	}

	return exam, nil
}

// Get retrieves one exam.
func (s *ExamService) Get(ctx context.Context, examID uuid.UUID) (*model.Exam, error) {
	return s.exams.GetByID(ctx, examID)
}

// List retrieves exams, optionally filtered by status.
func (s *ExamService) List(ctx context.Context, status *model.ExamStatus) ([]model.Exam, error) {
	return s.exams.List(ctx, status)
}

// Questions retrieves the full question set of an exam, grading fields
// included. Admin only.
func (s *ExamService) Questions(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	return s.questions.ListByExam(ctx, examID)
}

// GetPayload returns the student-facing exam payload, cache-first with a
// Postgres fallback that self-heals the cache.
func (s *ExamService) GetPayload(ctx context.Context, examID uuid.UUID) (*model.ExamPayload, error) {
	key := config.CacheKey.ExamPayloadKey(examID.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var payload model.ExamPayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			return &payload, nil
		}
		s.log.Warn().Str("exam_id", examID.String()).Msg("corrupt exam payload in cache, rebuilding")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("redis error reading exam payload, falling back to db")
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotPublished
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if err := s.cachePayload(ctx, exam, questions); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("failed to self-heal exam payload cache")
	}

	return buildPayload(exam, questions), nil
}

// PrewarmPayloadCaches rebuilds the payload cache for every published exam.
// Called once at startup so a Redis flush does not slow the first requests.
func (s *ExamService) PrewarmPayloadCaches(ctx context.Context) error {
	published := model.ExamStatusPublished
	exams, err := s.exams.List(ctx, &published)
	if err != nil {
		return fmt.Errorf("list published exams: %w", err)
	}

	for i := range exams {
		exam := &exams[i]
		questions, err := s.questions.ListByExam(ctx, exam.ID)
		if err != nil {
			s.log.Error().Err(err).Str("exam_id", exam.ID.String()).Msg("prewarm: list questions failed")
			continue
		}
		if err := s.cachePayload(ctx, exam, questions); err != nil {
			s.log.Error().Err(err).Str("exam_id", exam.ID.String()).Msg("prewarm: cache write failed")
		}
	}

	s.log.Info().Int("exams", len(exams)).Msg("exam payload caches warmed")
	return nil
}

func (s *ExamService) cachePayload(ctx context.Context, exam *model.Exam, questions []model.Question) error {
	data, err := json.Marshal(buildPayload(exam, questions))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	key := config.CacheKey.ExamPayloadKey(exam.ID.String())
	return s.rdb.Set(ctx, key, data, payloadTTL(exam)).Err()
}

// payloadTTL keeps scheduled exams cached until well past their window and
// unscheduled ones for a day.
func payloadTTL(exam *model.Exam) time.Duration {
	if exam.ScheduledDate != nil {
		if until := time.Until(exam.ScheduledDate.Add(48 * time.Hour)); until > time.Hour {
			return until
		}
	}
	return 24 * time.Hour
}

// buildPayload strips grading fields from the question set. Correct options
// and test cases never leave the server before submission.
func buildPayload(exam *model.Exam, questions []model.Question) *model.ExamPayload {
	payload := &model.ExamPayload{
		ExamID:            exam.ID,
		Title:             exam.Title,
		DurationMinutes:   exam.DurationMinutes,
		TotalMarks:        exam.TotalMarks,
		Instructions:      exam.Instructions,
		ProctoringEnabled: exam.ProctoringEnabled,
		Questions:         make([]model.QuestionForStudent, 0, len(questions)),
	}
	for i := range questions {
		q := &questions[i]
		payload.Questions = append(payload.Questions, model.QuestionForStudent{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			Marks:        q.Marks,
			Language:     q.Language,
		})
	}
	return payload
}
