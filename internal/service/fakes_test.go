package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// In-memory store fakes. They mirror the pgx repositories closely enough
// for service-level tests, including pgx.ErrNoRows semantics.

type fakeExamStore struct {
	mu    sync.Mutex
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)}
}

func (f *fakeExamStore) put(e *model.Exam) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	f.exams[e.ID] = &cp
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExamStore) Create(_ context.Context, e *model.Exam) error {
	f.put(e)
	return nil
}

func (f *fakeExamStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.ExamStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Status = status
	return nil
}

func (f *fakeExamStore) List(_ context.Context, status *model.ExamStatus) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Exam
	for _, e := range f.exams {
		if status == nil || e.Status == *status {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions []model.Question
}

func (f *fakeQuestionStore) Create(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeQuestionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Question
	for _, q := range f.questions {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeAttemptStore struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]*model.ExamAttempt
	answers  map[uuid.UUID][]model.Answer
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts: make(map[uuid.UUID]*model.ExamAttempt),
		answers:  make(map[uuid.UUID][]model.Answer),
	}
}

func (f *fakeAttemptStore) put(a *model.ExamAttempt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.attempts[a.ID] = &cp
}

func (f *fakeAttemptStore) GetByID(_ context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) GetInProgress(_ context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ExamID == examID && a.StudentID == studentID && a.Status == model.AttemptStatusInProgress {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttemptStore) GetLatest(_ context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.ExamAttempt
	for _, a := range f.attempts {
		if a.ExamID != examID || a.StudentID != studentID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeAttemptStore) Create(_ context.Context, a *model.ExamAttempt) error {
	a.CreatedAt = time.Now()
	f.put(a)
	return nil
}

func (f *fakeAttemptStore) SaveSubmission(_ context.Context, a *model.ExamAttempt, answers []model.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.attempts[a.ID]
	if !ok || stored.Status != model.AttemptStatusInProgress {
		return pgx.ErrNoRows
	}
	cp := *a
	f.attempts[a.ID] = &cp
	for i := range answers {
		if answers[i].ID == uuid.Nil {
			answers[i].ID = uuid.New()
		}
		answers[i].AttemptID = a.ID
	}
	f.answers[a.ID] = append([]model.Answer(nil), answers...)
	return nil
}

func (f *fakeAttemptStore) ForceSubmit(_ context.Context, id uuid.UUID, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok || a.Status != model.AttemptStatusInProgress {
		return false, nil
	}
	a.Status = model.AttemptStatusSubmitted
	a.EndTime = &end
	a.Result = model.ResultPendingEvaluation
	a.FlaggedForReview = true
	return true, nil
}

func (f *fakeAttemptStore) ListFlagged(_ context.Context) ([]repository.FlaggedAttempt, error) {
	return nil, nil
}

func (f *fakeAttemptStore) ListByExam(_ context.Context, _ uuid.UUID) ([]repository.ExamResultRow, error) {
	return nil, nil
}

func (f *fakeAttemptStore) ListEvaluatedByStudent(_ context.Context, _ int) ([]repository.FlaggedAttempt, error) {
	return nil, nil
}

type fakeAnswerStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Answer
	saved   *model.Answer
	savedAt *model.ExamAttempt
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{byID: make(map[uuid.UUID]*model.Answer)}
}

func (f *fakeAnswerStore) put(a *model.Answer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.byID[a.ID] = &cp
}

func (f *fakeAnswerStore) GetByID(_ context.Context, id uuid.UUID) (*model.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAnswerStore) ListByAttempt(_ context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Answer
	for _, a := range f.byID {
		if a.AttemptID == attemptID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnswerStore) SaveEvaluation(_ context.Context, ans *model.Answer, att *model.ExamAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ans
	f.byID[ans.ID] = &cp
	f.saved = &cp
	attCp := *att
	f.savedAt = &attCp
	return nil
}

type fakeViolationStore struct {
	mu     sync.Mutex
	events []model.ViolationEvent
	counts map[uuid.UUID]int
}

func newFakeViolationStore() *fakeViolationStore {
	return &fakeViolationStore{counts: make(map[uuid.UUID]int)}
}

func (f *fakeViolationStore) RecordAndIncrement(_ context.Context, ev *model.ViolationEvent) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	f.events = append(f.events, *ev)
	f.counts[ev.AttemptID]++
	return f.counts[ev.AttemptID], nil
}

func (f *fakeViolationStore) ListByAttempt(_ context.Context, attemptID uuid.UUID) ([]model.ViolationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ViolationEvent
	for _, ev := range f.events {
		if ev.AttemptID == attemptID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeViolationStore) CountByAttempt(_ context.Context, attemptID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[attemptID], nil
}

// fakePublisher collects monitor notices instead of going through Redis.
type fakePublisher struct {
	mu      sync.Mutex
	notices []ViolationNotice
}

func (f *fakePublisher) PublishViolation(_ context.Context, n ViolationNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
	return nil
}
