package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/model"
)

type evaluationFixture struct {
	svc       *EvaluationService
	exams     *fakeExamStore
	questions *fakeQuestionStore
	attempts  *fakeAttemptStore
	answers   *fakeAnswerStore
}

func newEvaluationFixture() *evaluationFixture {
	f := &evaluationFixture{
		exams:     newFakeExamStore(),
		questions: &fakeQuestionStore{},
		attempts:  newFakeAttemptStore(),
		answers:   newFakeAnswerStore(),
	}
	f.svc = NewEvaluationService(f.answers, f.attempts, f.questions, f.exams, zerolog.Nop())
	return f
}

// submittedAttempt builds an exam with one MCQ (4 marks, answered right)
// and two coding questions (10 and 6 marks), and an attempt awaiting
// manual grading.
func (f *evaluationFixture) submittedAttempt(t *testing.T) (*model.ExamAttempt, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	exam := &model.Exam{
		Title:        "Coding Round",
		ExamType:     model.ExamTypeMixed,
		TotalMarks:   20,
		PassingMarks: 12,
		Status:       model.ExamStatusPublished,
	}
	f.exams.put(exam)

	mcq := &model.Question{ExamID: exam.ID, QuestionType: model.QuestionTypeMCQ, CorrectOption: "a", Marks: 4}
	c1 := &model.Question{ExamID: exam.ID, QuestionType: model.QuestionTypeCoding, Marks: 10}
	c2 := &model.Question{ExamID: exam.ID, QuestionType: model.QuestionTypeCoding, Marks: 6}
	for _, q := range []*model.Question{mcq, c1, c2} {
		if err := f.questions.Create(ctx, q); err != nil {
			t.Fatal(err)
		}
	}

	attempt := &model.ExamAttempt{
		ExamID:    exam.ID,
		StudentID: 7,
		Status:    model.AttemptStatusSubmitted,
		MCQScore:  4,
		Result:    model.ResultPendingEvaluation,
	}
	f.attempts.put(attempt)

	correct := true
	f.answers.put(&model.Answer{
		AttemptID:    attempt.ID,
		QuestionID:   mcq.ID,
		AnswerType:   model.AnswerTypeMCQOption,
		AnswerValue:  "a",
		IsCorrect:    &correct,
		MarksAwarded: 4,
	})
	a1 := &model.Answer{AttemptID: attempt.ID, QuestionID: c1.ID, AnswerType: model.AnswerTypeCode, AnswerValue: "code1"}
	a2 := &model.Answer{AttemptID: attempt.ID, QuestionID: c2.ID, AnswerType: model.AnswerTypeCode, AnswerValue: "code2"}
	f.answers.put(a1)
	f.answers.put(a2)

	return attempt, []uuid.UUID{a1.ID, a2.ID}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestEvaluateAnswerPartialThenComplete(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	_, codingIDs := f.submittedAttempt(t)

	// First coding answer graded: one still pending, attempt stays submitted.
	att, err := f.svc.EvaluateAnswer(ctx, 1, codingIDs[0], &model.EvaluateAnswerRequest{
		MarksAwarded: intPtr(8),
		IsCorrect:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("EvaluateAnswer() error = %v", err)
	}
	if att.Status != model.AttemptStatusSubmitted {
		t.Errorf("Status = %q, want submitted while grading outstanding", att.Status)
	}
	if att.CodingScore != 8 || att.TotalScore != 12 {
		t.Errorf("scores = %d/%d, want 8/12", att.CodingScore, att.TotalScore)
	}
	if att.Result != model.ResultPendingEvaluation {
		t.Errorf("Result = %q, want pending_evaluation", att.Result)
	}

	// Second coding answer graded: attempt finalizes.
	att, err = f.svc.EvaluateAnswer(ctx, 1, codingIDs[1], &model.EvaluateAnswerRequest{
		MarksAwarded: intPtr(2),
		IsCorrect:    boolPtr(false),
	})
	if err != nil {
		t.Fatalf("EvaluateAnswer() error = %v", err)
	}
	if att.Status != model.AttemptStatusEvaluated {
		t.Errorf("Status = %q, want evaluated", att.Status)
	}
	if att.CodingScore != 10 || att.TotalScore != 14 {
		t.Errorf("scores = %d/%d, want 10/14", att.CodingScore, att.TotalScore)
	}
	if att.Result != model.ResultPass {
		t.Errorf("Result = %q, want pass at 14/12", att.Result)
	}
	if att.Percentage != 70 {
		t.Errorf("Percentage = %v, want 70", att.Percentage)
	}
}

func TestEvaluateAnswerRegradeDoesNotDoubleCount(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	_, codingIDs := f.submittedAttempt(t)

	grade := func(answerID uuid.UUID, marks int) *model.ExamAttempt {
		att, err := f.svc.EvaluateAnswer(ctx, 1, answerID, &model.EvaluateAnswerRequest{
			MarksAwarded: intPtr(marks),
			IsCorrect:    boolPtr(true),
		})
		if err != nil {
			t.Fatalf("EvaluateAnswer() error = %v", err)
		}
		return att
	}

	grade(codingIDs[0], 10)
	grade(codingIDs[1], 6)

	// Re-grading the first answer down resyncs instead of accumulating.
	att := grade(codingIDs[0], 3)
	if att.CodingScore != 9 {
		t.Errorf("CodingScore after regrade = %d, want 9", att.CodingScore)
	}
	if att.TotalScore != 13 {
		t.Errorf("TotalScore after regrade = %d, want 13", att.TotalScore)
	}
}

func TestEvaluateAnswerRejectsOverMax(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	_, codingIDs := f.submittedAttempt(t)

	_, err := f.svc.EvaluateAnswer(ctx, 1, codingIDs[1], &model.EvaluateAnswerRequest{
		MarksAwarded: intPtr(7), // question max is 6
		IsCorrect:    boolPtr(true),
	})
	if !errors.Is(err, ErrMarksExceedMax) {
		t.Errorf("EvaluateAnswer() error = %v, want ErrMarksExceedMax", err)
	}
}

func TestEvaluateAnswerRejectsMCQ(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	attempt, _ := f.submittedAttempt(t)

	var mcqID uuid.UUID
	all, _ := f.answers.ListByAttempt(ctx, attempt.ID)
	for _, a := range all {
		if a.AnswerType == model.AnswerTypeMCQOption {
			mcqID = a.ID
		}
	}

	_, err := f.svc.EvaluateAnswer(ctx, 1, mcqID, &model.EvaluateAnswerRequest{
		MarksAwarded: intPtr(4),
		IsCorrect:    boolPtr(true),
	})
	if !errors.Is(err, ErrAnswerNotGradable) {
		t.Errorf("EvaluateAnswer() error = %v, want ErrAnswerNotGradable", err)
	}
}

func TestEvaluateAnswerGuards(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()

	req := &model.EvaluateAnswerRequest{MarksAwarded: intPtr(1), IsCorrect: boolPtr(true)}

	if _, err := f.svc.EvaluateAnswer(ctx, 1, uuid.New(), req); !errors.Is(err, ErrAnswerNotFound) {
		t.Errorf("unknown answer: err = %v, want ErrAnswerNotFound", err)
	}

	// An answer on an in-progress attempt cannot be graded yet.
	exam := &model.Exam{TotalMarks: 10, PassingMarks: 5, Status: model.ExamStatusPublished}
	f.exams.put(exam)
	attempt := &model.ExamAttempt{ExamID: exam.ID, StudentID: 7, Status: model.AttemptStatusInProgress}
	f.attempts.put(attempt)
	ans := &model.Answer{AttemptID: attempt.ID, QuestionID: uuid.New(), AnswerType: model.AnswerTypeCode}
	f.answers.put(ans)

	if _, err := f.svc.EvaluateAnswer(ctx, 1, ans.ID, req); !errors.Is(err, ErrAttemptNotGraded) {
		t.Errorf("in-progress attempt: err = %v, want ErrAttemptNotGraded", err)
	}
}

func TestEvaluateAnswerStampsEvaluator(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	_, codingIDs := f.submittedAttempt(t)

	_, err := f.svc.EvaluateAnswer(ctx, 42, codingIDs[0], &model.EvaluateAnswerRequest{
		MarksAwarded: intPtr(5),
		IsCorrect:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("EvaluateAnswer() error = %v", err)
	}

	saved := f.answers.saved
	if saved == nil {
		t.Fatal("no evaluation persisted")
	}
	if saved.EvaluatedBy == nil || *saved.EvaluatedBy != 42 {
		t.Errorf("EvaluatedBy = %v, want 42", saved.EvaluatedBy)
	}
	if saved.EvaluatedAt == nil {
		t.Error("EvaluatedAt not stamped")
	}
}
