package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/placenet/placement-backend/internal/model"
)

func mcq(id uuid.UUID, correct string, marks int) model.Question {
	return model.Question{
		ID:            id,
		QuestionType:  model.QuestionTypeMCQ,
		CorrectOption: correct,
		Marks:         marks,
	}
}

func coding(id uuid.UUID, marks int) model.Question {
	return model.Question{
		ID:           id,
		QuestionType: model.QuestionTypeCoding,
		Marks:        marks,
	}
}

func TestGrade(t *testing.T) {
	q1 := uuid.New()
	q2 := uuid.New()
	q3 := uuid.New()

	tests := []struct {
		name        string
		questions   []model.Question
		inputs      []model.AnswerInput
		wantScore   int
		wantManual  bool
		wantAnswers int
	}{
		{
			name:      "all mcq correct",
			questions: []model.Question{mcq(q1, "a", 2), mcq(q2, "c", 3)},
			inputs: []model.AnswerInput{
				{QuestionID: q1, AnswerValue: "a"},
				{QuestionID: q2, AnswerValue: "c"},
			},
			wantScore:   5,
			wantAnswers: 2,
		},
		{
			name:      "wrong option scores zero",
			questions: []model.Question{mcq(q1, "a", 2)},
			inputs: []model.AnswerInput{
				{QuestionID: q1, AnswerValue: "b"},
			},
			wantScore:   0,
			wantAnswers: 1,
		},
		{
			name:      "option match is exact, not case folded",
			questions: []model.Question{mcq(q1, "a", 2)},
			inputs: []model.AnswerInput{
				{QuestionID: q1, AnswerValue: "A"},
			},
			wantScore:   0,
			wantAnswers: 1,
		},
		{
			name:      "coding answer defers to manual",
			questions: []model.Question{mcq(q1, "a", 2), coding(q3, 10)},
			inputs: []model.AnswerInput{
				{QuestionID: q1, AnswerValue: "a"},
				{QuestionID: q3, AnswerValue: "print(42)"},
			},
			wantScore:   2,
			wantManual:  true,
			wantAnswers: 2,
		},
		{
			name:      "unknown question id skipped",
			questions: []model.Question{mcq(q1, "a", 2)},
			inputs: []model.AnswerInput{
				{QuestionID: uuid.New(), AnswerValue: "a"},
				{QuestionID: q1, AnswerValue: "a"},
			},
			wantScore:   2,
			wantAnswers: 1,
		},
		{
			name:        "empty submission",
			questions:   []model.Question{mcq(q1, "a", 2)},
			inputs:      nil,
			wantScore:   0,
			wantAnswers: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Grade(tt.questions, tt.inputs)
			if out.MCQScore != tt.wantScore {
				t.Errorf("MCQScore = %d, want %d", out.MCQScore, tt.wantScore)
			}
			if out.NeedsManual != tt.wantManual {
				t.Errorf("NeedsManual = %v, want %v", out.NeedsManual, tt.wantManual)
			}
			if len(out.Answers) != tt.wantAnswers {
				t.Errorf("len(Answers) = %d, want %d", len(out.Answers), tt.wantAnswers)
			}
		})
	}
}

func TestGradeCodingAnswerFields(t *testing.T) {
	qID := uuid.New()
	out := Grade(
		[]model.Question{coding(qID, 10)},
		[]model.AnswerInput{{QuestionID: qID, AnswerValue: "func main() {}"}},
	)

	if len(out.Answers) != 1 {
		t.Fatalf("len(Answers) = %d, want 1", len(out.Answers))
	}
	ans := out.Answers[0]
	if ans.AnswerType != model.AnswerTypeCode {
		t.Errorf("AnswerType = %q, want %q", ans.AnswerType, model.AnswerTypeCode)
	}
	if ans.IsCorrect != nil {
		t.Errorf("IsCorrect = %v, want nil until manual evaluation", *ans.IsCorrect)
	}
	if ans.MarksAwarded != 0 {
		t.Errorf("MarksAwarded = %d, want 0 until manual evaluation", ans.MarksAwarded)
	}
}

func TestCodingTotal(t *testing.T) {
	answers := []model.Answer{
		{AnswerType: model.AnswerTypeCode, MarksAwarded: 7},
		{AnswerType: model.AnswerTypeMCQOption, MarksAwarded: 2},
		{AnswerType: model.AnswerTypeCode, MarksAwarded: 3},
	}
	// MCQ marks must not leak into the coding total.
	if got := CodingTotal(answers); got != 10 {
		t.Errorf("CodingTotal() = %d, want 10", got)
	}
	if got := CodingTotal(nil); got != 0 {
		t.Errorf("CodingTotal(nil) = %d, want 0", got)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		totalMarks int
		want       float64
	}{
		{"half", 50, 100, 50},
		{"full", 30, 30, 100},
		{"zero total marks", 10, 0, 0},
		{"zero score", 0, 40, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.score, tt.totalMarks); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.score, tt.totalMarks, got, tt.want)
			}
		})
	}
}

func TestResult(t *testing.T) {
	if got := Result(40, 40); got != model.ResultPass {
		t.Errorf("Result(40, 40) = %q, want pass (passing marks inclusive)", got)
	}
	if got := Result(39, 40); got != model.ResultFail {
		t.Errorf("Result(39, 40) = %q, want fail", got)
	}
}

func TestHasCoding(t *testing.T) {
	if HasCoding([]model.Question{mcq(uuid.New(), "a", 1)}) {
		t.Error("HasCoding() = true for mcq-only set")
	}
	if !HasCoding([]model.Question{mcq(uuid.New(), "a", 1), coding(uuid.New(), 5)}) {
		t.Error("HasCoding() = false for set with coding question")
	}
}
