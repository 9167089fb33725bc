// Package scoring grades exam attempts. Everything here is a pure function
// of the exam definition and the submitted answers, so it can be exercised
// without any backing store.
package scoring

import (
	"github.com/google/uuid"
	"github.com/placenet/placement-backend/internal/model"
)

// Outcome is the result of auto-grading one submission.
type Outcome struct {
	MCQScore    int
	NeedsManual bool
	Answers     []model.Answer
}

// Grade auto-grades a submission against the exam's question set.
//
// MCQ answers are correct iff the submitted option exactly matches the
// question's correct option. Coding answers are recorded with zero marks and
// unset correctness; they flip NeedsManual so the attempt waits for manual
// evaluation. Answers referencing unknown question ids are skipped silently,
// tolerating stale client state.
func Grade(questions []model.Question, inputs []model.AnswerInput) Outcome {
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	out := Outcome{Answers: make([]model.Answer, 0, len(inputs))}

	for _, in := range inputs {
		q, ok := byID[in.QuestionID]
		if !ok {
			continue
		}

		ans := model.Answer{
			QuestionID:  q.ID,
			AnswerValue: in.AnswerValue,
		}

		switch q.QuestionType {
		case model.QuestionTypeMCQ:
			ans.AnswerType = model.AnswerTypeMCQOption
			correct := in.AnswerValue == q.CorrectOption
			ans.IsCorrect = &correct
			if correct {
				ans.MarksAwarded = q.Marks
				out.MCQScore += q.Marks
			}

		case model.QuestionTypeCoding:
			ans.AnswerType = model.AnswerTypeCode
			out.NeedsManual = true
		}

		out.Answers = append(out.Answers, ans)
	}

	return out
}

// HasCoding reports whether the question set contains any coding question,
// i.e. whether the attempt can ever be fully auto-graded.
func HasCoding(questions []model.Question) bool {
	for i := range questions {
		if questions[i].QuestionType == model.QuestionTypeCoding {
			return true
		}
	}
	return false
}

// CodingTotal sums awarded marks across the coding answers of an attempt.
// It is a full resync: re-grading an answer never double-counts the rest.
func CodingTotal(answers []model.Answer) int {
	total := 0
	for i := range answers {
		if answers[i].AnswerType == model.AnswerTypeCode {
			total += answers[i].MarksAwarded
		}
	}
	return total
}

// Percentage converts a score to a percentage of totalMarks (0 if totalMarks
// is 0).
func Percentage(totalScore, totalMarks int) float64 {
	if totalMarks == 0 {
		return 0
	}
	return float64(totalScore) / float64(totalMarks) * 100
}

// Result decides pass/fail. Only meaningful once no coding component is
// outstanding.
func Result(totalScore, passingMarks int) model.AttemptResult {
	if totalScore >= passingMarks {
		return model.ResultPass
	}
	return model.ResultFail
}
