package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/analyzer"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/model"
)

// stubAnalyzer returns a fixed analysis or error for every frame.
type stubAnalyzer struct {
	analysis *analyzer.FrameAnalysis
	err      error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ []byte) (*analyzer.FrameAnalysis, error) {
	return s.analysis, s.err
}

func (s *stubAnalyzer) Available() bool { return true }

type proctoringFixture struct {
	svc        *ProctoringService
	sessions   *ExamSessionService
	exams      *fakeExamStore
	attempts   *fakeAttemptStore
	violations *fakeViolationStore
	publisher  *fakePublisher
	analyzer   *stubAnalyzer
	cfg        *config.Config
}

func newProctoringFixture(threshold int) *proctoringFixture {
	f := &proctoringFixture{
		exams:      newFakeExamStore(),
		attempts:   newFakeAttemptStore(),
		violations: newFakeViolationStore(),
		publisher:  &fakePublisher{},
		analyzer:   &stubAnalyzer{analysis: analyzer.Clean()},
		cfg: &config.Config{
			ProctoringEnabled:   true,
			AutoSubmitThreshold: threshold,
		},
	}
	questions := &fakeQuestionStore{}
	f.sessions = NewExamSessionService(f.exams, questions, f.attempts, zerolog.Nop())
	f.svc = NewProctoringService(
		f.cfg, f.attempts, f.violations, f.exams,
		f.sessions, f.analyzer, nil, f.publisher, zerolog.Nop(),
	)
	return f
}

func (f *proctoringFixture) activeAttempt(studentID int) *model.ExamAttempt {
	exam := publishedExam(f.exams, 10, 5)
	exam.ProctoringEnabled = true
	f.exams.put(exam)
	attempt := &model.ExamAttempt{
		ExamID:    exam.ID,
		StudentID: studentID,
		Status:    model.AttemptStatusInProgress,
	}
	f.attempts.put(attempt)
	return attempt
}

func TestClassifyPriorityOrder(t *testing.T) {
	phone := analyzer.DetectedObject{Label: "cell phone", Confidence: 0.9}
	book := analyzer.DetectedObject{Label: "book", Confidence: 0.8}

	tests := []struct {
		name     string
		analysis analyzer.FrameAnalysis
		wantType model.ViolationType
		wantSev  model.Severity
		wantHit  bool
	}{
		{
			name:     "clean frame",
			analysis: *analyzer.Clean(),
		},
		{
			name:     "no face",
			analysis: analyzer.FrameAnalysis{FaceCount: 0, LookingAtScreen: true},
			wantType: model.ViolationNoFace,
			wantSev:  model.SeverityHigh,
			wantHit:  true,
		},
		{
			name:     "multiple faces",
			analysis: analyzer.FrameAnalysis{FaceCount: 2, LookingAtScreen: true},
			wantType: model.ViolationMultipleFaces,
			wantSev:  model.SeverityHigh,
			wantHit:  true,
		},
		{
			name:     "looking away",
			analysis: analyzer.FrameAnalysis{FaceCount: 1, LookingAtScreen: false},
			wantType: model.ViolationLookingAway,
			wantSev:  model.SeverityMedium,
			wantHit:  true,
		},
		{
			name: "mobile detected",
			analysis: analyzer.FrameAnalysis{
				FaceCount: 1, LookingAtScreen: true,
				DetectedObjects: []analyzer.DetectedObject{phone},
			},
			wantType: model.ViolationMobileDetected,
			wantSev:  model.SeverityHigh,
			wantHit:  true,
		},
		{
			name: "book detected",
			analysis: analyzer.FrameAnalysis{
				FaceCount: 1, LookingAtScreen: true,
				DetectedObjects: []analyzer.DetectedObject{book},
			},
			wantType: model.ViolationBookDetected,
			wantSev:  model.SeverityMedium,
			wantHit:  true,
		},
		{
			// No face beats everything else in the same frame.
			name: "no face wins over phone",
			analysis: analyzer.FrameAnalysis{
				FaceCount: 0, LookingAtScreen: false,
				DetectedObjects: []analyzer.DetectedObject{phone},
			},
			wantType: model.ViolationNoFace,
			wantSev:  model.SeverityHigh,
			wantHit:  true,
		},
		{
			name: "looking away wins over book",
			analysis: analyzer.FrameAnalysis{
				FaceCount: 1, LookingAtScreen: false,
				DetectedObjects: []analyzer.DetectedObject{book},
			},
			wantType: model.ViolationLookingAway,
			wantSev:  model.SeverityMedium,
			wantHit:  true,
		},
		{
			name: "unknown object ignored",
			analysis: analyzer.FrameAnalysis{
				FaceCount: 1, LookingAtScreen: true,
				DetectedObjects: []analyzer.DetectedObject{{Label: "coffee mug", Confidence: 0.99}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vtype, sev, _, hit := Classify(&tt.analysis)
			if hit != tt.wantHit {
				t.Fatalf("Classify() hit = %v, want %v", hit, tt.wantHit)
			}
			if vtype != tt.wantType {
				t.Errorf("Classify() type = %q, want %q", vtype, tt.wantType)
			}
			if sev != tt.wantSev {
				t.Errorf("Classify() severity = %q, want %q", sev, tt.wantSev)
			}
		})
	}
}

func TestProcessFrameCleanRecordsNothing(t *testing.T) {
	f := newProctoringFixture(3)
	attempt := f.activeAttempt(7)

	report, err := f.svc.ProcessFrame(context.Background(), 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	if report.ViolationDetected {
		t.Error("ViolationDetected = true for clean frame")
	}
	if !report.ProctoringActive {
		t.Error("ProctoringActive = false, want true")
	}
	if len(f.violations.events) != 0 {
		t.Errorf("recorded %d events for clean frame, want 0", len(f.violations.events))
	}
}

func TestProcessFrameThresholdLadder(t *testing.T) {
	f := newProctoringFixture(3)
	attempt := f.activeAttempt(7)
	f.analyzer.analysis = &analyzer.FrameAnalysis{FaceCount: 0}
	ctx := context.Background()

	// Violation 1: plain warning.
	report, err := f.svc.ProcessFrame(ctx, 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("frame 1: %v", err)
	}
	if !report.ViolationDetected || report.ViolationCount != 1 {
		t.Fatalf("frame 1: detected=%v count=%d, want true/1", report.ViolationDetected, report.ViolationCount)
	}
	if report.FinalWarning || report.AutoSubmitted {
		t.Errorf("frame 1: final=%v auto=%v, want false/false", report.FinalWarning, report.AutoSubmitted)
	}

	// Violation 2 = threshold-1: final warning.
	report, err = f.svc.ProcessFrame(ctx, 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("frame 2: %v", err)
	}
	if !report.FinalWarning {
		t.Error("frame 2: FinalWarning = false, want true at threshold-1")
	}
	if report.AutoSubmitted {
		t.Error("frame 2: AutoSubmitted = true, want false")
	}

	// Violation 3 = threshold: auto-submit.
	report, err = f.svc.ProcessFrame(ctx, 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("frame 3: %v", err)
	}
	if !report.AutoSubmitted {
		t.Error("frame 3: AutoSubmitted = false, want true at threshold")
	}

	stored, _ := f.attempts.GetByID(ctx, attempt.ID)
	if stored.Status != model.AttemptStatusSubmitted {
		t.Errorf("attempt status = %q, want submitted after auto-submit", stored.Status)
	}
	if !stored.FlaggedForReview {
		t.Error("FlaggedForReview = false, want true after auto-submit")
	}

	// Every violation went out to the monitor channel.
	if len(f.publisher.notices) != 3 {
		t.Errorf("published %d notices, want 3", len(f.publisher.notices))
	}
	last := f.publisher.notices[2]
	if !last.AutoSubmitted {
		t.Error("last notice AutoSubmitted = false, want true")
	}
}

func TestProcessFrameFailOpen(t *testing.T) {
	f := newProctoringFixture(3)
	attempt := f.activeAttempt(7)
	f.analyzer.analysis = nil
	f.analyzer.err = errors.New("connection refused")

	report, err := f.svc.ProcessFrame(context.Background(), 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v, want fail-open pass", err)
	}
	if report.ViolationDetected {
		t.Error("ViolationDetected = true, want clean verdict on analyzer failure")
	}
}

func TestProcessFrameFailClosed(t *testing.T) {
	f := newProctoringFixture(3)
	f.cfg.ProctoringFailClosed = true
	attempt := f.activeAttempt(7)
	f.analyzer.analysis = nil
	f.analyzer.err = errors.New("connection refused")

	report, err := f.svc.ProcessFrame(context.Background(), 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v, want counted violation", err)
	}
	if !report.ViolationDetected || report.ViolationCount != 1 {
		t.Fatalf("detected=%v count=%d, want true/1", report.ViolationDetected, report.ViolationCount)
	}
	if report.ViolationType != model.ViolationManualReport || report.Severity != model.SeverityLow {
		t.Errorf("type=%q severity=%q, want manual_report/low", report.ViolationType, report.Severity)
	}

	// Repeated failures walk the same threshold ladder as detections.
	report, _ = f.svc.ProcessFrame(context.Background(), 7, attempt.ID.String(), []byte("jpeg"))
	if !report.FinalWarning {
		t.Error("frame 2: FinalWarning = false, want true at threshold-1")
	}
	report, err = f.svc.ProcessFrame(context.Background(), 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("frame 3: error = %v", err)
	}
	if !report.AutoSubmitted {
		t.Error("frame 3: AutoSubmitted = false, want auto-submit at threshold")
	}
	stored, _ := f.attempts.GetByID(context.Background(), attempt.ID)
	if stored.Status != model.AttemptStatusSubmitted || !stored.FlaggedForReview {
		t.Errorf("attempt status=%q flagged=%v, want submitted/true", stored.Status, stored.FlaggedForReview)
	}
}

func TestProcessFrameInactiveProctoring(t *testing.T) {
	f := newProctoringFixture(3)
	exam := &model.Exam{Status: model.ExamStatusPublished, ProctoringEnabled: false}
	f.exams.put(exam)
	attempt := &model.ExamAttempt{
		ExamID:    exam.ID,
		StudentID: 7,
		Status:    model.AttemptStatusInProgress,
	}
	f.attempts.put(attempt)
	f.analyzer.analysis = &analyzer.FrameAnalysis{FaceCount: 0}

	report, err := f.svc.ProcessFrame(context.Background(), 7, attempt.ID.String(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	if report.ProctoringActive {
		t.Error("ProctoringActive = true for exam with proctoring disabled")
	}
	if len(f.violations.events) != 0 {
		t.Error("violation recorded while proctoring inactive")
	}
}

func TestProcessFrameAttemptGuards(t *testing.T) {
	f := newProctoringFixture(3)
	attempt := f.activeAttempt(7)
	ctx := context.Background()

	if _, err := f.svc.ProcessFrame(ctx, 99, attempt.ID.String(), nil); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("other student's frame: err = %v, want ErrAttemptNotFound", err)
	}
	if _, err := f.svc.ProcessFrame(ctx, 7, "not-a-uuid", nil); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("bad attempt id: err = %v, want ErrAttemptNotFound", err)
	}

	if _, err := f.sessions.ForceSubmit(ctx, attempt.ID); err != nil {
		t.Fatalf("ForceSubmit() error = %v", err)
	}
	if _, err := f.svc.ProcessFrame(ctx, 7, attempt.ID.String(), nil); !errors.Is(err, ErrAttemptNotActive) {
		t.Errorf("frame after submit: err = %v, want ErrAttemptNotActive", err)
	}
}

func TestReportDefaultsSeverity(t *testing.T) {
	f := newProctoringFixture(5)
	attempt := f.activeAttempt(7)

	report, err := f.svc.Report(context.Background(), 7, &model.ReportViolationRequest{
		AttemptID:     attempt.ID,
		ViolationType: string(model.ViolationManualReport),
		Details:       "tab switch detected",
	})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !report.ViolationDetected || report.ViolationCount != 1 {
		t.Fatalf("detected=%v count=%d, want true/1", report.ViolationDetected, report.ViolationCount)
	}
	if report.Severity != model.SeverityLow {
		t.Errorf("Severity = %q, want default low for manual_report", report.Severity)
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		vtype model.ViolationType
		want  model.Severity
	}{
		{model.ViolationNoFace, model.SeverityHigh},
		{model.ViolationMultipleFaces, model.SeverityHigh},
		{model.ViolationMobileDetected, model.SeverityHigh},
		{model.ViolationLookingAway, model.SeverityMedium},
		{model.ViolationBookDetected, model.SeverityMedium},
		{model.ViolationManualReport, model.SeverityLow},
	}
	for _, tt := range tests {
		if got := SeverityFor(tt.vtype); got != tt.want {
			t.Errorf("SeverityFor(%q) = %q, want %q", tt.vtype, got, tt.want)
		}
	}
}
