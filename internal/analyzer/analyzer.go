package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DetectedObject is one object found in a frame by the detector service.
type DetectedObject struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// FrameAnalysis is the classified signal for one webcam frame.
type FrameAnalysis struct {
	FaceCount       int              `json:"face_count"`
	LookingAtScreen bool             `json:"looking_at_screen"`
	DetectedObjects []DetectedObject `json:"detected_objects"`
	Disabled        bool             `json:"disabled,omitempty"`
}

// Clean returns a no-detection analysis: one face, looking at the screen,
// nothing suspicious in view.
func Clean() *FrameAnalysis {
	return &FrameAnalysis{FaceCount: 1, LookingAtScreen: true}
}

// Analyzer wraps the face/gaze/object detectors behind a single call.
type Analyzer interface {
	// Analyze classifies one webcam frame.
	Analyze(ctx context.Context, frame []byte) (*FrameAnalysis, error)
	// Available reports whether real detection is backing this analyzer.
	Available() bool
}

// ─── HTTP analyzer ──────────────────────────────────────────────────────────

// HTTPAnalyzer calls a sidecar detector service over HTTP. The service
// accepts a raw JPEG body on POST and answers with a FrameAnalysis JSON.
type HTTPAnalyzer struct {
	url    string
	client *http.Client
}

// NewHTTPAnalyzer creates an analyzer backed by the detector service at url.
func NewHTTPAnalyzer(url string, timeout time.Duration) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Available reports whether a detector endpoint is configured.
func (a *HTTPAnalyzer) Available() bool {
	return a.url != ""
}

// Analyze sends the frame to the detector service and decodes the result.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, frame []byte) (*FrameAnalysis, error) {
	if !a.Available() {
		return Clean(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("build analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer returned %d: %s", resp.StatusCode, string(body))
	}

	var analysis FrameAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}

	return &analysis, nil
}

// ─── Disabled analyzer ──────────────────────────────────────────────────────

// Disabled is the no-op analyzer used when proctoring detection is turned
// off. It always reports a clean frame so exams degrade gracefully instead
// of failing.
type Disabled struct{}

// NewDisabled creates a no-op analyzer.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Available always reports false.
func (Disabled) Available() bool { return false }

// Analyze returns the sentinel always-clean result.
func (Disabled) Analyze(_ context.Context, _ []byte) (*FrameAnalysis, error) {
	a := Clean()
	a.Disabled = true
	return a, nil
}
