package analyzer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPAnalyzerAnalyze(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"face_count":2,"looking_at_screen":false,"detected_objects":[{"label":"cell phone","confidence":0.91}]}`))
	}))
	defer srv.Close()

	az := NewHTTPAnalyzer(srv.URL, time.Second)
	if !az.Available() {
		t.Fatal("Available() = false with configured URL")
	}

	analysis, err := az.Analyze(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if string(gotBody) != "jpeg-bytes" {
		t.Errorf("detector received body %q, want raw frame", gotBody)
	}
	if analysis.FaceCount != 2 {
		t.Errorf("FaceCount = %d, want 2", analysis.FaceCount)
	}
	if analysis.LookingAtScreen {
		t.Error("LookingAtScreen = true, want false")
	}
	if len(analysis.DetectedObjects) != 1 || analysis.DetectedObjects[0].Label != "cell phone" {
		t.Errorf("DetectedObjects = %+v, want one cell phone", analysis.DetectedObjects)
	}
}

func TestHTTPAnalyzerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	az := NewHTTPAnalyzer(srv.URL, time.Second)
	if _, err := az.Analyze(context.Background(), []byte("x")); err == nil {
		t.Error("Analyze() error = nil, want error on 503")
	}
}

func TestHTTPAnalyzerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // shut down immediately

	az := NewHTTPAnalyzer(srv.URL, 100*time.Millisecond)
	if _, err := az.Analyze(context.Background(), []byte("x")); err == nil {
		t.Error("Analyze() error = nil, want connection error")
	}
}

func TestHTTPAnalyzerNoURL(t *testing.T) {
	az := NewHTTPAnalyzer("", time.Second)
	if az.Available() {
		t.Error("Available() = true without URL")
	}
	analysis, err := az.Analyze(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.FaceCount != 1 || !analysis.LookingAtScreen {
		t.Errorf("analysis = %+v, want clean result", analysis)
	}
}

func TestDisabledAnalyzer(t *testing.T) {
	az := NewDisabled()
	if az.Available() {
		t.Error("Available() = true for disabled analyzer")
	}
	analysis, err := az.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !analysis.Disabled {
		t.Error("Disabled flag not set")
	}
	if analysis.FaceCount != 1 || !analysis.LookingAtScreen || len(analysis.DetectedObjects) != 0 {
		t.Errorf("analysis = %+v, want clean result", analysis)
	}
}
