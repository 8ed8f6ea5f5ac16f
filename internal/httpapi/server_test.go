package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"FlowForge/internal/core/model"
	"FlowForge/internal/progress"
)

func TestHealthzAndStatusEndpoints(t *testing.T) {
	tracker := progress.NewTracker(0, 1000, 1, progress.StyleNone, time.Millisecond)
	tracker.Start()
	tracker.AddFlows(42)
	tracker.AddBytes(1024)

	srv := New("127.0.0.1:0", tracker)
	// Bind a real listener on a fixed port by overriding Addr: Start
	// binds s.srv.Addr directly, so pick a high
	// unlikely-to-collide port instead of addr 0 (Start doesn't report
	// back the chosen port on ":0").
	srv.srv.Addr = "127.0.0.1:18732"
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Shutdown()

	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get("http://127.0.0.1:18732/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status = %d, want 200", resp.StatusCode)
	}

	resp2, err := http.Get("http://127.0.0.1:18732/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp2.Body.Close()
	body, _ := io.ReadAll(resp2.Body)

	var summary model.RunSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("unmarshal status body: %v (%s)", err, body)
	}
	if summary.FlowsGenerated != 42 {
		t.Errorf("FlowsGenerated = %d, want 42", summary.FlowsGenerated)
	}
	if summary.TotalBytes != 1024 {
		t.Errorf("TotalBytes = %d, want 1024", summary.TotalBytes)
	}
	if summary.StartTimestamp != 0 || summary.EndTimestamp != 1000 {
		t.Errorf("StartTimestamp/EndTimestamp = %d/%d, want 0/1000", summary.StartTimestamp, summary.EndTimestamp)
	}
	if summary.ElapsedSeconds <= 0 {
		t.Errorf("ElapsedSeconds = %f, want > 0 once the tracker has started", summary.ElapsedSeconds)
	}
}
