package pulsecheck

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWithResultCallback_InvokedPerProbe(t *testing.T) {
	ts := statusServer(t)

	var callCount atomic.Int32
	m, err := New(
		WithEndpoints(
			mustEndpoint(t, "a", ts.URL),
			mustEndpoint(t, "b", ts.URL),
		),
		WithResultCallback(func(r ProbeResult) { callCount.Add(1) }),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.RunCycle(context.Background())
	m.RunCycle(context.Background())

	if got := callCount.Load(); got != 4 {
		t.Errorf("callback invoked %d times, want 4", got)
	}
}

func TestWithResultCallback_ReceivesCorrectFields(t *testing.T) {
	ts := statusServer(t)

	var result ProbeResult
	var mu sync.Mutex

	ep := mustEndpoint(t, "test-endpoint", ts.URL+"?code=204")
	m, err := New(
		WithEndpoint(ep),
		WithResultCallback(func(r ProbeResult) {
			mu.Lock()
			defer mu.Unlock()
			result = r
		}),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	before := time.Now()
	m.RunCycle(context.Background())

	mu.Lock()
	defer mu.Unlock()

	if result.EndpointName != "test-endpoint" {
		t.Errorf("EndpointName = %q, want %q", result.EndpointName, "test-endpoint")
	}
	if result.URL != ts.URL+"?code=204" {
		t.Errorf("URL = %q, want %q", result.URL, ts.URL+"?code=204")
	}
	if result.Domain != "127.0.0.1" {
		t.Errorf("Domain = %q, want 127.0.0.1", result.Domain)
	}
	if !result.Available {
		t.Error("Available = false, want true")
	}
	if result.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want %d", result.StatusCode, http.StatusNoContent)
	}
	if result.Latency <= 0 {
		t.Errorf("Latency = %v, want > 0", result.Latency)
	}
	if result.CheckedAt.Before(before) {
		t.Errorf("CheckedAt = %v, want after %v", result.CheckedAt, before)
	}
	if result.Error != nil {
		t.Errorf("Error = %v, want nil", result.Error)
	}
}

// Counters are updated before the callback runs.
func TestWithResultCallback_SeesUpdatedCounters(t *testing.T) {
	ts := statusServer(t)
	ep := mustEndpoint(t, "test", ts.URL)

	var seen Tally
	m, err := New(
		WithEndpoint(ep),
		WithResultCallback(func(r ProbeResult) { seen = ep.Availability() }),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.Probe(context.Background(), ep)

	if seen.Total != 1 || seen.Success != 1 {
		t.Errorf("callback saw %+v, want {Success:1 Total:1}", seen)
	}
}

func TestWithResultCallback_PanicRecovery(t *testing.T) {
	ts := statusServer(t)

	var normalCalled atomic.Bool
	var logBuf syncBuffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	m, err := New(
		WithEndpoint(mustEndpoint(t, "test", ts.URL)),
		WithResultCallback(func(r ProbeResult) { panic("intentional test panic") }),
		WithResultCallback(func(r ProbeResult) { normalCalled.Store(true) }), // should still be called after panic
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// should not panic
	report := m.RunCycle(context.Background())

	if !normalCalled.Load() {
		t.Error("subsequent callbacks should still run after panic")
	}
	if report.Endpoints[0].Total != 1 {
		t.Errorf("Total = %d, want 1", report.Endpoints[0].Total)
	}
	if !strings.Contains(logBuf.String(), "callback panicked") {
		t.Errorf("panic should have been logged, got:\n%s", logBuf.String())
	}
}

func TestWithResultCallback_NilIsSafe(t *testing.T) {
	ts := statusServer(t)

	m, err := New(
		WithEndpoint(mustEndpoint(t, "test", ts.URL)),
		WithResultCallback(nil),
		WithCycleCallback(nil),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v, want nil (nil callback should be accepted)", err)
	}
	if len(m.resultCallbacks) != 0 || len(m.cycleCallbacks) != 0 {
		t.Error("nil callbacks should not be registered")
	}

	m.report(m.RunCycle(context.Background()))
}

func TestWithResultCallback_ExecutionOrder(t *testing.T) {
	ts := statusServer(t)

	var order []int
	var mu sync.Mutex
	record := func(n int) func(ProbeResult) {
		return func(ProbeResult) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}
	}

	m, err := New(
		WithEndpoint(mustEndpoint(t, "test", ts.URL)),
		WithResultCallback(record(1)),
		WithResultCallback(record(2)),
		WithResultCallback(record(3)),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.RunCycle(context.Background())
	m.RunCycle(context.Background())

	mu.Lock()
	defer mu.Unlock()

	if len(order) != 6 {
		t.Fatalf("expected 6 callback invocations, got %d", len(order))
	}
	for i := 0; i < len(order); i++ {
		expected := (i % 3) + 1
		if order[i] != expected {
			t.Errorf("order[%d] = %d, want %d (callbacks should execute in registration order)", i, order[i], expected)
		}
	}
}

func TestWithResultCallback_ErrorEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	var result ProbeResult
	m, err := New(
		WithEndpoint(mustEndpoint(t, "failing", url)),
		WithResultCallback(func(r ProbeResult) { result = r }),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.RunCycle(context.Background())

	if result.Available {
		t.Error("Available = true for failed endpoint, want false")
	}
	if result.Error == nil {
		t.Error("Error should not be nil for failed endpoint")
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", result.StatusCode)
	}
}

func TestWithCycleCallback_ReceivesReport(t *testing.T) {
	ts := statusServer(t)

	reports := make(chan CycleReport, 4)
	m, err := New(
		WithEndpoints(
			mustEndpoint(t, "healthy", ts.URL+"?code=200"),
			mustEndpoint(t, "unhealthy", ts.URL+"?code=503"),
		),
		WithCycleCallback(func(r CycleReport) { reports <- r }),
		WithInterval(time.Hour),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	var report CycleReport
	select {
	case report = <-reports:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for cycle callback")
	}
	cancel()
	<-done

	if report.ID == "" {
		t.Error("report.ID is empty")
	}
	if report.Interrupted {
		t.Error("report.Interrupted = true, want false")
	}
	if got := report.DomainPercentages()["127.0.0.1"]; got != 50 {
		t.Errorf("domain = %d%%, want 50%%", got)
	}
	if len(report.Endpoints) != 2 {
		t.Fatalf("len(Endpoints) = %d, want 2", len(report.Endpoints))
	}
	if report.Endpoints[0].Name != "healthy" || report.Endpoints[1].Name != "unhealthy" {
		t.Errorf("endpoint order = [%s %s], want [healthy unhealthy]", report.Endpoints[0].Name, report.Endpoints[1].Name)
	}
}

func TestWithCycleCallback_PanicRecovery(t *testing.T) {
	ts := statusServer(t)

	var called atomic.Int32
	m, err := New(
		WithEndpoint(mustEndpoint(t, "test", ts.URL)),
		WithCycleCallback(func(CycleReport) { panic("boom") }),
		WithCycleCallback(func(CycleReport) { called.Add(1) }),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.report(m.RunCycle(context.Background()))

	if called.Load() != 1 {
		t.Errorf("second cycle callback called %d times, want 1", called.Load())
	}
}
