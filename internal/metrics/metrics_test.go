package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	r := New()

	r.Observe("load", "ok", 2*time.Millisecond)
	r.Observe("load", "ok", 3*time.Millisecond)
	r.Observe("add", "invalid_argument", time.Millisecond)

	if got := testutil.ToFloat64(r.Operations.WithLabelValues("load", "ok")); got != 2 {
		t.Errorf("load/ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.Operations.WithLabelValues("add", "invalid_argument")); got != 1 {
		t.Errorf("add/invalid_argument = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.Duration); n != 2 {
		t.Errorf("expected 2 duration series, got %d", n)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Observe("load", "ok", time.Millisecond)
	r.ReminderDelivered("sent")
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ReminderDelivered("sent")
	if got := testutil.ToFloat64(b.Reminders.WithLabelValues("sent")); got != 0 {
		t.Errorf("recorders share state: %v", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Observe("save", "ok", time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `streakone_repository_operations_total{op="save",outcome="ok"} 1`) {
		t.Errorf("metric missing from exposition:\n%s", body)
	}
}
