package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRunDuration("emit", 150*time.Millisecond)
	pr.IncRunOutcome("emit", OutcomeSuccess)
	pr.IncFileWritten("json")
	pr.SetDocuments(10)
	pr.SetUnresolved(0)
	pr.SetBrokenLinks(2)
	pr.IncRebuild("fsnotify")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	got := map[string]bool{}
	for _, mf := range mfs {
		got[mf.GetName()] = true
	}
	for _, name := range []string{
		"docsite_run_duration_seconds",
		"docsite_run_outcomes_total",
		"docsite_files_written_total",
		"docsite_documents",
		"docsite_broken_links",
		"docsite_watch_rebuilds_total",
		"docsite_last_success_timestamp_seconds",
	} {
		if !got[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetBrokenLinks(3)

	path := filepath.Join(t.TempDir(), "docsite.prom")
	if err := pr.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "docsite_broken_links 3") {
		t.Fatalf("textfile missing gauge:\n%s", data)
	}
}

func TestNilPrometheusRecorder(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncRunOutcome("check", OutcomeFailed)
	pr.SetDocuments(1)
	if err := pr.WriteTextfile("ignored"); err != nil {
		t.Fatalf("nil recorder write: %v", err)
	}
}

func TestOutcomeFor(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		err      error
		canceled bool
		warned   bool
		want     OutcomeLabel
	}{
		{nil, false, false, OutcomeSuccess},
		{nil, false, true, OutcomeWarning},
		{boom, false, true, OutcomeFailed},
		{boom, true, false, OutcomeCanceled},
	}
	for _, c := range cases {
		if got := OutcomeFor(c.err, c.canceled, c.warned); got != c.want {
			t.Errorf("OutcomeFor(%v, %v, %v) = %s, want %s", c.err, c.canceled, c.warned, got, c.want)
		}
	}
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
