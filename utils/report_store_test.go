package utils

import (
	"testing"
	"time"
)

func TestReportStoreEmpty(t *testing.T) {
	rs := &ReportStore{}

	_, ok := rs.GetReport()
	if ok {
		t.Error("expected no report before any run")
	}
}

func TestReportStoreSetAndGet(t *testing.T) {
	rs := &ReportStore{}

	rs.SetReport(&BackfillReport{
		Updated:    3,
		Mode:       "strict",
		FinishedAt: time.Now(),
	})

	report, ok := rs.GetReport()
	if !ok {
		t.Fatal("expected stored report")
	}
	if report.Updated != 3 {
		t.Errorf("expected updated=3, got %d", report.Updated)
	}
	if report.Mode != "strict" {
		t.Errorf("expected mode 'strict', got '%s'", report.Mode)
	}
}

func TestReportStoreReplaces(t *testing.T) {
	rs := &ReportStore{}

	rs.SetReport(&BackfillReport{Updated: 1, FinishedAt: time.Now()})
	rs.SetReport(&BackfillReport{Updated: 5, FinishedAt: time.Now()})

	report, _ := rs.GetReport()
	if report.Updated != 5 {
		t.Errorf("expected latest report with updated=5, got %d", report.Updated)
	}
}
