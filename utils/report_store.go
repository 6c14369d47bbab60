package utils

import (
	"sync"
	"time"
)

// BackfillReport is the stored outcome of the most recent backfill run.
type BackfillReport struct {
	Updated    int         `json:"updated"`
	Skipped    interface{} `json:"skipped"`
	Mode       string      `json:"mode"`
	RanBy      string      `json:"ran_by,omitempty"`
	FinishedAt time.Time   `json:"finished_at"`
}

// ReportStore keeps the last backfill report in memory
type ReportStore struct {
	report *BackfillReport
	mu     sync.RWMutex
}

// Global report store instance
var Reports = &ReportStore{}

// SetReport replaces the stored report with the latest run's outcome
func (rs *ReportStore) SetReport(report *BackfillReport) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.report = report
}

// GetReport retrieves the last report, if any run has completed
func (rs *ReportStore) GetReport() (*BackfillReport, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.report == nil {
		return nil, false
	}
	return rs.report, true
}
