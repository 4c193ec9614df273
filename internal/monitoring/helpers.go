package monitoring

import "time"

// File status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Timer measures one file export.
type Timer struct {
	metrics *Metrics
	start   time.Time
}

// NewTimer starts timing a file.
func NewTimer(m *Metrics) *Timer {
	return &Timer{metrics: m, start: time.Now()}
}

// Stop records the file with the status derived from err.
func (t *Timer) Stop(err error) time.Duration {
	d := time.Since(t.start)
	if t.metrics == nil {
		return d
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	t.metrics.RecordFile(status, d)
	return d
}
