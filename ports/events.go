package ports

import "time"

// Stage event statuses
const (
	StageStarted  = "started"
	StageFinished = "finished"
	StageFailed   = "failed"
)

// StageEvent reports the progress of one pipeline stage to listeners of a session
type StageEvent struct {
	SessionID string    `json:"session_id"`
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher fans stage events out to whoever is listening.
// Publish must not block the pipeline.
type EventPublisher interface {
	Publish(event StageEvent)
}
