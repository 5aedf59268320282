package app

import (
	"context"
	"fmt"
	"time"

	"csvlens/internal"
	"csvlens/ports"
)

// Pipeline stage names
const (
	StageLoad      = "load"
	StageImpute    = "impute"
	StageSummarize = "summarize"
	StageVisualize = "visualize"
)

var stageOrder = []string{StageLoad, StageImpute, StageSummarize, StageVisualize}

// StageTiming records how long one stage took
type StageTiming struct {
	Stage      string `json:"stage"`
	DurationMs int64  `json:"duration_ms"`
}

// StageRunner executes pipeline stages strictly in order. It refuses to start
// a stage once the context is done.
type StageRunner struct {
	logger    *internal.Logger
	events    ports.EventPublisher
	sessionID string
	runID     string
	timings   []StageTiming
}

// NewStageRunner creates a new stage runner
func NewStageRunner(logger *internal.Logger) *StageRunner {
	return &StageRunner{logger: logger}
}

// WithEvents makes the runner publish a started and a finished/failed event
// per stage. Events are only sent when sessionID is set.
func (r *StageRunner) WithEvents(events ports.EventPublisher, sessionID, runID string) *StageRunner {
	r.events = events
	r.sessionID = sessionID
	r.runID = runID
	return r
}

// Run executes one stage
func (r *StageRunner) Run(ctx context.Context, stage string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s stage not started: %w", stage, err)
	}
	r.publish(stage, ports.StageStarted, nil)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.timings = append(r.timings, StageTiming{Stage: stage, DurationMs: elapsed.Milliseconds()})
	if err != nil {
		r.logger.Debug("stage %s failed after %s: %v", stage, elapsed, err)
		r.publish(stage, ports.StageFailed, err)
		return err
	}
	r.logger.Trace("stage %s done in %s", stage, elapsed)
	r.publish(stage, ports.StageFinished, nil)
	return nil
}

// Timings returns the stages run so far
func (r *StageRunner) Timings() []StageTiming {
	return append([]StageTiming(nil), r.timings...)
}

func (r *StageRunner) publish(stage, status string, err error) {
	if r.events == nil || r.sessionID == "" {
		return
	}
	event := ports.StageEvent{
		SessionID: r.sessionID,
		RunID:     r.runID,
		Stage:     stage,
		Status:    status,
		Progress:  stageProgress(stage, status),
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	r.events.Publish(event)
}

// stageProgress is the fraction of the pipeline covered once the event happens
func stageProgress(stage, status string) float64 {
	for i, s := range stageOrder {
		if s != stage {
			continue
		}
		done := float64(i)
		if status == ports.StageFinished {
			done++
		}
		return done / float64(len(stageOrder))
	}
	return 0
}
