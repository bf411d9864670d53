package presence

import (
	"context"
	"fmt"
	"time"
)

// Engine runs a full presence determination: subject lookup, window and
// boundary resolution, classification, audit. All reads and the audit write
// share one transaction supplied by the TxRunner.
type Engine struct {
	tx  TxRunner
	now func() time.Time
}

func NewEngine(tx TxRunner) *Engine {
	return &Engine{tx: tx, now: time.Now}
}

// WithClock overrides the evaluation clock. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Check evaluates one report. A nil error means res carries a terminal
// outcome; the two absent short-circuits return without creating an audit
// event, every classified outcome is audited exactly once or the whole
// transaction rolls back.
func (e *Engine) Check(ctx context.Context, report Report) (*Result, error) {
	var res *Result

	err := e.tx.InTx(ctx, func(d Deps) error {
		student, err := d.Students.FindByMatricule(ctx, report.Matricule)
		if err != nil {
			return err
		}

		window, err := d.Windows.Resolve(ctx, e.now().Format("15:04:05"))
		if err != nil {
			return fmt.Errorf("resolve time window: %w", err)
		}
		if window == nil {
			res = &Result{Status: StatusAbsent, Message: "no active time window"}
			return nil
		}

		boundary, err := d.Boundaries.Resolve(ctx, report.Coordinate)
		if err != nil {
			return fmt.Errorf("resolve geofence: %w", err)
		}
		if boundary == nil {
			res = &Result{Status: StatusAbsent, Message: "no active boundary", TimeWindow: window.Name}
			return nil
		}

		contained, err := d.Boundaries.Contains(ctx, report.Coordinate, boundary.ID)
		if err != nil {
			return fmt.Errorf("containment test: %w", err)
		}

		status, message := Classify(contained, report.Method)

		eventID, err := d.Recorder.Record(ctx, RecordInput{
			StudentID:  student.ID,
			Status:     status,
			Coordinate: report.Coordinate,
			BoundaryID: boundary.ID,
			WindowID:   window.ID,
			Method:     report.Method,
		})
		if err != nil {
			return fmt.Errorf("record presence event: %w", err)
		}

		res = &Result{
			Status:     status,
			Message:    message,
			TimeWindow: window.Name,
			Geofence:   boundary.Name,
			EventID:    &eventID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
