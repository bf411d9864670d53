package presence

import "context"

// Method is how a presence report was produced on the device.
type Method string

const (
	MethodAuto   Method = "auto"
	MethodManual Method = "manual"
)

// Status is the outcome of a presence determination.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusOutside Status = "outside"
)

// Coordinate is a single reported fix. Never persisted standalone.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether the fix is inside the WGS84 value range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Report is one inbound presence claim from an authenticated device.
type Report struct {
	Matricule  string
	Coordinate Coordinate
	Accuracy   *float64
	Method     Method
}

// Result is what a presence check returns to the caller. EventID is nil for
// the absent short-circuits, which are not audited.
type Result struct {
	Status     Status
	Message    string
	TimeWindow string
	Geofence   string
	EventID    *int64
}

// Student is the subject of a report, as the engine needs it.
type Student struct {
	ID        int64
	Matricule string
}

// Boundary is an active geofence selected for a coordinate.
type Boundary struct {
	ID   int64
	Name string
}

// Window is the schedule window active at evaluation time.
type Window struct {
	ID   int64
	Name string
}

// RecordInput is one audit row: exactly one is written per classified report.
type RecordInput struct {
	StudentID  int64
	Status     Status
	Coordinate Coordinate
	BoundaryID int64
	WindowID   int64
	Method     Method
}

// StudentDirectory looks up report subjects.
type StudentDirectory interface {
	FindByMatricule(ctx context.Context, matricule string) (*Student, error)
}

// WindowResolver returns the schedule window containing the given time of
// day, or nil if none is active. When several match, earliest start wins.
type WindowResolver interface {
	Resolve(ctx context.Context, timeOfDay string) (*Window, error)
}

// BoundaryResolver picks the best-matching active boundary for a point and
// tests margin-aware containment. Resolve returns the containing boundary
// (most recently updated wins, ties by lowest id), else the nearest active
// one by geodesic edge distance, else nil.
type BoundaryResolver interface {
	Resolve(ctx context.Context, c Coordinate) (*Boundary, error)
	Contains(ctx context.Context, c Coordinate, boundaryID int64) (bool, error)
}

// AuditRecorder appends one immutable presence event (plus its legacy
// attendance row) and returns the generated event id.
type AuditRecorder interface {
	Record(ctx context.Context, in RecordInput) (int64, error)
}

// Deps bundles the collaborators of one presence check, bound to a single
// database transaction so the audit row reflects the exact boundary and
// window state used for classification.
type Deps struct {
	Students   StudentDirectory
	Windows    WindowResolver
	Boundaries BoundaryResolver
	Recorder   AuditRecorder
}

// TxRunner runs fn with transaction-bound collaborators. Returning an error
// rolls the whole transaction back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Deps) error) error
}
