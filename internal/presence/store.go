package presence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store is the Postgres/PostGIS implementation of TxRunner. Geometry is
// stored as geography, so distances and margins are geodesic meters.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx binds all collaborators to one read-committed transaction.
func (s *Store) InTx(ctx context.Context, fn func(Deps) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Deps{
			Students:   &txDirectory{tx},
			Windows:    &txWindows{tx},
			Boundaries: &txBoundaries{tx},
			Recorder:   &txRecorder{tx},
		})
	})
}

// pointWKT renders a coordinate as a WKT point in lon/lat order, for use
// with ST_GeogFromText.
func pointWKT(c Coordinate) string {
	return fmt.Sprintf("POINT(%v %v)", c.Lon, c.Lat)
}

type txDirectory struct{ tx *gorm.DB }

func (d *txDirectory) FindByMatricule(ctx context.Context, matricule string) (*Student, error) {
	var st Student
	row := d.tx.Raw(`
		SELECT id, matricule
		FROM attendance.students
		WHERE matricule = ?
	`, matricule).Row()
	if err := row.Scan(&st.ID, &st.Matricule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("student lookup: %w", err)
	}
	return &st, nil
}

type txWindows struct{ tx *gorm.DB }

func (w *txWindows) Resolve(ctx context.Context, timeOfDay string) (*Window, error) {
	var win Window
	row := w.tx.Raw(`
		SELECT id, name
		FROM attendance.time_windows
		WHERE is_active = true
		  AND start_time <= ?::time
		  AND ?::time < end_time
		ORDER BY start_time
		LIMIT 1
	`, timeOfDay, timeOfDay).Row()
	if err := row.Scan(&win.ID, &win.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("time window query: %w", err)
	}
	return &win, nil
}

type txBoundaries struct{ tx *gorm.DB }

func (b *txBoundaries) Resolve(ctx context.Context, c Coordinate) (*Boundary, error) {
	point := pointWKT(c)

	// Prefer a polygon that contains the point.
	var boundary Boundary
	row := b.tx.Raw(`
		SELECT id, name
		FROM attendance.geofences
		WHERE is_active = true
		  AND ST_DWithin(polygon, ST_GeogFromText(?), 0)
		ORDER BY updated_at DESC, id ASC
		LIMIT 1
	`, point).Row()
	err := row.Scan(&boundary.ID, &boundary.Name)
	if err == nil {
		return &boundary, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("containing geofence query: %w", err)
	}

	// Otherwise the nearest active polygon by edge distance.
	row = b.tx.Raw(`
		SELECT id, name
		FROM attendance.geofences
		WHERE is_active = true
		ORDER BY ST_Distance(polygon, ST_GeogFromText(?)) ASC, id ASC
		LIMIT 1
	`, point).Row()
	if err := row.Scan(&boundary.ID, &boundary.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("nearest geofence query: %w", err)
	}
	return &boundary, nil
}

func (b *txBoundaries) Contains(ctx context.Context, c Coordinate, boundaryID int64) (bool, error) {
	var inside bool
	row := b.tx.Raw(`
		SELECT ST_DWithin(polygon, ST_GeogFromText(?), COALESCE(margin_m, 0))
		FROM attendance.geofences
		WHERE id = ? AND is_active = true
	`, pointWKT(c), boundaryID).Row()
	if err := row.Scan(&inside); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("containment query: %w", err)
	}
	return inside, nil
}

type txRecorder struct{ tx *gorm.DB }

func (r *txRecorder) Record(ctx context.Context, in RecordInput) (int64, error) {
	var eventID int64
	row := r.tx.Raw(`
		INSERT INTO attendance.events (student_id, status, latitude, longitude, geofence_id, method)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, in.StudentID, string(in.Status), in.Coordinate.Lat, in.Coordinate.Lon, in.BoundaryID, string(in.Method)).Row()
	if err := row.Scan(&eventID); err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	// Legacy attendance record, same transaction: both rows or neither.
	if err := r.tx.Exec(`
		INSERT INTO attendance.attendances (student_id, event_id, time_window_id, status, geofence_id)
		VALUES (?, ?, ?, ?, ?)
	`, in.StudentID, eventID, in.WindowID, string(in.Status), in.BoundaryID).Error; err != nil {
		return 0, fmt.Errorf("insert attendance: %w", err)
	}

	return eventID, nil
}
