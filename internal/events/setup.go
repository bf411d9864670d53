package events

import (
	"log"

	"github.com/attendly/presence-backend/internal/db"
)

// Foreign keys are added here rather than via model tags: the referenced
// tables live in other packages, and the geofence reference must be SET
// NULL so removing a boundary never loses audit history.
const foreignKeys = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_events_student') THEN
		ALTER TABLE attendance.events
			ADD CONSTRAINT fk_events_student FOREIGN KEY (student_id)
			REFERENCES attendance.students(id) ON DELETE CASCADE;
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_events_geofence') THEN
		ALTER TABLE attendance.events
			ADD CONSTRAINT fk_events_geofence FOREIGN KEY (geofence_id)
			REFERENCES attendance.geofences(id) ON DELETE SET NULL;
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_attendances_student') THEN
		ALTER TABLE attendance.attendances
			ADD CONSTRAINT fk_attendances_student FOREIGN KEY (student_id)
			REFERENCES attendance.students(id) ON DELETE CASCADE;
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_attendances_event') THEN
		ALTER TABLE attendance.attendances
			ADD CONSTRAINT fk_attendances_event FOREIGN KEY (event_id)
			REFERENCES attendance.events(id) ON DELETE CASCADE;
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_attendances_window') THEN
		ALTER TABLE attendance.attendances
			ADD CONSTRAINT fk_attendances_window FOREIGN KEY (time_window_id)
			REFERENCES attendance.time_windows(id) ON DELETE SET NULL;
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_attendances_geofence') THEN
		ALTER TABLE attendance.attendances
			ADD CONSTRAINT fk_attendances_geofence FOREIGN KEY (geofence_id)
			REFERENCES attendance.geofences(id) ON DELETE SET NULL;
	END IF;
END$$;
`

// Init must run after the students, geofence and schedule packages have
// migrated their tables.
func Init() {
	if err := db.EnsureSchema(db.DB, "attendance"); err != nil {
		log.Fatal("Failed to ensure schema attendance: ", err)
	}
	if err := db.DB.AutoMigrate(&Event{}, &Attendance{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
	if err := db.DB.Exec(foreignKeys).Error; err != nil {
		log.Fatal("Failed to add event foreign keys: ", err)
	}
}
