package events

import "time"

// Event is the immutable audit record of one presence determination.
// Created only by the presence engine, exactly once per classified report,
// never updated or deleted. The geofence reference is weak: removing a
// boundary nulls it out rather than losing the event.
type Event struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	StudentID  int64     `gorm:"not null;index" json:"student_id"`
	Status     string    `gorm:"size:20;not null" json:"status"`
	Latitude   float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude  float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	GeofenceID *int64    `json:"geofence_id"`
	Method     string    `gorm:"size:20;not null" json:"method"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Event) TableName() string { return "attendance.events" }

// Attendance is the legacy per-window record kept for downstream reporting
// tools; written in the same transaction as its event.
type Attendance struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	StudentID    int64     `gorm:"not null;index" json:"student_id"`
	EventID      int64     `gorm:"not null" json:"event_id"`
	TimeWindowID *int64    `json:"time_window_id"`
	Status       string    `gorm:"size:20;not null" json:"status"`
	GeofenceID   *int64    `json:"geofence_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Attendance) TableName() string { return "attendance.attendances" }
