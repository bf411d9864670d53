package schedule

import "time"

// TimeWindow is a daily schedule interval [start,end). Windows that wrap
// past midnight are not representable: replace-all rejects end <= start.
type TimeWindow struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	StartTime string    `gorm:"type:time;not null" json:"start_time"`
	EndTime   string    `gorm:"type:time;not null" json:"end_time"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimeWindow) TableName() string { return "attendance.time_windows" }
