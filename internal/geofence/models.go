package geofence

import "time"

// Geofence is a named spatial boundary. The polygon is stored as geography
// so margins and distances are geodesic meters; writes go through
// ST_GeogFromText and reads through ST_AsGeoJSON, never through this field
// directly.
type Geofence struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Polygon   string    `gorm:"type:geography(Polygon,4326);not null" json:"-"`
	MarginM   int       `gorm:"not null;default:0" json:"margin_m"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Geofence) TableName() string { return "attendance.geofences" }
