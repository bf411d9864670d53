package students

import "time"

// Student is a report subject. Column and JSON names keep the established
// wire format (matricule/nom/prenom) used by existing importers and clients.
type Student struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Matricule string    `gorm:"uniqueIndex;not null" json:"matricule"`
	LastName  string    `gorm:"column:nom;not null" json:"nom"`
	FirstName string    `gorm:"column:prenom;not null" json:"prenom"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string { return "attendance.students" }
