package schedule

import (
	"log"

	"github.com/attendly/presence-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "attendance"); err != nil {
		log.Fatal("Failed to ensure schema attendance: ", err)
	}
	if err := db.DB.AutoMigrate(&TimeWindow{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
