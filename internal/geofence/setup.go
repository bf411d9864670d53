package geofence

import (
	"log"

	"github.com/attendly/presence-backend/internal/db"
)

func Init() {
	if err := db.EnsurePostGIS(db.DB); err != nil {
		log.Fatal("Failed to ensure postgis extension: ", err)
	}
	if err := db.EnsureSchema(db.DB, "attendance"); err != nil {
		log.Fatal("Failed to ensure schema attendance: ", err)
	}
	if err := db.DB.AutoMigrate(&Geofence{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
