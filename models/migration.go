package models

import (
	"log"

	"github.com/jxmls/pano-daily-checks-sub000/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Submission{},
		&ComplianceRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
