package database

import (
	"database/sql"
	"log"

	"goalgg/pkg/database/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies the embedded schema migrations on startup.
func Migrate(db *sql.DB) {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("[DB] goose dialect err: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatalf("[DB] migrations failed: %v", err)
	}

	log.Println("[DB] Schema up to date")
}
