package config

import (
	"os"

	"garagebill-backend/store"
)

// OpenStore opens the process-local SQLite store. The whole system is
// single-tenant and single-user; there is no shared database server.
func OpenStore() (*store.Store, error) {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "garagebill.db"
	}
	return store.Open(path)
}
