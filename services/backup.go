// services/backup.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"garagebill-backend/store"
)

// BackupService snapshots every stored collection into a dated JSON
// file on a cron schedule.
type BackupService struct {
	store *store.Store
	dir   string
}

func NewBackupService(st *store.Store, dir string) *BackupService {
	return &BackupService{store: st, dir: dir}
}

// StartScheduler registers the snapshot job and starts the cron loop.
// Default schedule is 2 AM daily; override with BACKUP_CRON.
func (b *BackupService) StartScheduler() (*cron.Cron, error) {
	spec := os.Getenv("BACKUP_CRON")
	if spec == "" {
		spec = "0 2 * * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := b.Snapshot(); err != nil {
			log.Printf("backup: snapshot failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("backup: bad schedule %q: %w", spec, err)
	}

	c.Start()
	log.Println("Backup scheduler started")
	return c, nil
}

// Snapshot writes all store keys and their blob values into one JSON
// file and returns its path.
func (b *BackupService) Snapshot() (string, error) {
	keys, err := b.store.Keys()
	if err != nil {
		return "", err
	}

	dump := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, found, err := b.store.Get(key)
		if err != nil {
			return "", err
		}
		if found && json.Valid(value) {
			dump[key] = json.RawMessage(value)
		}
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", err
	}

	raw, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(b.dir, fmt.Sprintf("backup-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	log.Printf("backup: wrote %s (%d keys)", path, len(dump))
	return path, nil
}
