// Package feedback persists user-submitted problem reports as
// append-only JSON lines in a local file. Reports are rare enough that
// a flat file beats a database table here; rotate or truncate the file
// during maintenance.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tavernbot/tavern/internal/discord/commands"
)

// Compile-time interface check.
var _ commands.FeedbackStore = (*FileStore)(nil)

// Record is a single report written to the file store.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	GuildID   string    `json:"guild_id,omitempty"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
}

// FileStore persists reports as JSON lines in a local file.
// Thread-safe for concurrent use.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore that writes to the given path.
// The file is created on first write if it does not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// SaveFeedback appends a report to the file.
func (fs *FileStore) SaveFeedback(fb commands.Feedback) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	record := Record{
		Timestamp: time.Now().UTC(),
		GuildID:   fb.GuildID,
		UserID:    fb.UserID,
		Category:  fb.Category,
		Message:   fb.Message,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("feedback: marshal: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(fs.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("feedback: open file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("feedback: write: %w", err)
	}
	return nil
}
