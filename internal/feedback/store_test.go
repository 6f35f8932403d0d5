package feedback_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tavernbot/tavern/internal/discord/commands"
	"github.com/tavernbot/tavern/internal/feedback"
)

func TestFileStore_AppendsRecords(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "feedback.jsonl")
	fs := feedback.NewFileStore(path)

	reports := []commands.Feedback{
		{GuildID: "g1", UserID: "u1", Category: "data", Message: "Fireball page number is wrong"},
		{UserID: "u2", Category: "other", Message: "bot went silent"},
	}
	for _, fb := range reports {
		if err := fs.SaveFeedback(fb); err != nil {
			t.Fatalf("SaveFeedback: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var records []feedback.Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r feedback.Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		records = append(records, r)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].GuildID != "g1" || records[0].Category != "data" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].GuildID != "" {
		t.Errorf("records[1].GuildID = %q, want empty", records[1].GuildID)
	}
	if records[0].Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestFileStore_CreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "new.jsonl")
	fs := feedback.NewFileStore(path)

	if err := fs.SaveFeedback(commands.Feedback{UserID: "u", Category: "data", Message: "m"}); err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file should exist: %v", err)
	}
}
