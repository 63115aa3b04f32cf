package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/skaut/skautis-gate/internal/core"
)

// recentTail bounds how many entries the file auditor keeps in memory
// to serve Find without re-reading the log file.
const recentTail = 1000

var _ core.Auditor = (*FileAuditor)(nil)

// FileAuditor appends decision entries to a JSON Lines file. Find is
// served from a bounded in-memory tail, so after a restart it only sees
// entries written since the process started; the file itself holds the
// full history.
type FileAuditor struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	tail []core.AuditEntry
}

func NewFileAuditor(path string) (*FileAuditor, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	return &FileAuditor{file: file, enc: json.NewEncoder(file)}, nil
}

func (a *FileAuditor) Log(entry core.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.enc.Encode(entry); err != nil {
		return fmt.Errorf("writing audit log entry: %w", err)
	}

	a.tail = append(a.tail, entry)
	if len(a.tail) > recentTail {
		a.tail = a.tail[len(a.tail)-recentTail:]
	}
	return nil
}

func (a *FileAuditor) Find(filter func(core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lastMatching(a.tail, filter, limit), nil
}

func (a *FileAuditor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
