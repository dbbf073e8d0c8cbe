package attach

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Ingestor reads user-chosen files into UploadedFile records without
// blocking the conversation. Each file is processed in its own goroutine;
// completed reads append to the pending list in completion order, which is
// nondeterministic relative to request order.
type Ingestor struct {
	mu      sync.Mutex
	pending []UploadedFile
	wg      sync.WaitGroup
	logger  *slog.Logger

	// readFile is swappable in tests to control completion order.
	readFile func(path string) ([]byte, error)
}

func NewIngestor(logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// Add ingests each path asynchronously. A failed read is logged and
// skipped; there is no user-visible recovery path.
func (in *Ingestor) Add(paths ...string) {
	for _, path := range paths {
		in.wg.Add(1)
		go func(path string) {
			defer in.wg.Done()
			data, err := in.readFile(path)
			if err != nil {
				in.logger.Warn("failed to read attachment", "path", path, "error", err)
				return
			}
			f := newUploadedFile(filepath.Base(path), data)
			in.mu.Lock()
			in.pending = append(in.pending, f)
			in.mu.Unlock()
		}(path)
	}
}

// Wait blocks until all in-flight reads have completed.
func (in *Ingestor) Wait() {
	in.wg.Wait()
}

// Pending returns a copy of the pending list in completion order.
func (in *Ingestor) Pending() []UploadedFile {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]UploadedFile, len(in.pending))
	copy(out, in.pending)
	return out
}

// Remove drops a pending file by id before it is sent.
func (in *Ingestor) Remove(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, f := range in.pending {
		if f.ID == id {
			in.pending = append(in.pending[:i], in.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops all pending files.
func (in *Ingestor) Clear() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = nil
}

// Take returns the pending files and clears the list. Called on send: the
// returned files become immutably attached to their message.
func (in *Ingestor) Take() []UploadedFile {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := in.pending
	in.pending = nil
	return out
}
