package sloginit

import (
	"os"
	"sync"
)

const appendFlags = os.O_WRONLY | os.O_APPEND | os.O_CREATE

// appendWriter writes to a file opened fresh for every write: the handle is
// never held across the process lifetime and existing content is never
// truncated.
type appendWriter struct {
	path string
	mu   sync.Mutex
}

// newAppendWriter probes the path once so an unopenable file surfaces at
// composition time rather than on the first log record.
func newAppendWriter(path string) (*appendWriter, error) {
	f, err := os.OpenFile(path, appendFlags, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &appendWriter{path: path}, nil
}

// Write implements io.Writer.
func (w *appendWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, appendFlags, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(p)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
