package memory

import (
	"context"
	"fmt"
	"sync"

	"noskip/internal/sheets"
)

// Store keeps exported rows in memory. It stands in for Google Sheets in
// tests and when no spreadsheet is configured.
type Store struct {
	mu   sync.Mutex
	rows []sheets.Row
	seen map[string]int
}

func New() *Store {
	return &Store{seen: make(map[string]int)}
}

// Append stores the row and returns a synthetic row reference. Appending
// the same transaction twice returns the original reference.
func (s *Store) Append(_ context.Context, r sheets.Row) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := string(r.Kind) + ":" + r.ID
	if i, ok := s.seen[key]; ok && r.ID != "" {
		return fmt.Sprintf("mem:%d", i), nil
	}
	s.rows = append(s.rows, r)
	s.seen[key] = len(s.rows)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Row(nil), s.rows...)
}
