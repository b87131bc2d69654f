package web

import (
	"sync"
	"time"

	"a11yowl/internal/views"
)

const maxDialogs = 4096

type dialogKey struct {
	visitorID string
	scanID    string
}

type dialogEntry struct {
	dialog  *views.ReportDialog
	touched time.Time
}

// dialogStore keeps one report dialog per visitor and scan between the
// requests that open, submit and close it. The oldest entry is evicted
// when the store is full.
type dialogStore struct {
	mu    sync.Mutex
	items map[dialogKey]*dialogEntry
	max   int
}

func newDialogStore(max int) *dialogStore {
	return &dialogStore{items: make(map[dialogKey]*dialogEntry), max: max}
}

// get returns the dialog for key, building one with create when there is
// none. create runs without the lock held since it may hit the preference
// store; when two requests race, the first insert wins.
func (s *dialogStore) get(key dialogKey, create func() *views.ReportDialog) *views.ReportDialog {
	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		e.touched = time.Now()
		s.mu.Unlock()
		return e.dialog
	}
	s.mu.Unlock()

	d := create()

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[key]; ok {
		e.touched = time.Now()
		return e.dialog
	}
	if len(s.items) >= s.max {
		s.evictOldest()
	}
	s.items[key] = &dialogEntry{dialog: d, touched: time.Now()}
	return d
}

func (s *dialogStore) drop(key dialogKey) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *dialogStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *dialogStore) evictOldest() {
	var oldest dialogKey
	var when time.Time
	first := true
	for k, e := range s.items {
		if first || e.touched.Before(when) {
			oldest, when, first = k, e.touched, false
		}
	}
	if !first {
		delete(s.items, oldest)
	}
}
