package model

import (
	"strconv"
	"sync"
	"time"
)

// IDSource hands out locally synthesized entity ids for offline writes.
// Ids are wall-clock milliseconds rendered as decimal strings, the same
// shape the remote store assigns, bumped past the previous value on
// collision so they stay unique and strictly increasing within a session.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDSource creates an IDSource backed by the system clock.
func NewIDSource() *IDSource {
	return &IDSource{now: time.Now}
}

// Next returns the next local id.
func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms

	return strconv.FormatInt(ms, 10)
}
