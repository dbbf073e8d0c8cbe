// Package memory holds the per-conversation fact store: the free-text
// memory points surfaced into every prompt, plus the structured user info
// derived from them. All detection paths (the extractor pass and the
// composer's fast path) mutate state through the same idempotent upserts,
// so re-detection replaces rather than duplicates.
package memory

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// UserInfo is the structured subset of memory the UI renders as a badge.
type UserInfo struct {
	Name      string
	Interests []string
}

// FactStore owns the ordered memory points and the detected user info for
// one conversation.
type FactStore struct {
	mu     sync.Mutex
	points []string
	info   UserInfo
}

func NewFactStore() *FactStore {
	return &FactStore{}
}

// UpsertName records a detected name. The memory point is appended only
// when no existing point already carries this name; calling again with the
// same name is a no-op.
func (s *FactStore) UpsertName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.info.Name = name

	marker := "name is " + name
	for _, p := range s.points {
		if strings.Contains(p, marker) {
			return
		}
	}
	s.points = append(s.points, fmt.Sprintf("User's name is %s", name))
}

// UpsertInterests records the detected interest list. The first detection
// appends one interest point; later detections replace that point in place,
// preserving its position. An unchanged list is a no-op.
func (s *FactStore) UpsertInterests(interests []string) {
	if len(interests) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Equal(s.info.Interests, interests) {
		return
	}
	s.info.Interests = slices.Clone(interests)

	point := fmt.Sprintf("User is interested in %s", strings.Join(interests, ", "))
	for i, p := range s.points {
		if strings.Contains(p, "interested in") {
			s.points[i] = point
			return
		}
	}
	s.points = append(s.points, point)
}

// Points returns a copy of the memory points in order.
func (s *FactStore) Points() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.points)
}

// UserInfo returns the current structured user info.
func (s *FactStore) UserInfo() UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return UserInfo{Name: s.info.Name, Interests: slices.Clone(s.info.Interests)}
}

// Add appends a user-authored memory point. Blank points are dropped.
func (s *FactStore) Add(point string) {
	point = strings.TrimSpace(point)
	if point == "" {
		return
	}
	s.mu.Lock()
	s.points = append(s.points, point)
	s.mu.Unlock()
}

// Update replaces the point at index i. Blank text removes it instead.
func (s *FactStore) Update(i int, text string) bool {
	text = strings.TrimSpace(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.points) {
		return false
	}
	if text == "" {
		s.points = append(s.points[:i], s.points[i+1:]...)
		return true
	}
	s.points[i] = text
	return true
}

// Remove deletes the point at index i.
func (s *FactStore) Remove(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.points) {
		return false
	}
	s.points = append(s.points[:i], s.points[i+1:]...)
	return true
}

// Clear empties the memory points and the detected user info. This is the
// memory-panel "Clear All": it does not touch the transcript.
func (s *FactStore) Clear() {
	s.mu.Lock()
	s.points = nil
	s.info = UserInfo{}
	s.mu.Unlock()
}

// Restore replaces the points with previously persisted ones and
// re-derives the structured user info from them.
func (s *FactStore) Restore(points []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = slices.Clone(points)
	s.info = UserInfo{}
	for _, p := range s.points {
		if name, ok := strings.CutPrefix(p, "User's name is "); ok {
			s.info.Name = strings.TrimSpace(name)
		}
		if joined, ok := strings.CutPrefix(p, "User is interested in "); ok {
			s.info.Interests = strings.Split(joined, ", ")
		}
	}
}

func (s *FactStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}
