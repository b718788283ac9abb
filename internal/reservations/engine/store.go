package engine

import (
	"sync"
	"time"

	"rentals/pkg/model"
)

// shard owns the active reservations of one category together with the
// mutex that guards them. Methods other than snapshot expect mu to be held.
type shard struct {
	mu           sync.Mutex
	reservations []model.Reservation
}

func (s *shard) countOverlapping(start, end time.Time) int {
	count := 0
	for _, r := range s.reservations {
		if r.Overlaps(start, end) {
			count++
		}
	}
	return count
}

func (s *shard) insert(r model.Reservation) {
	s.reservations = append(s.reservations, r)
}

func (s *shard) remove(id string) (model.Reservation, bool) {
	for i, r := range s.reservations {
		if r.ID == id {
			s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
			return r, true
		}
	}
	return model.Reservation{}, false
}

func (s *shard) copyReservations() []model.Reservation {
	out := make([]model.Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

func (s *shard) snapshot() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyReservations()
}

// Store keeps one independent shard per category. The shard map is built once
// and never modified, so looking a shard up needs no locking.
type Store struct {
	order  []model.Category
	shards map[model.Category]*shard
}

func NewStore() *Store {
	order := model.Categories()
	shards := make(map[model.Category]*shard, len(order))
	for _, category := range order {
		shards[category] = &shard{}
	}
	return &Store{
		order:  order,
		shards: shards,
	}
}

func (s *Store) shard(category model.Category) (*shard, bool) {
	sh, ok := s.shards[category]
	return sh, ok
}
