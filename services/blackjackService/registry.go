package blackjackService

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// AlreadyPlayingError names the users who are still seated in another round in the room.
type AlreadyPlayingError struct {
	InvokerID string
	Conflicts []string
}

func (e *AlreadyPlayingError) Error() string {
	return fmt.Sprintf("already playing: %s", strings.Join(e.Conflicts, ", "))
}

// Registry tracks who is seated in a round, per channel.
type Registry struct {
	mu    sync.Mutex
	clock quartz.Clock
	rooms map[string]map[string]seat
}

type seat struct {
	since   time.Time
	seating *Seating
}

// Seating is the set of users one Seat call put in a room. Each user can only be
// unseated through the Seating that seated them.
type Seating struct {
	registry *Registry
	roomID   string
	userIDs  []string
	once     sync.Once
}

func NewRegistry(clock quartz.Clock) *Registry {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Registry{
		clock: clock,
		rooms: make(map[string]map[string]seat),
	}
}

// Seat adds every user to the room or, if any of them is already seated there, none of
// them.
func (r *Registry) Seat(roomID string, userIDs []string) (*Seating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seated := r.rooms[roomID]
	var conflicts []string
	for _, id := range userIDs {
		if _, ok := seated[id]; ok {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		invoker := ""
		if len(userIDs) > 0 {
			invoker = userIDs[0]
		}
		return nil, &AlreadyPlayingError{InvokerID: invoker, Conflicts: conflicts}
	}

	if seated == nil {
		seated = make(map[string]seat, len(userIDs))
		r.rooms[roomID] = seated
	}
	seating := &Seating{
		registry: r,
		roomID:   roomID,
		userIDs:  append([]string(nil), userIDs...),
	}
	now := r.clock.Now()
	for _, id := range userIDs {
		seated[id] = seat{since: now, seating: seating}
	}
	return seating, nil
}

// Leave unseats one user while the rest of the seating stays.
func (s *Seating) Leave(userID string) {
	s.registry.unseat(s, userID)
}

// Release unseats everyone still held by the seating. It is safe to call more than once.
func (s *Seating) Release() {
	s.once.Do(func() { s.registry.unseat(s, s.userIDs...) })
}

func (r *Registry) unseat(owner *Seating, userIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seated, ok := r.rooms[owner.roomID]
	if !ok {
		return
	}
	for _, id := range userIDs {
		if s, ok := seated[id]; ok && s.seating == owner {
			delete(seated, id)
		}
	}
	if len(seated) == 0 {
		delete(r.rooms, owner.roomID)
	}
}

// Playing reports whether the user is seated in the room.
func (r *Registry) Playing(roomID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID][userID]
	return ok
}

// Rooms is the number of rooms with anyone seated.
func (r *Registry) Rooms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Reap unseats users seated longer than maxAge ago and returns how many were removed.
func (r *Registry) Reap(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-maxAge)
	reaped := 0
	for roomID, seated := range r.rooms {
		for id, s := range seated {
			if s.since.Before(cutoff) {
				delete(seated, id)
				reaped++
			}
		}
		if len(seated) == 0 {
			delete(r.rooms, roomID)
		}
	}
	return reaped
}
