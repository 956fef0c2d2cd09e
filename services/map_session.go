package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"hobbymeet/models"
	apierrors "hobbymeet/utils/errors"
)

type ViewMode string

const (
	ViewPeople ViewMode = "people"
	ViewEvents ViewMode = "events"
)

func (m ViewMode) Valid() bool {
	return m == ViewPeople || m == ViewEvents
}

// MapSession is the per-client state of the map view: which entity class is
// shown, whether the initial load has completed, the hobby filter set and
// the last fetched snapshot. View state gates what is rendered, never what
// exists; switching modes or toggling filters touches no underlying data.
type MapSession struct {
	mu         sync.Mutex
	discovery  *MeetupService
	viewMode   ViewMode
	loading    bool
	filters    []string
	people     []models.Person
	meetups    []models.Meetup
	currentReq string
}

func NewMapSession(discovery *MeetupService) *MapSession {
	return &MapSession{
		discovery: discovery,
		viewMode:  ViewPeople,
		loading:   true,
	}
}

func (s *MapSession) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// SetViewMode switches between people and events. The fetched snapshot and
// the filter set are preserved.
func (s *MapSession) SetViewMode(mode ViewMode) error {
	if !mode.Valid() {
		return apierrors.NewValidationError("view mode must be people or events")
	}
	s.mu.Lock()
	s.viewMode = mode
	s.mu.Unlock()
	return nil
}

// Loading reports whether the initial fetch is still outstanding. It starts
// true and goes false exactly once; it never reverts.
func (s *MapSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ToggleHobbyFilter adds the hobby to the filter set, or removes it if
// already present. Toggling twice restores the previous set.
func (s *MapSession) ToggleHobbyFilter(hobby string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.filters {
		if h == hobby {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return
		}
	}
	s.filters = append(s.filters, hobby)
}

func (s *MapSession) Filters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.filters...)
}

// Refresh fetches the people roster and the nearby meetups for the given
// viewpoint. Each call is tagged with a request id; if another Refresh
// starts before this one finishes, the stale completion is discarded
// (last-request-wins).
func (s *MapSession) Refresh(ctx context.Context, lat, lng, radiusKm float64) error {
	reqID := uuid.New().String()
	s.mu.Lock()
	s.currentReq = reqID
	s.mu.Unlock()

	people, err := s.discovery.VisiblePeople(ctx, nil)
	if err != nil {
		return err
	}
	meetups, err := s.discovery.MeetupsByLocation(ctx, lat, lng, radiusKm)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentReq != reqID {
		// A newer refresh superseded this one.
		return nil
	}
	s.people = people
	s.meetups = meetups
	s.loading = false
	return nil
}

// VisiblePeople applies the current hobby filter to the fetched roster.
func (s *MapSession) VisiblePeople() []models.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.filters) == 0 {
		return append([]models.Person(nil), s.people...)
	}
	var out []models.Person
	for _, p := range s.people {
		if hobbiesIntersect(p.Hobbies, s.filters) {
			out = append(out, p)
		}
	}
	return out
}

// VisibleMeetups applies the current hobby filter to the fetched meetups.
func (s *MapSession) VisibleMeetups() []models.Meetup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.filters) == 0 {
		return append([]models.Meetup(nil), s.meetups...)
	}
	var out []models.Meetup
	for _, m := range s.meetups {
		if hobbiesIntersect(m.Hobbies, s.filters) {
			out = append(out, m)
		}
	}
	return out
}
