package services

import (
	"context"
	"log"
	"time"

	"hobbymeet/models"
	"hobbymeet/storage"
	"hobbymeet/utils"
	apierrors "hobbymeet/utils/errors"
)

const DefaultRadiusKm = 10

// MeetupService computes the visible people/meetups for the map view and
// serves meetup creation and RSVP.
type MeetupService struct {
	meetups storage.MeetupRepo
	people  storage.PeopleRepo
	now     func() time.Time
}

func NewMeetupService(meetups storage.MeetupRepo, people storage.PeopleRepo) *MeetupService {
	return &MeetupService{meetups: meetups, people: people, now: time.Now}
}

// MeetupsByLocation returns meetups within radiusKm of the point, closest
// semantics by a haversine cutoff. A non-positive radius means the default.
func (s *MeetupService) MeetupsByLocation(ctx context.Context, lat, lng, radiusKm float64) ([]models.Meetup, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apierrors.NewValidationError("coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	all, err := s.meetups.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Meetup
	for _, m := range all {
		if utils.HaversineKm(lat, lng, m.Location.Lat, m.Location.Lng) <= radiusKm {
			out = append(out, m)
		}
	}
	log.Printf("Found %d meetups within %.1f km", len(out), radiusKm)
	return out, nil
}

// MeetupsByHobbies returns meetups whose tags intersect the filter set.
// An empty filter matches everything.
func (s *MeetupService) MeetupsByHobbies(ctx context.Context, hobbies []string) ([]models.Meetup, error) {
	all, err := s.meetups.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(hobbies) == 0 {
		return all, nil
	}
	var out []models.Meetup
	for _, m := range all {
		if hobbiesIntersect(m.Hobbies, hobbies) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Create validates the draft and stores it with a fresh id and creation
// timestamp. The host is always on the attendee list; a scheduled meetup
// without an end time gets start+1h.
func (s *MeetupService) Create(ctx context.Context, draft models.MeetupDraft) (models.Meetup, error) {
	if draft.Title == "" {
		return models.Meetup{}, apierrors.NewValidationError("title is required")
	}
	if draft.HostID <= 0 {
		return models.Meetup{}, apierrors.NewValidationError("host id is required")
	}
	if !draft.Location.InRange() {
		return models.Meetup{}, apierrors.NewValidationError("location coordinates out of range")
	}
	if len(draft.Hobbies) == 0 {
		return models.Meetup{}, apierrors.NewValidationError("at least one hobby tag is required")
	}
	if !draft.Privacy.Valid() {
		return models.Meetup{}, apierrors.NewValidationError("privacy must be public, private or invite-only")
	}

	now := s.now()
	m := models.Meetup{
		Title:        draft.Title,
		Description:  draft.Description,
		HostID:       draft.HostID,
		Location:     draft.Location,
		Hobbies:      dedupStrings(draft.Hobbies),
		StartTime:    draft.StartTime,
		EndTime:      draft.EndTime,
		IsRealTime:   draft.IsRealTime,
		MaxAttendees: draft.MaxAttendees,
		Attendees:    append([]int64(nil), draft.Attendees...),
		Privacy:      draft.Privacy,
		CreatedAt:    now,
		Price:        draft.Price,
		IsPremium:    draft.IsPremium,
	}

	if m.IsRealTime {
		if !m.EndTime.IsZero() {
			return models.Meetup{}, apierrors.NewValidationError("a real-time meetup has no end time at creation")
		}
		if m.StartTime.IsZero() {
			m.StartTime = now
		}
	} else {
		if m.StartTime.IsZero() {
			return models.Meetup{}, apierrors.NewValidationError("start time is required for a scheduled meetup")
		}
		if m.StartTime.Before(now) {
			return models.Meetup{}, apierrors.NewValidationError("start time must not be in the past")
		}
		if m.EndTime.IsZero() {
			m.EndTime = m.StartTime.Add(time.Hour)
		} else if m.EndTime.Before(m.StartTime) {
			return models.Meetup{}, apierrors.NewValidationError("end time must not be before start time")
		}
	}

	if !m.HasAttendee(m.HostID) {
		m.Attendees = append([]int64{m.HostID}, m.Attendees...)
	}
	if m.MaxAttendees > 0 && len(m.Attendees) > m.MaxAttendees {
		return models.Meetup{}, apierrors.NewValidationError("attendee list exceeds the cap")
	}

	created, err := s.meetups.Insert(ctx, m)
	if err != nil {
		return models.Meetup{}, err
	}
	log.Printf("New meetup created: %d %q", created.ID, created.Title)
	return created, nil
}

// RSVP adds the user to the attendee list. It rejects an unknown meetup, a
// full one, and a duplicate attendee, leaving the list unchanged in each
// failure case.
func (s *MeetupService) RSVP(ctx context.Context, meetupID, userID int64) error {
	m, ok, err := s.meetups.Get(ctx, meetupID)
	if err != nil {
		return err
	}
	if !ok {
		return apierrors.ErrNotFound
	}
	if m.HasAttendee(userID) {
		return apierrors.NewAPIError("ALREADY_ATTENDING", "User already RSVP'd to this meetup", apierrors.ErrConflict.Status)
	}
	if m.AtCapacity() {
		return apierrors.ErrCapacityFull
	}
	m.Attendees = append(m.Attendees, userID)
	if err := s.meetups.Update(ctx, m); err != nil {
		return err
	}
	log.Printf("User %d RSVP'd to meetup %d", userID, meetupID)
	return nil
}

// VisiblePeople returns the roster entries the map should render: active
// people whose hobbies intersect the filter (or everyone active when the
// filter is empty), with privacy masking applied.
func (s *MeetupService) VisiblePeople(ctx context.Context, hobbyFilter []string) ([]models.Person, error) {
	all, err := s.people.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Person
	for _, p := range all {
		if !p.Active {
			continue
		}
		if len(hobbyFilter) > 0 && !hobbiesIntersect(p.Hobbies, hobbyFilter) {
			continue
		}
		out = append(out, maskPerson(p))
	}
	return out, nil
}

// AllHobbies derives the unique hobby tags across the roster, in first-seen
// order.
func (s *MeetupService) AllHobbies(ctx context.Context) ([]string, error) {
	all, err := s.people.All(ctx)
	if err != nil {
		return nil, err
	}
	var hobbies []string
	for _, p := range all {
		hobbies = append(hobbies, p.Hobbies...)
	}
	return dedupStrings(hobbies), nil
}

// maskPerson hides identity fields the person's privacy level withholds.
func maskPerson(p models.Person) models.Person {
	if p.Privacy == models.PrivacyAnonymous {
		p.Name = "Anonymous"
		p.Avatar = ""
	}
	return p
}

func hobbiesIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
