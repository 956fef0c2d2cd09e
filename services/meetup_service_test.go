package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbymeet/models"
	"hobbymeet/storage"
	apierrors "hobbymeet/utils/errors"
)

func newTestMeetupService() *MeetupService {
	svc := NewMeetupService(
		storage.NewMemoryMeetupRepo(storage.SeedMeetups(fixedNow)),
		storage.NewMemoryPeopleRepo(storage.SeedPeople()),
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func meetupIDs(ms []models.Meetup) []int64 {
	ids := make([]int64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMeetupsByHobbies(t *testing.T) {
	svc := newTestMeetupService()
	ctx := context.Background()

	all, err := svc.MeetupsByHobbies(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	photo, err := svc.MeetupsByHobbies(ctx, []string{"Photography"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, meetupIDs(photo))

	// OR semantics: any tag in common is a match.
	either, err := svc.MeetupsByHobbies(ctx, []string{"Photography", "Drawing"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, meetupIDs(either))

	none, err := svc.MeetupsByHobbies(ctx, []string{"Astronomy"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMeetupsByLocationAppliesRadius(t *testing.T) {
	svc := newTestMeetupService()
	ctx := context.Background()

	// Downtown Manhattan viewpoint. Board Game Night and Painting in the
	// Park are within 2 km; the Central Park walk is ~8.5 km out.
	near, err := svc.MeetupsByLocation(ctx, 40.7128, -74.006, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, meetupIDs(near))

	// Non-positive radius falls back to the 10 km default, which covers
	// all three.
	all, err := svc.MeetupsByLocation(ctx, 40.7128, -74.006, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.MeetupsByLocation(ctx, 91, -74.006, 10)
	require.Error(t, err)
}

func TestCreateMeetupDefaultsEndTime(t *testing.T) {
	svc := newTestMeetupService()
	start := fixedNow.Add(48 * time.Hour)

	created, err := svc.Create(context.Background(), models.MeetupDraft{
		Title:     "Chess Night",
		HostID:    1,
		Location:  models.UserLocation{Lat: 40.72, Lng: -74.0},
		Hobbies:   []string{"Chess"},
		StartTime: start,
		Attendees: []int64{1},
		Privacy:   models.MeetupPublic,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, start.Add(time.Hour), created.EndTime)
	assert.Equal(t, []int64{1}, created.Attendees)
}

func TestCreateMeetupEnforcesHostAttendance(t *testing.T) {
	svc := newTestMeetupService()

	created, err := svc.Create(context.Background(), models.MeetupDraft{
		Title:     "Morning Yoga",
		HostID:    3,
		Location:  models.UserLocation{Lat: 40.71, Lng: -74.0},
		Hobbies:   []string{"Yoga"},
		StartTime: fixedNow.Add(24 * time.Hour),
		Attendees: []int64{4, 5},
		Privacy:   models.MeetupPublic,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, created.Attendees)
}

func TestCreateMeetupValidation(t *testing.T) {
	svc := newTestMeetupService()
	ctx := context.Background()
	base := models.MeetupDraft{
		Title:     "Test",
		HostID:    1,
		Location:  models.UserLocation{Lat: 40.72, Lng: -74.0},
		Hobbies:   []string{"Chess"},
		StartTime: fixedNow.Add(time.Hour),
		Privacy:   models.MeetupPublic,
	}

	missingTitle := base
	missingTitle.Title = ""
	_, err := svc.Create(ctx, missingTitle)
	require.Error(t, err)

	pastStart := base
	pastStart.StartTime = fixedNow.Add(-time.Hour)
	_, err = svc.Create(ctx, pastStart)
	require.Error(t, err)

	realTimeWithEnd := base
	realTimeWithEnd.IsRealTime = true
	realTimeWithEnd.EndTime = fixedNow.Add(2 * time.Hour)
	_, err = svc.Create(ctx, realTimeWithEnd)
	require.Error(t, err)

	endBeforeStart := base
	endBeforeStart.EndTime = base.StartTime.Add(-time.Minute)
	_, err = svc.Create(ctx, endBeforeStart)
	require.Error(t, err)

	overCap := base
	overCap.MaxAttendees = 2
	overCap.Attendees = []int64{1, 2, 3}
	_, err = svc.Create(ctx, overCap)
	require.Error(t, err)

	noHobbies := base
	noHobbies.Hobbies = nil
	_, err = svc.Create(ctx, noHobbies)
	require.Error(t, err)

	// A real-time draft with no start time begins now.
	realTime := base
	realTime.IsRealTime = true
	realTime.StartTime = time.Time{}
	created, err := svc.Create(ctx, realTime)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, created.StartTime)
	assert.True(t, created.EndTime.IsZero())
}

func TestRSVPRejectsFullAndDuplicate(t *testing.T) {
	svc := newTestMeetupService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.MeetupDraft{
		Title:        "Tiny Climb",
		HostID:       1,
		Location:     models.UserLocation{Lat: 40.72, Lng: -74.0},
		Hobbies:      []string{"Climbing"},
		StartTime:    fixedNow.Add(time.Hour),
		MaxAttendees: 2,
		Privacy:      models.MeetupPublic,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RSVP(ctx, created.ID, 9))

	// Full: the cap of 2 is reached.
	err = svc.RSVP(ctx, created.ID, 10)
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrCapacityFull, err)

	after, ok, err := svc.meetups.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 9}, after.Attendees)

	// Duplicate RSVPs fail without mutating.
	err = svc.RSVP(ctx, created.ID, 9)
	require.Error(t, err)

	err = svc.RSVP(ctx, 9999, 9)
	assert.Equal(t, apierrors.ErrNotFound, err)
}

func TestVisiblePeopleFiltering(t *testing.T) {
	svc := newTestMeetupService()
	ctx := context.Background()

	everyone, err := svc.VisiblePeople(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, everyone, 5)

	hikers, err := svc.VisiblePeople(ctx, []string{"Hiking"})
	require.NoError(t, err)
	require.Len(t, hikers, 2)
	assert.Equal(t, "Alex Chen", hikers[0].Name)
	assert.Equal(t, "Sam Rivera", hikers[1].Name)
}

func TestVisiblePeopleExcludesInactiveAndMasksAnonymous(t *testing.T) {
	people := storage.SeedPeople()
	people[1].Active = false
	people[2].Privacy = models.PrivacyAnonymous
	svc := NewMeetupService(
		storage.NewMemoryMeetupRepo(nil),
		storage.NewMemoryPeopleRepo(people),
	)

	visible, err := svc.VisiblePeople(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, visible, 4)
	for _, p := range visible {
		assert.NotEqual(t, "Jordan Taylor", p.Name)
	}
	// The anonymous entry keeps its hobbies but not its identity.
	assert.Equal(t, "Anonymous", visible[1].Name)
	assert.Empty(t, visible[1].Avatar)
	assert.Contains(t, visible[1].Hobbies, "Yoga")
}

func TestAllHobbiesDerivation(t *testing.T) {
	svc := newTestMeetupService()

	hobbies, err := svc.AllHobbies(context.Background())
	require.NoError(t, err)
	assert.Len(t, hobbies, 11)
	assert.Contains(t, hobbies, "Photography")
	assert.Contains(t, hobbies, "Movies")

	seen := make(map[string]bool)
	for _, h := range hobbies {
		assert.False(t, seen[h], "duplicate hobby %s", h)
		seen[h] = true
	}
}
