package storage

import (
	"time"

	"hobbymeet/models"
)

// SeedPeople returns the development roster shown on the map when no real
// backend is configured.
func SeedPeople() []models.Person {
	return []models.Person{
		{
			ID:       1,
			Name:     "Alex Chen",
			Avatar:   "https://i.pravatar.cc/150?img=1",
			Location: models.UserLocation{Lat: 40.7128, Lng: -74.006},
			Hobbies:  []string{"Photography", "Hiking", "Painting"},
			Active:   true,
			Premium:  true,
			Privacy:  models.PrivacyPublic,
		},
		{
			ID:       2,
			Name:     "Jordan Taylor",
			Avatar:   "https://i.pravatar.cc/150?img=2",
			Location: models.UserLocation{Lat: 40.7148, Lng: -74.012},
			Hobbies:  []string{"Cooking", "Reading", "Gaming"},
			Active:   true,
			Privacy:  models.PrivacyPublic,
		},
		{
			ID:       3,
			Name:     "Sam Rivera",
			Avatar:   "https://i.pravatar.cc/150?img=3",
			Location: models.UserLocation{Lat: 40.7168, Lng: -74.002},
			Hobbies:  []string{"Hiking", "Yoga", "Photography"},
			Active:   true,
			Privacy:  models.PrivacyPublic,
		},
		{
			ID:       4,
			Name:     "Morgan Lee",
			Avatar:   "https://i.pravatar.cc/150?img=4",
			Location: models.UserLocation{Lat: 40.7108, Lng: -74.009},
			Hobbies:  []string{"Dancing", "Music", "Reading"},
			Active:   true,
			Premium:  true,
			Privacy:  models.PrivacyPublic,
		},
		{
			ID:       5,
			Name:     "Casey Kim",
			Avatar:   "https://i.pravatar.cc/150?img=5",
			Location: models.UserLocation{Lat: 40.7138, Lng: -73.998},
			Hobbies:  []string{"Gaming", "Coding", "Movies"},
			Active:   true,
			Privacy:  models.PrivacyPublic,
		},
	}
}

// SeedMeetups returns the development meetup set. Relative times are anchored
// to now so the scheduled entries stay in the future.
func SeedMeetups(now time.Time) []models.Meetup {
	return []models.Meetup{
		{
			ID:          1,
			Title:       "Photography Walk in Central Park",
			Description: "Join us for a casual photography session in Central Park. All skill levels welcome!",
			HostID:      1,
			Location: models.UserLocation{
				Lat:     40.785091,
				Lng:     -73.968285,
				Address: "Central Park, New York, NY",
			},
			Hobbies:      []string{"Photography", "Hiking"},
			StartTime:    now.Add(24 * time.Hour),
			EndTime:      now.Add(25 * time.Hour),
			IsRealTime:   false,
			MaxAttendees: 10,
			Attendees:    []int64{1, 2, 3},
			Privacy:      models.MeetupPublic,
			CreatedAt:    now,
		},
		{
			ID:          2,
			Title:       "Board Game Night",
			Description: "Weekly board game meetup. We have various games but feel free to bring your own!",
			HostID:      2,
			Location: models.UserLocation{
				Lat:     40.7112,
				Lng:     -74.013,
				Address: "The Board Room Cafe, 234 Main St, New York, NY",
			},
			Hobbies:      []string{"Board Games", "Gaming"},
			StartTime:    now.Add(48 * time.Hour),
			EndTime:      now.Add(49 * time.Hour),
			IsRealTime:   false,
			MaxAttendees: 15,
			Attendees:    []int64{2, 4, 5},
			Privacy:      models.MeetupPublic,
			CreatedAt:    now,
		},
		{
			ID:          3,
			Title:       "Painting in the Park",
			Description: "Drop-in painting session happening now! Bring your supplies and join us.",
			HostID:      3,
			Location: models.UserLocation{
				Lat:     40.7135,
				Lng:     -73.994,
				Address: "Washington Square Park, New York, NY",
			},
			Hobbies:    []string{"Painting", "Drawing"},
			StartTime:  now,
			IsRealTime: true,
			Attendees:  []int64{3, 1},
			Privacy:    models.MeetupPublic,
			CreatedAt:  now,
		},
	}
}
