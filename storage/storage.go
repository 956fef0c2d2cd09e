// Package storage defines the repositories behind the session store and the
// discovery service, with in-memory implementations seeded for development
// and Redis/Mongo implementations for a real deployment.
package storage

import (
	"context"

	"hobbymeet/models"
)

// ProfileStore is the durable slot holding the serialized profile of an
// authenticated user. Save overwrites, Clear removes; Load reports absence
// via the boolean and a corrupt record via an error.
type ProfileStore interface {
	Save(ctx context.Context, profile models.UserProfile) error
	Load(ctx context.Context, userID int64) (models.UserProfile, bool, error)
	Clear(ctx context.Context, userID int64) error
}

type MeetupRepo interface {
	All(ctx context.Context) ([]models.Meetup, error)
	Get(ctx context.Context, id int64) (models.Meetup, bool, error)
	// Insert assigns the next id and stores the meetup, returning it with
	// the id filled in.
	Insert(ctx context.Context, m models.Meetup) (models.Meetup, error)
	Update(ctx context.Context, m models.Meetup) error
}

// PeopleRepo is the discoverable roster queried by the map view.
type PeopleRepo interface {
	All(ctx context.Context) ([]models.Person, error)
	Get(ctx context.Context, id int64) (models.Person, bool, error)
}

type GeoEntry struct {
	ID         int64
	Lat        float64
	Lng        float64
	DistanceKm float64
}

// GeoIndex tracks the last known position of active people for nearby
// queries. The Redis implementation backs it with a geospatial set.
// Nearby returns hits ordered nearest first.
type GeoIndex interface {
	Set(ctx context.Context, id int64, lat, lng float64) error
	Remove(ctx context.Context, id int64) error
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]GeoEntry, error)
}
