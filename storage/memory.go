package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"hobbymeet/models"
	"hobbymeet/utils"
	apierrors "hobbymeet/utils/errors"
)

// MemoryProfileStore keeps the serialized profile slot in process memory.
// Values go through JSON so the memory and Redis stores share the same
// round-trip behavior.
type MemoryProfileStore struct {
	mu    sync.RWMutex
	slots map[int64][]byte
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{slots: make(map[int64][]byte)}
}

func (s *MemoryProfileStore) Save(ctx context.Context, profile models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return apierrors.Wrap(err, "PERSISTENCE_ERROR", "Failed to serialize profile", apierrors.ErrPersistence.Status)
	}
	s.mu.Lock()
	s.slots[profile.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryProfileStore) Load(ctx context.Context, userID int64) (models.UserProfile, bool, error) {
	s.mu.RLock()
	data, ok := s.slots[userID]
	s.mu.RUnlock()
	if !ok {
		return models.UserProfile{}, false, nil
	}
	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return models.UserProfile{}, false, apierrors.ErrPersistence
	}
	if err := profile.Validate(); err != nil {
		return models.UserProfile{}, false, apierrors.ErrPersistence
	}
	return profile, true, nil
}

func (s *MemoryProfileStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.slots, userID)
	s.mu.Unlock()
	return nil
}

type MemoryMeetupRepo struct {
	mu      sync.RWMutex
	meetups map[int64]models.Meetup
	nextID  int64
}

func NewMemoryMeetupRepo(seed []models.Meetup) *MemoryMeetupRepo {
	repo := &MemoryMeetupRepo{meetups: make(map[int64]models.Meetup), nextID: 1}
	for _, m := range seed {
		repo.meetups[m.ID] = m
		if m.ID >= repo.nextID {
			repo.nextID = m.ID + 1
		}
	}
	return repo
}

func (r *MemoryMeetupRepo) All(ctx context.Context) ([]models.Meetup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Meetup, 0, len(r.meetups))
	for _, m := range r.meetups {
		out = append(out, m)
	}
	sortMeetupsByID(out)
	return out, nil
}

func (r *MemoryMeetupRepo) Get(ctx context.Context, id int64) (models.Meetup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetups[id]
	return m, ok, nil
}

func (r *MemoryMeetupRepo) Insert(ctx context.Context, m models.Meetup) (models.Meetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	r.meetups[m.ID] = m
	return m, nil
}

func (r *MemoryMeetupRepo) Update(ctx context.Context, m models.Meetup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetups[m.ID]; !ok {
		return apierrors.ErrNotFound
	}
	r.meetups[m.ID] = m
	return nil
}

func sortMeetupsByID(ms []models.Meetup) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].ID < ms[j].ID })
}

type MemoryPeopleRepo struct {
	mu     sync.RWMutex
	people []models.Person
}

func NewMemoryPeopleRepo(seed []models.Person) *MemoryPeopleRepo {
	return &MemoryPeopleRepo{people: seed}
}

func (r *MemoryPeopleRepo) All(ctx context.Context) ([]models.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Person, len(r.people))
	copy(out, r.people)
	return out, nil
}

func (r *MemoryPeopleRepo) Get(ctx context.Context, id int64) (models.Person, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.people {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Person{}, false, nil
}

// MemoryGeoIndex mirrors the Redis geo set for single-process runs, using a
// haversine scan over the tracked positions.
type MemoryGeoIndex struct {
	mu        sync.RWMutex
	positions map[int64][2]float64
}

func NewMemoryGeoIndex() *MemoryGeoIndex {
	return &MemoryGeoIndex{positions: make(map[int64][2]float64)}
}

func (g *MemoryGeoIndex) Set(ctx context.Context, id int64, lat, lng float64) error {
	g.mu.Lock()
	g.positions[id] = [2]float64{lat, lng}
	g.mu.Unlock()
	return nil
}

func (g *MemoryGeoIndex) Remove(ctx context.Context, id int64) error {
	g.mu.Lock()
	delete(g.positions, id)
	g.mu.Unlock()
	return nil
}

func (g *MemoryGeoIndex) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]GeoEntry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []GeoEntry
	for id, pos := range g.positions {
		dist := utils.HaversineKm(lat, lng, pos[0], pos[1])
		if dist <= radiusKm {
			out = append(out, GeoEntry{ID: id, Lat: pos[0], Lng: pos[1], DistanceKm: dist})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
