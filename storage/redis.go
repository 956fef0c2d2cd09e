package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"

	"hobbymeet/models"
	apierrors "hobbymeet/utils/errors"
)

const peopleGeoKey = "people:geo"

func profileKey(userID int64) string {
	return fmt.Sprintf("hobbymeet:user:%d", userID)
}

// RedisProfileStore keeps the serialized profile slot in Redis, one JSON
// value per user. No TTL: the slot lives until logout clears it.
type RedisProfileStore struct {
	client *redis.Client
}

func NewRedisProfileStore(client *redis.Client) *RedisProfileStore {
	return &RedisProfileStore{client: client}
}

func (s *RedisProfileStore) Save(ctx context.Context, profile models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return apierrors.Wrap(err, "PERSISTENCE_ERROR", "Failed to serialize profile", apierrors.ErrPersistence.Status)
	}
	if err := s.client.Set(ctx, profileKey(profile.ID), data, 0).Err(); err != nil {
		log.Printf("Failed to save profile %d to Redis: %v", profile.ID, err)
		return apierrors.Wrap(err, "PERSISTENCE_ERROR", "Failed to save profile", apierrors.ErrPersistence.Status)
	}
	return nil
}

func (s *RedisProfileStore) Load(ctx context.Context, userID int64) (models.UserProfile, bool, error) {
	data, err := s.client.Get(ctx, profileKey(userID)).Result()
	if err == redis.Nil {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, apierrors.Wrap(err, "PERSISTENCE_ERROR", "Failed to load profile", apierrors.ErrPersistence.Status)
	}
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		log.Printf("Corrupt stored profile for user %d: %v", userID, err)
		return models.UserProfile{}, false, apierrors.ErrPersistence
	}
	if err := profile.Validate(); err != nil {
		log.Printf("Stored profile for user %d failed validation: %v", userID, err)
		return models.UserProfile{}, false, apierrors.ErrPersistence
	}
	return profile, true, nil
}

func (s *RedisProfileStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return apierrors.Wrap(err, "PERSISTENCE_ERROR", "Failed to clear profile slot", apierrors.ErrPersistence.Status)
	}
	return nil
}

// RedisGeoIndex tracks active people in a Redis geospatial set.
type RedisGeoIndex struct {
	client *redis.Client
}

func NewRedisGeoIndex(client *redis.Client) *RedisGeoIndex {
	return &RedisGeoIndex{client: client}
}

func (g *RedisGeoIndex) Set(ctx context.Context, id int64, lat, lng float64) error {
	return g.client.GeoAdd(ctx, peopleGeoKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(id, 10),
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

func (g *RedisGeoIndex) Remove(ctx context.Context, id int64) error {
	return g.client.ZRem(ctx, peopleGeoKey, strconv.FormatInt(id, 10)).Err()
}

func (g *RedisGeoIndex) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]GeoEntry, error) {
	geoResults, err := g.client.GeoRadius(ctx, peopleGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		log.Printf("Redis GeoRadius error: %v", err)
		return nil, err
	}

	var out []GeoEntry
	for _, geoResult := range geoResults {
		id, err := strconv.ParseInt(geoResult.Name, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, GeoEntry{
			ID:         id,
			Lat:        geoResult.Latitude,
			Lng:        geoResult.Longitude,
			DistanceKm: geoResult.Dist,
		})
	}
	return out, nil
}
