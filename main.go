package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"hobbymeet/config"
	"hobbymeet/middleware"
	"hobbymeet/services"
	"hobbymeet/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var (
		profileStore storage.ProfileStore
		meetupRepo   storage.MeetupRepo
		peopleRepo   storage.PeopleRepo
		geoIndex     storage.GeoIndex
	)

	switch cfg.StoreBackend {
	case config.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		db, err := storage.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("MongoDB connection failed: %v", err)
		}
		if err := storage.EnsureSeedData(ctx, db); err != nil {
			log.Fatalf("Failed to seed MongoDB: %v", err)
		}
		profileStore = storage.NewRedisProfileStore(redisClient)
		geoIndex = storage.NewRedisGeoIndex(redisClient)
		meetupRepo = storage.NewMongoMeetupRepo(db)
		peopleRepo = storage.NewMongoPeopleRepo(db)
	default:
		log.Println("Using in-memory storage with seed data")
		profileStore = storage.NewMemoryProfileStore()
		geoIndex = storage.NewMemoryGeoIndex()
		meetupRepo = storage.NewMemoryMeetupRepo(storage.SeedMeetups(time.Now()))
		peopleRepo = storage.NewMemoryPeopleRepo(storage.SeedPeople())
	}

	sessions := services.NewSessionService(profileStore, geoIndex, cfg.JWTSecret, cfg.AuthMode == config.AuthModeMock)
	discovery := services.NewMeetupService(meetupRepo, peopleRepo)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()
	r := newRouter(cfg, sessions, discovery, limiter)

	log.Printf("Server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
