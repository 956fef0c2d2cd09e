package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"hobbymeet/config"
	"hobbymeet/handlers"
	"hobbymeet/metrics"
	"hobbymeet/middleware"
	"hobbymeet/services"
)

func newRouter(cfg *config.Config, sessions *services.SessionService, discovery *services.MeetupService, limiter *middleware.RateLimiter) *mux.Router {
	authHandler := handlers.NewAuthHandler(sessions)
	userHandler := handlers.NewUserHandler(sessions)
	meetupHandler := handlers.NewMeetupHandler(discovery)

	r := mux.NewRouter()

	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.ErrorMiddleware())
	r.Use(metrics.Middleware())
	r.Use(limiter.Middleware())

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")
	logoutRouter := r.PathPrefix("/auth/logout").Subrouter()
	logoutRouter.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	logoutRouter.HandleFunc("", authHandler.Logout).Methods("POST", "OPTIONS")

	// User routes
	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	userRouter.HandleFunc("/profile", userHandler.GetProfile).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/profile", userHandler.UpdateProfile).Methods("PATCH", "OPTIONS")
	userRouter.HandleFunc("/hobbies", userHandler.UpdateHobbies).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/privacy", userHandler.UpdatePrivacy).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/active/toggle", userHandler.ToggleActive).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/upgrade", userHandler.Upgrade).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/follow", userHandler.Follow).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/unfollow", userHandler.Unfollow).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/block", userHandler.Block).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/unblock", userHandler.Unblock).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/report", userHandler.Report).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/message", userHandler.SendMessage).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/notifications", userHandler.Notifications).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/notifications/{id}/read", userHandler.MarkNotificationRead).Methods("POST", "OPTIONS")

	// Discovery routes
	r.HandleFunc("/meetups", meetupHandler.GetByLocation).Methods("GET", "OPTIONS")
	r.HandleFunc("/meetups/hobbies", meetupHandler.GetByHobbies).Methods("GET", "OPTIONS")
	r.HandleFunc("/people", meetupHandler.GetPeople).Methods("GET", "OPTIONS")
	r.HandleFunc("/people/nearby", userHandler.NearbyPeople).Methods("GET", "OPTIONS")
	r.HandleFunc("/hobbies", meetupHandler.GetHobbies).Methods("GET", "OPTIONS")

	meetupWriteRouter := r.PathPrefix("/meetups").Subrouter()
	meetupWriteRouter.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	meetupWriteRouter.HandleFunc("", meetupHandler.Create).Methods("POST", "OPTIONS")
	meetupWriteRouter.HandleFunc("/{id:[0-9]+}/rsvp", meetupHandler.RSVP).Methods("POST", "OPTIONS")

	// Operational endpoints
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	return r
}
