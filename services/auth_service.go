package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"hobbymeet/models"
	apierrors "hobbymeet/utils/errors"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type account struct {
	passwordHash string
	profile      models.UserProfile
}

// RegisterAccount seeds a credential-checked account for account-mode auth.
func (s *SessionService) RegisterAccount(username, password string, profile models.UserProfile) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apierrors.Wrap(err, "HASH_ERROR", "failed to hash password", http.StatusInternalServerError)
	}
	s.mu.Lock()
	s.accounts[username] = account{passwordHash: string(hash), profile: profile.Clone()}
	s.mu.Unlock()
	return nil
}

// Login resolves credentials to a profile, opens the session, seeds the
// initial notification list, persists the profile and issues a session
// token. In mock mode any credentials resolve the demo profile.
func (s *SessionService) Login(ctx context.Context, creds Credentials) (models.UserProfile, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profile models.UserProfile
	if s.mockAuth {
		profile = demoProfile(s.now())
	} else {
		acct, ok := s.accounts[creds.Username]
		if !ok {
			return models.UserProfile{}, "", apierrors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(creds.Password)); err != nil {
			return models.UserProfile{}, "", apierrors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
		}
		profile = acct.profile.Clone()
	}

	sess := &Session{Profile: profile, Authenticated: true}
	s.sessions[profile.ID] = sess
	s.seedNotifications(sess)
	if err := s.save(ctx, sess); err != nil {
		return models.UserProfile{}, "", err
	}
	s.syncGeo(ctx, profile)

	token, err := s.issueToken(profile)
	if err != nil {
		return models.UserProfile{}, "", err
	}
	log.Printf("User %d logged in", profile.ID)
	return sess.Profile.Clone(), token, nil
}

// Logout resets the session to the guest default and clears the persisted
// slot. The notification list does not survive it.
func (s *SessionService) Logout(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	if s.geo != nil {
		if err := s.geo.Remove(ctx, userID); err != nil {
			log.Printf("Failed to remove user %d from geo index: %v", userID, err)
		}
	}
	if err := s.store.Clear(ctx, userID); err != nil {
		return err
	}
	log.Printf("User %d logged out", userID)
	return nil
}

func (s *SessionService) issueToken(profile models.UserProfile) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": profile.ID,
		"name":   profile.Name,
		"exp":    s.now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apierrors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}
	return signed, nil
}

// seedNotifications populates the fresh session's inbox. Caller holds the
// service lock.
func (s *SessionService) seedNotifications(sess *Session) {
	now := s.now()
	s.notifSeq++
	sess.Notifications = []models.Notification{{
		ID:        s.notifSeq,
		UserID:    sess.Profile.ID,
		Type:      models.NotificationMeetup,
		Title:     "New meetup nearby!",
		Message:   "There's a new Photography meetup in your area",
		RelatedID: 123,
		CreatedAt: now,
	}}
	s.notifSeq++
	sess.Notifications = append(sess.Notifications, models.Notification{
		ID:        s.notifSeq,
		UserID:    sess.Profile.ID,
		Type:      models.NotificationFollow,
		Title:     "New follower",
		Message:   "Sarah started following you",
		RelatedID: 456,
		CreatedAt: now.Add(-24 * time.Hour),
	})
}

func defaultNotificationPreferences() models.NotificationPreferences {
	return models.NotificationPreferences{
		Email:           true,
		Push:            true,
		MeetupReminders: true,
		NewMessages:     true,
		NewFollowers:    true,
	}
}

// guestProfile is the signed-out default adopted on logout or when the
// persisted slot is unusable.
func guestProfile(now time.Time) models.UserProfile {
	return models.UserProfile{
		ID:            0,
		Name:          "Guest User",
		Avatar:        "https://i.pravatar.cc/150?img=0",
		Location:      models.UserLocation{Lat: 40.7128, Lng: -74.006},
		Hobbies:       []string{},
		Privacy:       models.PrivacyPublic,
		Active:        false,
		Role:          models.RoleFree,
		JoinDate:      now,
		Following:     []int64{},
		Followers:     []int64{},
		BlockedUsers:  []int64{},
		Notifications: defaultNotificationPreferences(),
	}
}

// demoProfile is the profile every mock-mode login resolves to.
func demoProfile(now time.Time) models.UserProfile {
	return models.UserProfile{
		ID:     1,
		Name:   "Demo User",
		Avatar: "https://i.pravatar.cc/150?img=11",
		Email:  "demo@example.com",
		Bio:    "I love trying new hobbies and meeting interesting people!",
		Location: models.UserLocation{
			Lat:     40.7128,
			Lng:     -74.006,
			Address: "New York, NY",
		},
		Hobbies:       []string{"Photography", "Hiking", "Painting"},
		Privacy:       models.PrivacyPublic,
		Active:        false,
		Role:          models.RoleFree,
		JoinDate:      now,
		Following:     []int64{},
		Followers:     []int64{},
		BlockedUsers:  []int64{},
		MeetupsHosted: 3,
		MeetupsJoined: 8,
		LastActive:    now,
		Notifications: defaultNotificationPreferences(),
	}
}
