package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hobbymeet/models"
	"hobbymeet/storage"
	apierrors "hobbymeet/utils/errors"
)

// Session is the in-memory state of one signed-in user: the profile plus the
// notification list. Notifications live only for the session; the profile is
// mirrored to the durable slot after every mutation.
type Session struct {
	Profile       models.UserProfile
	Notifications []models.Notification
	Authenticated bool
}

// SessionService is the single source of truth for who is using the app and
// their social/privacy state.
type SessionService struct {
	mu        sync.Mutex
	store     storage.ProfileStore
	geo       storage.GeoIndex // optional
	sessions  map[int64]*Session
	accounts  map[string]account
	jwtSecret string
	mockAuth  bool
	notifSeq  int64
	now       func() time.Time
}

func NewSessionService(store storage.ProfileStore, geo storage.GeoIndex, jwtSecret string, mockAuth bool) *SessionService {
	return &SessionService{
		store:     store,
		geo:       geo,
		sessions:  make(map[int64]*Session),
		accounts:  make(map[string]account),
		jwtSecret: jwtSecret,
		mockAuth:  mockAuth,
		now:       time.Now,
	}
}

// session returns the live session for the user, restoring it from the
// durable slot after a restart. A missing or corrupt slot means the caller
// is not signed in.
func (s *SessionService) session(ctx context.Context, userID int64) (*Session, error) {
	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}
	profile, ok := s.loadStored(ctx, userID)
	if !ok {
		return nil, apierrors.ErrUnauthorized
	}
	sess := &Session{Profile: profile, Authenticated: true}
	s.sessions[userID] = sess
	return sess, nil
}

// loadStored reads the persistence slot. A corrupt record is discarded
// rather than surfaced, per the fail-open contract.
func (s *SessionService) loadStored(ctx context.Context, userID int64) (models.UserProfile, bool) {
	profile, ok, err := s.store.Load(ctx, userID)
	if err != nil {
		log.Printf("Discarding unreadable stored profile for user %d: %v", userID, err)
		if clearErr := s.store.Clear(ctx, userID); clearErr != nil {
			log.Printf("Failed to clear corrupt profile slot for user %d: %v", userID, clearErr)
		}
		return models.UserProfile{}, false
	}
	return profile, ok
}

// Restore is the boot-time adoption of a persisted profile. It returns the
// restored profile and true, or the guest default and false when the slot is
// absent or unreadable.
func (s *SessionService) Restore(ctx context.Context, userID int64) (models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.loadStored(ctx, userID)
	if !ok {
		return guestProfile(s.now()), false
	}
	s.sessions[userID] = &Session{Profile: profile, Authenticated: true}
	return profile.Clone(), true
}

// save mirrors the profile to the durable slot. Only authenticated sessions
// are persisted.
func (s *SessionService) save(ctx context.Context, sess *Session) error {
	if !sess.Authenticated {
		return nil
	}
	return s.store.Save(ctx, sess.Profile)
}

func (s *SessionService) Profile(ctx context.Context, userID int64) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return sess.Profile.Clone(), nil
}

// ToggleActiveStatus flips map visibility and returns the new state.
func (s *SessionService) ToggleActiveStatus(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return false, err
	}
	sess.Profile.Active = !sess.Profile.Active
	sess.Profile.LastActive = s.now()
	if err := s.save(ctx, sess); err != nil {
		return false, err
	}
	s.syncGeo(ctx, sess.Profile)
	if sess.Profile.Active {
		log.Printf("User %d is now active: other users can see them on the map", userID)
	} else {
		log.Printf("User %d is now inactive: hidden from the map", userID)
	}
	return sess.Profile.Active, nil
}

// syncGeo keeps the geo index in line with the profile's visibility.
func (s *SessionService) syncGeo(ctx context.Context, profile models.UserProfile) {
	if s.geo == nil {
		return
	}
	var err error
	if profile.Active {
		err = s.geo.Set(ctx, profile.ID, profile.Location.Lat, profile.Location.Lng)
	} else {
		err = s.geo.Remove(ctx, profile.ID)
	}
	if err != nil {
		log.Printf("Failed to update geo index for user %d: %v", profile.ID, err)
	}
}

// NearbyPerson is one hit of a nearby-people query: the tracked position
// plus whatever identity the person's privacy level allows.
type NearbyPerson struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name,omitempty"`
	Avatar     string  `json:"avatar,omitempty"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKm float64 `json:"distance_km"`
}

// NearbyPeople queries the geo index for active users within radiusKm of
// the point, nearest first. Only users who toggled themselves active are in
// the index, so absence from the result is the privacy default.
func (s *SessionService) NearbyPeople(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyPerson, error) {
	loc := models.UserLocation{Lat: lat, Lng: lng}
	if !loc.InRange() {
		return nil, apierrors.NewValidationError("location coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.geo == nil {
		return []NearbyPerson{}, nil
	}
	entries, err := s.geo.Nearby(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, apierrors.Wrap(err, "PERSISTENCE_ERROR", "Nearby query failed", apierrors.ErrPersistence.Status)
	}
	out := make([]NearbyPerson, 0, len(entries))
	for _, e := range entries {
		p := NearbyPerson{ID: e.ID, Lat: e.Lat, Lng: e.Lng, DistanceKm: e.DistanceKm}
		if sess, ok := s.sessions[e.ID]; ok && sess.Profile.Privacy != models.PrivacyAnonymous {
			p.Name = sess.Profile.Name
			p.Avatar = sess.Profile.Avatar
		}
		out = append(out, p)
	}
	return out, nil
}

// UpdateHobbies replaces the hobby set wholesale. Duplicates are collapsed
// keeping first-seen order, so the no-duplicates invariant holds regardless
// of caller input.
func (s *SessionService) UpdateHobbies(ctx context.Context, userID int64, hobbies []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.Hobbies = dedupStrings(hobbies)
	return s.save(ctx, sess)
}

func (s *SessionService) UpdatePrivacy(ctx context.Context, userID int64, privacy models.PrivacyLevel) error {
	if !privacy.Valid() {
		return apierrors.NewValidationError("privacy must be public, hobby-only or anonymous")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.Privacy = privacy
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	log.Printf("User %d privacy updated: profile is now %s", userID, privacy)
	return nil
}

func (s *SessionService) UpgradeRole(ctx context.Context, userID int64, role models.UserRole) error {
	if !role.Valid() {
		return apierrors.NewValidationError("role must be free or premium")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.Role = role
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	if role == models.RolePremium {
		s.pushNotification(sess, models.NotificationSystem, "Premium activated!", "You now have access to all premium features", 0)
		log.Printf("User %d upgraded to premium", userID)
	}
	return nil
}

// FollowUser adds the target to the following set. Following again is a
// no-op.
func (s *SessionService) FollowUser(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return apierrors.NewValidationError("cannot follow yourself")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.Following = addID(sess.Profile.Following, targetID)
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	// Fan out to the followed user's session if it is live.
	if target, ok := s.sessions[targetID]; ok && target.Profile.Notifications.NewFollowers {
		s.pushNotification(target, models.NotificationFollow, "New follower", sess.Profile.Name+" started following you", userID)
	}
	return nil
}

func (s *SessionService) UnfollowUser(ctx context.Context, userID, targetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.Following = removeID(sess.Profile.Following, targetID)
	return s.save(ctx, sess)
}

// BlockUser adds the target to the blocked set. Blocking implies
// unfollowing; the two sets stay disjoint.
func (s *SessionService) BlockUser(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return apierrors.NewValidationError("cannot block yourself")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.Following = removeID(sess.Profile.Following, targetID)
	sess.Profile.BlockedUsers = addID(sess.Profile.BlockedUsers, targetID)
	return s.save(ctx, sess)
}

func (s *SessionService) UnblockUser(ctx context.Context, userID, targetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.Profile.BlockedUsers = removeID(sess.Profile.BlockedUsers, targetID)
	return s.save(ctx, sess)
}

// ReportUser files a moderation report. Fire-and-forget: it always succeeds
// once validated, and the record is not kept in session state.
func (s *SessionService) ReportUser(ctx context.Context, userID, targetID int64, reason, description string) (models.Report, error) {
	if reason == "" {
		return models.Report{}, apierrors.NewValidationError("report reason is required")
	}
	report := models.Report{
		Reference:   uuid.New().String(),
		ReporterID:  userID,
		ReportedID:  targetID,
		Reason:      reason,
		Description: description,
		Status:      models.ReportPending,
		CreatedAt:   s.now(),
	}
	log.Printf("Report %s: user %d reported user %d for %s", report.Reference, userID, targetID, reason)
	return report, nil
}

// ProfileUpdate carries the optional fields of a batched profile edit.
// Nil means leave the field untouched.
type ProfileUpdate struct {
	Name          *string                         `json:"name,omitempty"`
	Avatar        *string                         `json:"avatar,omitempty"`
	Bio           *string                         `json:"bio,omitempty"`
	Email         *string                         `json:"email,omitempty"`
	Phone         *string                         `json:"phone,omitempty"`
	Privacy       *models.PrivacyLevel            `json:"privacy,omitempty"`
	Location      *models.UserLocation            `json:"location,omitempty"`
	Notifications *models.NotificationPreferences `json:"notification_preferences,omitempty"`
}

// UpdateProfile shallow-merges the provided fields into the profile.
func (s *SessionService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	if upd.Privacy != nil && !upd.Privacy.Valid() {
		return apierrors.NewValidationError("privacy must be public, hobby-only or anonymous")
	}
	if upd.Location != nil && !upd.Location.InRange() {
		return apierrors.NewValidationError("location coordinates out of range")
	}
	if upd.Name != nil && *upd.Name == "" {
		return apierrors.NewValidationError("name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	if upd.Name != nil {
		sess.Profile.Name = *upd.Name
	}
	if upd.Avatar != nil {
		sess.Profile.Avatar = *upd.Avatar
	}
	if upd.Bio != nil {
		sess.Profile.Bio = *upd.Bio
	}
	if upd.Email != nil {
		sess.Profile.Email = *upd.Email
	}
	if upd.Phone != nil {
		sess.Profile.Phone = *upd.Phone
	}
	if upd.Privacy != nil {
		sess.Profile.Privacy = *upd.Privacy
	}
	if upd.Location != nil {
		loc := *upd.Location
		loc.LastUpdated = s.now()
		sess.Profile.Location = loc
	}
	if upd.Notifications != nil {
		sess.Profile.Notifications = *upd.Notifications
	}
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	if upd.Location != nil {
		s.syncGeo(ctx, sess.Profile)
	}
	return nil
}

// Notifications returns the session's notification list, most recent first.
func (s *SessionService) Notifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, len(sess.Notifications))
	copy(out, sess.Notifications)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkNotificationRead sets the read flag. Reading is one-way; an unknown id
// leaves the list unchanged.
func (s *SessionService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	for i := range sess.Notifications {
		if sess.Notifications[i].ID == notificationID {
			sess.Notifications[i].IsRead = true
			break
		}
	}
	return nil
}

// SendMessage delivers a direct message. There is no real transport behind
// it; the send always succeeds once validated.
func (s *SessionService) SendMessage(ctx context.Context, userID, receiverID int64, content string) (models.Message, error) {
	if content == "" {
		return models.Message{}, apierrors.NewValidationError("message content is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(ctx, userID)
	if err != nil {
		return models.Message{}, err
	}
	msg := models.Message{
		ID:         uuid.New().String(),
		SenderID:   userID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  s.now(),
	}
	log.Printf("Message %s from user %d to user %d", msg.ID, userID, receiverID)
	if recv, ok := s.sessions[receiverID]; ok && recv.Profile.Notifications.NewMessages {
		s.pushNotification(recv, models.NotificationMessage, "New message", sess.Profile.Name+" sent you a message", userID)
	}
	return msg, nil
}

// pushNotification appends an unread notification to a live session.
// Callers hold the service lock.
func (s *SessionService) pushNotification(sess *Session, typ models.NotificationType, title, message string, relatedID int64) {
	s.notifSeq++
	sess.Notifications = append(sess.Notifications, models.Notification{
		ID:        s.notifSeq,
		UserID:    sess.Profile.ID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
		CreatedAt: s.now(),
	})
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func addID(ids []int64, id int64) []int64 {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// removeID allocates a fresh slice so earlier profile snapshots that share
// the backing array are not rewritten.
func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
