package models

import "time"

type PrivacyLevel string

const (
	PrivacyPublic    PrivacyLevel = "public"
	PrivacyHobbyOnly PrivacyLevel = "hobby-only"
	PrivacyAnonymous PrivacyLevel = "anonymous"
)

func (p PrivacyLevel) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyHobbyOnly, PrivacyAnonymous:
		return true
	}
	return false
}

type UserRole string

const (
	RoleFree    UserRole = "free"
	RolePremium UserRole = "premium"
)

func (r UserRole) Valid() bool {
	return r == RoleFree || r == RolePremium
}

type UserLocation struct {
	Lat         float64   `json:"lat" bson:"lat"`
	Lng         float64   `json:"lng" bson:"lng"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	LastUpdated time.Time `json:"last_updated,omitempty" bson:"last_updated,omitempty"`
}

// InRange reports whether the coordinates are valid WGS84 values.
func (l UserLocation) InRange() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

type NotificationPreferences struct {
	Email           bool `json:"email" bson:"email"`
	Push            bool `json:"push" bson:"push"`
	MeetupReminders bool `json:"meetup_reminders" bson:"meetup_reminders"`
	NewMessages     bool `json:"new_messages" bson:"new_messages"`
	NewFollowers    bool `json:"new_followers" bson:"new_followers"`
}

type UserProfile struct {
	ID            int64                   `json:"id" bson:"_id"`
	Name          string                  `json:"name" bson:"name"`
	Avatar        string                  `json:"avatar" bson:"avatar"`
	Bio           string                  `json:"bio,omitempty" bson:"bio,omitempty"`
	Email         string                  `json:"email,omitempty" bson:"email,omitempty"`
	Phone         string                  `json:"phone,omitempty" bson:"phone,omitempty"`
	Location      UserLocation            `json:"location" bson:"location"`
	Hobbies       []string                `json:"hobbies" bson:"hobbies"`
	Privacy       PrivacyLevel            `json:"privacy" bson:"privacy"`
	Active        bool                    `json:"active" bson:"active"`
	Role          UserRole                `json:"role" bson:"role"`
	JoinDate      time.Time               `json:"join_date" bson:"join_date"`
	Following     []int64                 `json:"following" bson:"following"`
	Followers     []int64                 `json:"followers" bson:"followers"`
	BlockedUsers  []int64                 `json:"blocked_users" bson:"blocked_users"`
	MeetupsHosted int                     `json:"meetups_hosted" bson:"meetups_hosted"`
	MeetupsJoined int                     `json:"meetups_joined" bson:"meetups_joined"`
	LastActive    time.Time               `json:"last_active,omitempty" bson:"last_active,omitempty"`
	Notifications NotificationPreferences `json:"notification_preferences" bson:"notification_preferences"`
}

// Validate checks the structural invariants a stored profile must satisfy.
// A profile loaded from the persistence slot that fails this check is
// treated as corrupt.
func (u UserProfile) Validate() error {
	if u.ID < 0 {
		return errInvalidProfile("id must not be negative")
	}
	if u.Name == "" {
		return errInvalidProfile("name is required")
	}
	if !u.Privacy.Valid() {
		return errInvalidProfile("unknown privacy level")
	}
	if !u.Role.Valid() {
		return errInvalidProfile("unknown role")
	}
	if !u.Location.InRange() {
		return errInvalidProfile("location out of range")
	}
	seen := make(map[string]bool, len(u.Hobbies))
	for _, h := range u.Hobbies {
		if seen[h] {
			return errInvalidProfile("duplicate hobby " + h)
		}
		seen[h] = true
	}
	for _, blocked := range u.BlockedUsers {
		for _, f := range u.Following {
			if blocked == f {
				return errInvalidProfile("blocked user is still followed")
			}
		}
	}
	return nil
}

// Clone returns a copy of the profile whose slice fields do not share
// backing arrays with the original. Snapshots handed to callers must not
// change when the live profile is mutated later.
func (u UserProfile) Clone() UserProfile {
	out := u
	out.Hobbies = cloneStrings(u.Hobbies)
	out.Following = cloneIDs(u.Following)
	out.Followers = cloneIDs(u.Followers)
	out.BlockedUsers = cloneIDs(u.BlockedUsers)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneIDs(in []int64) []int64 {
	if in == nil {
		return nil
	}
	out := make([]int64, len(in))
	copy(out, in)
	return out
}

// Person is the discoverable roster entry rendered on the map. It carries
// only the fields other users are allowed to see.
type Person struct {
	ID       int64        `json:"id" bson:"_id"`
	Name     string       `json:"name" bson:"name"`
	Avatar   string       `json:"avatar" bson:"avatar"`
	Location UserLocation `json:"location" bson:"location"`
	Hobbies  []string     `json:"hobbies" bson:"hobbies"`
	Active   bool         `json:"active" bson:"active"`
	Premium  bool         `json:"premium" bson:"premium"`
	Privacy  PrivacyLevel `json:"privacy,omitempty" bson:"privacy,omitempty"`
}
