package models

import (
	"fmt"
	"time"
)

type MeetupPrivacy string

const (
	MeetupPublic     MeetupPrivacy = "public"
	MeetupPrivate    MeetupPrivacy = "private"
	MeetupInviteOnly MeetupPrivacy = "invite-only"
)

func (p MeetupPrivacy) Valid() bool {
	switch p {
	case MeetupPublic, MeetupPrivate, MeetupInviteOnly:
		return true
	}
	return false
}

type Meetup struct {
	ID           int64         `json:"id" bson:"_id"`
	Title        string        `json:"title" bson:"title"`
	Description  string        `json:"description" bson:"description"`
	HostID       int64         `json:"host_id" bson:"host_id"`
	Location     UserLocation  `json:"location" bson:"location"`
	Hobbies      []string      `json:"hobbies" bson:"hobbies"`
	StartTime    time.Time     `json:"start_time" bson:"start_time"`
	EndTime      time.Time     `json:"end_time,omitempty" bson:"end_time,omitempty"`
	IsRealTime   bool          `json:"is_real_time" bson:"is_real_time"`
	MaxAttendees int           `json:"max_attendees,omitempty" bson:"max_attendees,omitempty"`
	Attendees    []int64       `json:"attendees" bson:"attendees"`
	Privacy      MeetupPrivacy `json:"privacy" bson:"privacy"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	Price        float64       `json:"price,omitempty" bson:"price,omitempty"`
	IsPremium    bool          `json:"is_premium,omitempty" bson:"is_premium,omitempty"`
}

// HasAttendee reports whether the user is already on the attendee list.
func (m Meetup) HasAttendee(userID int64) bool {
	for _, id := range m.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// AtCapacity reports whether the attendee cap is set and reached.
func (m Meetup) AtCapacity() bool {
	return m.MaxAttendees > 0 && len(m.Attendees) >= m.MaxAttendees
}

// MeetupDraft is the caller-supplied part of a meetup; the id and creation
// timestamp are assigned by the service.
type MeetupDraft struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	HostID       int64         `json:"host_id"`
	Location     UserLocation  `json:"location"`
	Hobbies      []string      `json:"hobbies"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time,omitempty"`
	IsRealTime   bool          `json:"is_real_time"`
	MaxAttendees int           `json:"max_attendees,omitempty"`
	Attendees    []int64       `json:"attendees"`
	Privacy      MeetupPrivacy `json:"privacy"`
	Price        float64       `json:"price,omitempty"`
	IsPremium    bool          `json:"is_premium,omitempty"`
}

// FieldError reports a rejected model field. Services translate it into
// the API-level validation error.
type FieldError struct {
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field: %s", e.Reason)
}

func errInvalidProfile(reason string) error {
	return &FieldError{Reason: reason}
}
