package model

import (
	"encoding/json"
	"strings"
)

// Participant is one roster entry on an activity. Older documents stored a
// participant as a bare email string; decoding accepts both forms and
// re-encoding always emits the structured one.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *Participant) UnmarshalJSON(data []byte) error {
	var email string
	if err := json.Unmarshal(data, &email); err == nil {
		*p = ParticipantFromEmail(email)
		return nil
	}
	type plain Participant
	var full plain
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*p = Participant(full)
	return nil
}

// ParticipantFromEmail normalizes a legacy bare-email entry, falling back to
// the address local part as the display name.
func ParticipantFromEmail(email string) Participant {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return Participant{Name: name, Email: email}
}

// Activity is a mentorship session keyed by its title in the activities
// document. The roster keeps insertion order, which is registration order.
type Activity struct {
	Description     string        `json:"description"`
	MentorName      string        `json:"mentor_name,omitempty"`
	MentorEmail     string        `json:"mentor_email,omitempty"`
	Schedule        string        `json:"schedule"`
	MaxParticipants int           `json:"max_participants"`
	SoftSkillsFocus []string      `json:"soft_skills_focus,omitempty"`
	Requirements    *string       `json:"requirements,omitempty"`
	Participants    []Participant `json:"participants"`
}

// Profile is a named permission bundle.
type Profile struct {
	Permissions []string `json:"permissions"`
}

type User struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Profile string `json:"profile"`
}

// ActivitiesDoc is the persisted activities document: title -> activity.
type ActivitiesDoc map[string]*Activity

// UsersDoc is the persisted users document. CurrentUser is the single
// simulated acting identity for the process.
type UsersDoc struct {
	Profiles    map[string]Profile `json:"profiles"`
	Users       map[string]User    `json:"users"`
	CurrentUser User               `json:"current_user"`
}
