// Package enrollment holds the roster and activity operations: signup with
// duplicate, capacity and weekday-conflict checks, cancellation, and
// activity CRUD. Every mutation persists immediately.
package enrollment

import (
	"sort"
	"strings"

	"github.com/cyz/app-mentoria/internal/model"
	"github.com/cyz/app-mentoria/internal/schedule"
	"github.com/cyz/app-mentoria/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// ActivityView is an activity plus its computed occupancy.
type ActivityView struct {
	model.Activity
	CurrentParticipants int `json:"current_participants"`
}

// ListActivities reloads the activities document so the listing reflects
// concurrent external edits.
func (s *Service) ListActivities() (map[string]ActivityView, error) {
	activities, err := s.store.RefreshActivities()
	if err != nil {
		return nil, err
	}
	views := make(map[string]ActivityView, len(activities))
	for title, activity := range activities {
		views[title] = ActivityView{
			Activity:            *activity,
			CurrentParticipants: len(activity.Participants),
		}
	}
	return views, nil
}

func (s *Service) Activity(title string) (ActivityView, error) {
	activities, err := s.store.Activities()
	if err != nil {
		return ActivityView{}, err
	}
	activity, ok := activities[title]
	if !ok {
		return ActivityView{}, ErrActivityNotFound
	}
	return ActivityView{Activity: *activity, CurrentParticipants: len(activity.Participants)}, nil
}

// Signup registers a participant, rejecting duplicates, full rosters and
// same-weekday collisions. The roster keeps registration order.
func (s *Service) Signup(title, name, email string) error {
	activities, err := s.store.Activities()
	if err != nil {
		return err
	}
	activity, ok := activities[title]
	if !ok {
		return ErrActivityNotFound
	}
	if registered(activity, email) {
		return ErrAlreadyRegistered
	}
	if len(activity.Participants) >= activity.MaxParticipants {
		return ErrActivityFull
	}
	if day, ok := schedule.Resolve(activity.Schedule); ok {
		if existing := firstOnDay(activities, day, email); existing != "" {
			return &ConflictError{Activity: existing, Day: day}
		}
	}
	activity.Participants = append(activity.Participants, model.Participant{Name: name, Email: email})
	return s.store.SaveActivities(activities)
}

// Cancel removes a participant from an activity's roster.
func (s *Service) Cancel(title, email string) error {
	activities, err := s.store.Activities()
	if err != nil {
		return err
	}
	activity, ok := activities[title]
	if !ok {
		return ErrActivityNotFound
	}
	if !registered(activity, email) {
		return ErrNotRegistered
	}
	kept := activity.Participants[:0]
	for _, p := range activity.Participants {
		if p.Email != email {
			kept = append(kept, p)
		}
	}
	activity.Participants = kept
	return s.store.SaveActivities(activities)
}

func (s *Service) Create(title string, activity model.Activity) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(activity.Description) == "" ||
		strings.TrimSpace(activity.Schedule) == "" || activity.MaxParticipants <= 0 {
		return ErrMissingFields
	}
	activities, err := s.store.Activities()
	if err != nil {
		return err
	}
	if _, exists := activities[title]; exists {
		return ErrActivityExists
	}
	activity.Participants = []model.Participant{}
	activities[title] = &activity
	return s.store.SaveActivities(activities)
}

// ActivityUpdate carries the optional fields of an update; nil fields are
// left untouched.
type ActivityUpdate struct {
	Description     *string   `json:"description"`
	MentorName      *string   `json:"mentor_name"`
	MentorEmail     *string   `json:"mentor_email"`
	Schedule        *string   `json:"schedule"`
	MaxParticipants *int      `json:"max_participants"`
	SoftSkillsFocus *[]string `json:"soft_skills_focus"`
	Requirements    *string   `json:"requirements"`
}

func (u ActivityUpdate) empty() bool {
	return u.Description == nil && u.MentorName == nil && u.MentorEmail == nil &&
		u.Schedule == nil && u.MaxParticipants == nil && u.SoftSkillsFocus == nil &&
		u.Requirements == nil
}

// Update applies the provided fields to an existing activity. Shrinking
// capacity below the current roster size is rejected so the occupancy
// invariant holds at all times.
func (s *Service) Update(title string, update ActivityUpdate) error {
	if update.empty() {
		return ErrNoFieldsProvided
	}
	activities, err := s.store.Activities()
	if err != nil {
		return err
	}
	activity, ok := activities[title]
	if !ok {
		return ErrActivityNotFound
	}
	if update.MaxParticipants != nil {
		if *update.MaxParticipants <= 0 || *update.MaxParticipants < len(activity.Participants) {
			return ErrInvalidCapacity
		}
		activity.MaxParticipants = *update.MaxParticipants
	}
	if update.Description != nil {
		activity.Description = *update.Description
	}
	if update.MentorName != nil {
		activity.MentorName = *update.MentorName
	}
	if update.MentorEmail != nil {
		activity.MentorEmail = *update.MentorEmail
	}
	if update.Schedule != nil {
		activity.Schedule = *update.Schedule
	}
	if update.SoftSkillsFocus != nil {
		activity.SoftSkillsFocus = *update.SoftSkillsFocus
	}
	if update.Requirements != nil {
		activity.Requirements = update.Requirements
	}
	return s.store.SaveActivities(activities)
}

// Delete removes an activity; only empty rosters may be deleted so no
// registration is ever orphaned.
func (s *Service) Delete(title string) error {
	activities, err := s.store.Activities()
	if err != nil {
		return err
	}
	activity, ok := activities[title]
	if !ok {
		return ErrActivityNotFound
	}
	if len(activity.Participants) > 0 {
		return ErrActivityNotEmpty
	}
	delete(activities, title)
	return s.store.SaveActivities(activities)
}

func (s *Service) IsParticipantRegistered(title, email string) (bool, error) {
	activities, err := s.store.Activities()
	if err != nil {
		return false, err
	}
	activity, ok := activities[title]
	if !ok {
		return false, ErrActivityNotFound
	}
	return registered(activity, email), nil
}

func (s *Service) IsActivityFull(title string) (bool, error) {
	activities, err := s.store.Activities()
	if err != nil {
		return false, err
	}
	activity, ok := activities[title]
	if !ok {
		return false, ErrActivityNotFound
	}
	return len(activity.Participants) >= activity.MaxParticipants, nil
}

// ActivitiesByDay groups the titles a participant is registered in by
// resolved weekday token, skipping unresolvable schedules. Titles are
// grouped in lexicographic order so the reported first conflict is
// deterministic.
func (s *Service) ActivitiesByDay(email string) (map[string][]string, error) {
	activities, err := s.store.Activities()
	if err != nil {
		return nil, err
	}
	byDay := map[string][]string{}
	for _, title := range sortedTitles(activities) {
		activity := activities[title]
		if !registered(activity, email) {
			continue
		}
		day, ok := schedule.Resolve(activity.Schedule)
		if !ok {
			continue
		}
		byDay[day] = append(byDay[day], title)
	}
	return byDay, nil
}

// HasConflict reports whether email already holds a registration on the
// target activity's weekday. An unresolvable schedule never blocks a
// signup.
func (s *Service) HasConflict(title, email string) (bool, error) {
	conflicting, err := s.ConflictingActivity(title, email)
	if err != nil {
		return false, err
	}
	return conflicting != "", nil
}

// ConflictingActivity returns the first activity registered on the target's
// weekday, or "" when there is none.
func (s *Service) ConflictingActivity(title, email string) (string, error) {
	activities, err := s.store.Activities()
	if err != nil {
		return "", err
	}
	activity, ok := activities[title]
	if !ok {
		return "", ErrActivityNotFound
	}
	day, ok := schedule.Resolve(activity.Schedule)
	if !ok {
		return "", nil
	}
	return firstOnDay(activities, day, email), nil
}

// UserActivities lists the titles email is registered in, sorted.
func (s *Service) UserActivities(email string) ([]string, error) {
	if email == "" {
		return []string{}, nil
	}
	activities, err := s.store.Activities()
	if err != nil {
		return nil, err
	}
	titles := []string{}
	for _, title := range sortedTitles(activities) {
		if registered(activities[title], email) {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

func registered(activity *model.Activity, email string) bool {
	for _, p := range activity.Participants {
		if p.Email == email {
			return true
		}
	}
	return false
}

// firstOnDay returns the lexicographically smallest title on day that email
// is registered in. The target activity is not special-cased: a user
// already registered on that day conflicts with their own registration,
// matching the day-grouping the detector reports.
func firstOnDay(activities model.ActivitiesDoc, day, email string) string {
	for _, title := range sortedTitles(activities) {
		activity := activities[title]
		if !registered(activity, email) {
			continue
		}
		if activityDay, ok := schedule.Resolve(activity.Schedule); ok && activityDay == day {
			return title
		}
	}
	return ""
}

func sortedTitles(activities model.ActivitiesDoc) []string {
	titles := make([]string, 0, len(activities))
	for title := range activities {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
