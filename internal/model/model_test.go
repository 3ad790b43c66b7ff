package model

import (
	"encoding/json"
	"testing"
)

func TestParticipantDecodesBothForms(t *testing.T) {
	var fromString Participant
	if err := json.Unmarshal([]byte(`"ana@womakerscode.org"`), &fromString); err != nil {
		t.Fatalf("decode bare email: %v", err)
	}
	if fromString.Email != "ana@womakerscode.org" || fromString.Name != "ana" {
		t.Fatalf("unexpected normalization: %+v", fromString)
	}

	var fromObject Participant
	if err := json.Unmarshal([]byte(`{"name":"Ana Souza","email":"ana@womakerscode.org"}`), &fromObject); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	if fromObject.Name != "Ana Souza" || fromObject.Email != "ana@womakerscode.org" {
		t.Fatalf("unexpected object decode: %+v", fromObject)
	}
}

func TestParticipantEncodesStructuredForm(t *testing.T) {
	data, err := json.Marshal(ParticipantFromEmail("bruna@womakerscode.org"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	expect := `{"name":"bruna","email":"bruna@womakerscode.org"}`
	if string(data) != expect {
		t.Fatalf("expected %s, got %s", expect, data)
	}
}

func TestActivityRosterDecodesMixedForms(t *testing.T) {
	raw := `{
		"description": "d",
		"schedule": "Sextas-feiras, 19:00 - 20:00",
		"max_participants": 5,
		"participants": ["elisa@womakerscode.org", {"name": "Claudia", "email": "claudia@womakerscode.org"}]
	}`
	var activity Activity
	if err := json.Unmarshal([]byte(raw), &activity); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	if len(activity.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(activity.Participants))
	}
	if activity.Participants[0].Name != "elisa" {
		t.Fatalf("expected legacy entry normalized, got %+v", activity.Participants[0])
	}
	if activity.Participants[1].Name != "Claudia" {
		t.Fatalf("expected structured entry preserved, got %+v", activity.Participants[1])
	}
}
