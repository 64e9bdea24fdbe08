package sos

import "time"

// Location is a coordinate pair with an optional human-readable address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Evidence describes what the device is collecting during an incident.
type Evidence struct {
	Photos         []string `json:"photos"`
	AudioRecording bool     `json:"audio_recording"`
	VideoRecording bool     `json:"video_recording"`
}

// AlertsSent records which audiences were alerted. Alerts are fire-and-forget,
// so true means "dispatched", not "delivered".
type AlertsSent struct {
	Trustees  bool `json:"trustees"`
	Community bool `json:"community"`
	Emergency bool `json:"emergency"`
}

// Status is the emergency state of one session. When IsActive is false every
// other field is empty.
type Status struct {
	IsActive          bool        `json:"is_active"`
	StartTime         *time.Time  `json:"start_time,omitempty"`
	Location          *Location   `json:"location,omitempty"`
	ActiveScenario    string      `json:"active_scenario,omitempty"`
	EvidenceCollected *Evidence   `json:"evidence_collected,omitempty"`
	AlertsSent        *AlertsSent `json:"alerts_sent,omitempty"`
}

// State is everything the store owns.
type State struct {
	Status            Status `json:"sos_status"`
	IsLocationSharing bool   `json:"is_location_sharing"`
}

// EvidenceUpdate is a partial evidence record. Nil fields are left unchanged;
// a non-nil Photos replaces the whole photo list.
type EvidenceUpdate struct {
	Photos         []string `json:"photos"`
	AudioRecording *bool    `json:"audio_recording"`
	VideoRecording *bool    `json:"video_recording"`
}

// Incident is a terminated activation handed to the Archiver on deactivation.
type Incident struct {
	OwnerID    string     `json:"owner_id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    time.Time  `json:"ended_at"`
	Location   *Location  `json:"location,omitempty"`
	Scenario   string     `json:"scenario"`
	Evidence   Evidence   `json:"evidence"`
	AlertsSent AlertsSent `json:"alerts_sent"`
}

// Op names a state transition, published with every Change.
type Op string

const (
	OpActivate       Op = "activate"
	OpDeactivate     Op = "deactivate"
	OpUpdateLocation Op = "update_location"
	OpToggleSharing  Op = "toggle_location_sharing"
	OpUpdateEvidence Op = "update_evidence"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Op Op
	// Seq increases by one with every mutation of the store.
	Seq   uint64
	State State
}

func (s Status) clone() Status {
	out := s
	if s.StartTime != nil {
		t := *s.StartTime
		out.StartTime = &t
	}
	if s.Location != nil {
		loc := *s.Location
		out.Location = &loc
	}
	if s.EvidenceCollected != nil {
		ev := *s.EvidenceCollected
		ev.Photos = append([]string{}, s.EvidenceCollected.Photos...)
		out.EvidenceCollected = &ev
	}
	if s.AlertsSent != nil {
		a := *s.AlertsSent
		out.AlertsSent = &a
	}
	return out
}
