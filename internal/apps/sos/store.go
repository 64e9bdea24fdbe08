package sos

import (
	"log/slog"
	"sync"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
	"github.com/irfan7230/EmpowHer-sub001/internal/clock"
	"github.com/irfan7230/EmpowHer-sub001/internal/pubsub"
)

// DefaultScenario is the activeScenario label used when none is configured.
const DefaultScenario = "Emergency Mode"

// LocationProvider supplies the device's last known position.
type LocationProvider interface {
	LastKnown() (Location, error)
}

// FixedLocation always reports the same position.
type FixedLocation Location

func (f FixedLocation) LastKnown() (Location, error) {
	return Location(f), nil
}

// Archiver receives incidents when an active SOS is deactivated.
type Archiver interface {
	ArchiveIncident(incident Incident) error
}

// IncidentLister reads back archived incidents, most recent first.
type IncidentLister interface {
	ListIncidents(ownerID string, limit int) ([]Incident, error)
}

// Store owns the SOS state machine for a single session.
type Store struct {
	mu      sync.Mutex
	status  Status
	sharing bool
	seq     uint64

	ownerID  string
	scenario string
	location LocationProvider
	archiver Archiver
	clock    clock.Clock
	logger   *slog.Logger
	hub      *pubsub.Hub[Change]
}

// Option customizes the store.
type Option func(*Store)

// WithOwner tags archived incidents with the owning session id.
func WithOwner(id string) Option {
	return func(s *Store) { s.ownerID = id }
}

// WithScenario sets the activeScenario label written on activation.
func WithScenario(label string) Option {
	return func(s *Store) {
		if label != "" {
			s.scenario = label
		}
	}
}

// WithLocationProvider assigns the source of activation coordinates.
func WithLocationProvider(p LocationProvider) Option {
	return func(s *Store) { s.location = p }
}

// WithArchiver assigns where terminated incidents go.
func WithArchiver(a Archiver) Option {
	return func(s *Store) { s.archiver = a }
}

// WithClock assigns a clock.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger assigns a logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithInitialState seeds the store, e.g. for restoring a session in tests.
func WithInitialState(st State) Option {
	return func(s *Store) {
		s.status = st.Status.clone()
		s.sharing = st.IsLocationSharing
	}
}

// NewStore constructs an inactive store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		scenario: DefaultScenario,
		location: FixedLocation{},
		clock:    clock.Real{},
		logger:   slog.Default(),
		hub:      pubsub.NewHub[Change](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("store", "sos")
	return s
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// OwnerID is the session id archived incidents are tagged with.
func (s *Store) OwnerID() string {
	return s.ownerID
}

// Subscribe registers fn for every state change. Changes are published after
// the store lock is released, so concurrent mutations may reach fn out of
// order; compare Change.Seq to drop a stale snapshot.
func (s *Store) Subscribe(fn func(Change)) func() {
	return s.hub.Subscribe(fn)
}

// ActivateSOS moves the store to Active. Calling it while active restarts the
// incident: start time is overwritten and flags are reset. The transition
// always happens; a LocationUnavailable error only reports that no
// coordinates could be attached.
func (s *Store) ActivateSOS() (State, error) {
	loc, locErr := s.location.LastKnown()

	s.mu.Lock()
	now := s.clock.Now()
	status := Status{
		IsActive:       true,
		StartTime:      &now,
		ActiveScenario: s.scenario,
		EvidenceCollected: &Evidence{
			Photos:         []string{},
			AudioRecording: true,
			VideoRecording: true,
		},
		AlertsSent: &AlertsSent{Trustees: true, Community: true, Emergency: true},
	}
	if locErr == nil {
		status.Location = &loc
	}
	s.status = status
	s.sharing = true
	snap := s.snapshotLocked()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.logger.Info("sos activated", "owner", s.ownerID, "scenario", s.scenario, "has_location", locErr == nil)
	s.hub.Publish(Change{Op: OpActivate, Seq: seq, State: snap})

	if locErr != nil {
		s.logger.Warn("sos activated without location", "owner", s.ownerID, "error", locErr)
		return snap, apperr.Wrap(apperr.KindLocationUnavailable, locErr, "last known location unavailable")
	}
	return snap, nil
}

// DeactivateSOS resets the status to inactive. An active incident is archived
// first; archive failures are logged and never returned.
func (s *Store) DeactivateSOS() State {
	s.mu.Lock()
	var incident *Incident
	if s.status.IsActive {
		incident = s.incidentLocked()
	}
	s.status = Status{}
	snap := s.snapshotLocked()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	if incident != nil {
		s.logger.Info("sos deactivated", "owner", s.ownerID, "duration", incident.EndedAt.Sub(incident.StartedAt).String())
		if s.archiver != nil {
			if err := s.archiver.ArchiveIncident(*incident); err != nil {
				s.logger.Error("failed to archive incident", "owner", s.ownerID, "error", err)
			}
		}
	}
	s.hub.Publish(Change{Op: OpDeactivate, Seq: seq, State: snap})
	return snap
}

// UpdateSOSLocation merges coordinates into the current location. A nil
// address keeps the previous one. It is accepted while inactive too.
func (s *Store) UpdateSOSLocation(lat, lon float64, address *string) State {
	s.mu.Lock()
	next := Location{Latitude: lat, Longitude: lon}
	if s.status.Location != nil {
		next.Address = s.status.Location.Address
	}
	if address != nil {
		next.Address = *address
	}
	s.status.Location = &next
	snap := s.snapshotLocked()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.hub.Publish(Change{Op: OpUpdateLocation, Seq: seq, State: snap})
	return snap
}

// ToggleLocationSharing flips sharing independent of the SOS state.
func (s *Store) ToggleLocationSharing() State {
	s.mu.Lock()
	s.sharing = !s.sharing
	snap := s.snapshotLocked()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.hub.Publish(Change{Op: OpToggleSharing, Seq: seq, State: snap})
	return snap
}

// UpdateEvidenceCollection shallow-merges into the evidence record.
func (s *Store) UpdateEvidenceCollection(update EvidenceUpdate) (State, error) {
	s.mu.Lock()
	ev := s.status.EvidenceCollected
	if ev == nil {
		s.mu.Unlock()
		return State{}, apperr.New(apperr.KindInvalidState, "no SOS evidence record exists")
	}
	if update.Photos != nil {
		ev.Photos = append([]string{}, update.Photos...)
	}
	if update.AudioRecording != nil {
		ev.AudioRecording = *update.AudioRecording
	}
	if update.VideoRecording != nil {
		ev.VideoRecording = *update.VideoRecording
	}
	snap := s.snapshotLocked()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.hub.Publish(Change{Op: OpUpdateEvidence, Seq: seq, State: snap})
	return snap, nil
}

func (s *Store) nextSeqLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) snapshotLocked() State {
	return State{Status: s.status.clone(), IsLocationSharing: s.sharing}
}

func (s *Store) incidentLocked() *Incident {
	st := s.status.clone()
	inc := &Incident{
		OwnerID:  s.ownerID,
		EndedAt:  s.clock.Now(),
		Location: st.Location,
		Scenario: st.ActiveScenario,
	}
	if st.StartTime != nil {
		inc.StartedAt = *st.StartTime
	}
	if st.EvidenceCollected != nil {
		inc.Evidence = *st.EvidenceCollected
	}
	if st.AlertsSent != nil {
		inc.AlertsSent = *st.AlertsSent
	}
	return inc
}
