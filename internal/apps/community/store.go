package community

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
	"github.com/irfan7230/EmpowHer-sub001/internal/clock"
	"github.com/irfan7230/EmpowHer-sub001/internal/idgen"
	"github.com/irfan7230/EmpowHer-sub001/internal/pubsub"
)

// RatingRadius is the match radius of GetRatingsByLocation in raw
// latitude/longitude degrees (roughly 10km near the equator).
const RatingRadius = 0.1

const (
	MinRating = 1
	MaxRating = 5
)

// Store owns the community alert feed and safety ratings. It is shared by
// all sessions.
type Store struct {
	mu      sync.Mutex
	alerts  []Alert
	ratings []SafetyRating

	ids    idgen.Generator
	clock  clock.Clock
	logger *slog.Logger
	hub    *pubsub.Hub[Change]
}

type Option func(*Store)

func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Store) { s.ids = g }
}

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSeed preloads alerts and ratings, e.g. demo data for a fresh deployment.
func WithSeed(alerts []Alert, ratings []SafetyRating) Option {
	return func(s *Store) {
		s.alerts = append([]Alert{}, alerts...)
		s.ratings = append([]SafetyRating{}, ratings...)
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		ids:    idgen.UUIDv7{},
		clock:  clock.Real{},
		logger: slog.Default(),
		hub:    pubsub.NewHub[Change](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("store", "community")
	return s
}

func (s *Store) Subscribe(fn func(Change)) func() {
	return s.hub.Subscribe(fn)
}

// Alerts returns every alert in insertion order.
func (s *Store) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert{}, s.alerts...)
}

// Ratings returns every rating in insertion order.
func (s *Store) Ratings() []SafetyRating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SafetyRating{}, s.ratings...)
}

// AddCommunityAlert raises a new active alert.
func (s *Store) AddCommunityAlert(in NewAlert) (Alert, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return Alert{}, apperr.New(apperr.KindInvalidArgument, "user_id is required")
	}
	if in.Distance < 0 || math.IsNaN(in.Distance) {
		return Alert{}, apperr.Newf(apperr.KindInvalidArgument, "distance must be non-negative, got %v", in.Distance)
	}

	s.mu.Lock()
	alert := Alert{
		ID:        s.ids.NewID(),
		UserID:    in.UserID,
		UserName:  in.UserName,
		Location:  in.Location,
		Timestamp: in.Timestamp,
		Distance:  in.Distance,
		IsActive:  true,
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = s.clock.Now()
	}
	s.alerts = append(s.alerts, alert)
	change := s.changeLocked(OpAddAlert)
	s.mu.Unlock()

	s.logger.Info("community alert raised", "alert_id", alert.ID, "distance_km", alert.Distance)
	s.hub.Publish(change)
	return alert, nil
}

// RespondToCommunityAlert marks the alert inactive. An unknown id is a silent
// no-op; the return value reports whether an alert matched.
func (s *Store) RespondToCommunityAlert(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].IsActive = false
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return false
	}
	change := s.changeLocked(OpRespondAlert)
	s.mu.Unlock()

	s.logger.Info("community alert responded", "alert_id", id)
	s.hub.Publish(change)
	return true
}

// AddSafetyRating appends a rating.
func (s *Store) AddSafetyRating(in NewRating) (SafetyRating, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return SafetyRating{}, apperr.Newf(apperr.KindInvalidArgument, "rating must be between %d and %d, got %d", MinRating, MaxRating, in.Rating)
	}

	s.mu.Lock()
	rating := SafetyRating{
		ID:        s.ids.NewID(),
		Location:  in.Location,
		Rating:    in.Rating,
		Comment:   in.Comment,
		UserID:    in.UserID,
		Timestamp: in.Timestamp,
	}
	if rating.Timestamp.IsZero() {
		rating.Timestamp = s.clock.Now()
	}
	s.ratings = append(s.ratings, rating)
	change := s.changeLocked(OpAddRating)
	s.mu.Unlock()

	s.hub.Publish(change)
	return rating, nil
}

// GetAlertsByDistance returns active alerts within maxDistance km, in
// insertion order.
func (s *Store) GetAlertsByDistance(maxDistance float64) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Alert{}
	for _, a := range s.alerts {
		if a.Distance <= maxDistance && a.IsActive {
			out = append(out, a)
		}
	}
	return out
}

// GetRatingsByLocation returns ratings whose coordinates lie strictly within
// RatingRadius of (lat, lon), measured as plain Euclidean distance in degrees.
// This is a coarse box-like filter, not a great-circle distance.
func (s *Store) GetRatingsByLocation(lat, lon float64) []SafetyRating {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []SafetyRating{}
	for _, r := range s.ratings {
		dLat := r.Location.Latitude - lat
		dLon := r.Location.Longitude - lon
		if math.Sqrt(dLat*dLat+dLon*dLon) < RatingRadius {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) changeLocked(op Op) Change {
	return Change{
		Op:      op,
		Alerts:  append([]Alert{}, s.alerts...),
		Ratings: append([]SafetyRating{}, s.ratings...),
	}
}
