package community

import "time"

// Location is where an alert was raised or a rating was left.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Alert is a distress signal visible to nearby users.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	// Distance from the viewer in km, computed by the caller.
	Distance float64 `json:"distance"`
	IsActive bool    `json:"is_active"`
}

// NewAlert is the caller-supplied part of an Alert.
type NewAlert struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Distance  float64   `json:"distance"`
}

// SafetyRating is a 1-5 score for a place.
type SafetyRating struct {
	ID        string    `json:"id"`
	Location  Location  `json:"location"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRating is the caller-supplied part of a SafetyRating.
type NewRating struct {
	Location  Location  `json:"location"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

type Op string

const (
	OpAddAlert     Op = "add_alert"
	OpRespondAlert Op = "respond_alert"
	OpAddRating    Op = "add_rating"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Op      Op
	Alerts  []Alert
	Ratings []SafetyRating
}
