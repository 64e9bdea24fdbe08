package archive

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IncidentRecord is an archived, terminated SOS activation.
type IncidentRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        string         `gorm:"size:64;not null;index" json:"owner_id"`
	StartedAt      time.Time      `gorm:"not null" json:"started_at"`
	EndedAt        time.Time      `gorm:"not null;index" json:"ended_at"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
	Address        string         `gorm:"size:255" json:"address,omitempty"`
	Scenario       string         `gorm:"size:100" json:"scenario"`
	Photos         datatypes.JSON `json:"photos"`
	AudioRecording bool           `json:"audio_recording"`
	VideoRecording bool           `json:"video_recording"`
	AlertsSent     datatypes.JSON `json:"alerts_sent"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Models returns the GORM models for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&IncidentRecord{}}
}
