package archive

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
	"github.com/irfan7230/EmpowHer-sub001/internal/database"
)

const maxListLimit = 100

// Repository stores terminated incidents. It satisfies sos.Archiver.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ sos.Archiver = (*Repository)(nil)

// ArchiveIncident persists one incident.
func (r *Repository) ArchiveIncident(inc sos.Incident) error {
	photos := inc.Evidence.Photos
	if photos == nil {
		photos = []string{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}
	alertsJSON, err := json.Marshal(inc.AlertsSent)
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}

	rec := IncidentRecord{
		ID:             uuid.New(),
		OwnerID:        inc.OwnerID,
		StartedAt:      inc.StartedAt,
		EndedAt:        inc.EndedAt,
		Scenario:       inc.Scenario,
		Photos:         datatypes.JSON(photosJSON),
		AudioRecording: inc.Evidence.AudioRecording,
		VideoRecording: inc.Evidence.VideoRecording,
		AlertsSent:     datatypes.JSON(alertsJSON),
	}
	if inc.Location != nil {
		lat, lon := inc.Location.Latitude, inc.Location.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lon
		rec.Address = inc.Location.Address
	}

	if err := r.db.Create(&rec).Error; err != nil {
		return apperr.Wrap(apperr.KindDeliveryFailed, err, "archive incident")
	}
	return nil
}

// ListByOwner returns an owner's incidents, most recently ended first.
func (r *Repository) ListByOwner(ownerID string, limit int) ([]IncidentRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	var records []IncidentRecord
	err := r.db.Where("owner_id = ?", ownerID).
		Order("ended_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

var _ sos.IncidentLister = (*Repository)(nil)

// ListIncidents is ListByOwner in the SOS store's vocabulary.
func (r *Repository) ListIncidents(ownerID string, limit int) ([]sos.Incident, error) {
	records, err := r.ListByOwner(ownerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]sos.Incident, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toIncident())
	}
	return out, nil
}

func (rec IncidentRecord) toIncident() sos.Incident {
	inc := sos.Incident{
		OwnerID:   rec.OwnerID,
		StartedAt: rec.StartedAt,
		EndedAt:   rec.EndedAt,
		Scenario:  rec.Scenario,
		Evidence: sos.Evidence{
			Photos:         []string{},
			AudioRecording: rec.AudioRecording,
			VideoRecording: rec.VideoRecording,
		},
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		inc.Location = &sos.Location{
			Latitude:  *rec.Latitude,
			Longitude: *rec.Longitude,
			Address:   rec.Address,
		}
	}
	if len(rec.Photos) > 0 {
		if err := json.Unmarshal(rec.Photos, &inc.Evidence.Photos); err != nil {
			slog.Warn("archived photos unreadable", "incident_id", rec.ID, "error", err)
		}
	}
	if len(rec.AlertsSent) > 0 {
		if err := json.Unmarshal(rec.AlertsSent, &inc.AlertsSent); err != nil {
			slog.Warn("archived alert flags unreadable", "incident_id", rec.ID, "error", err)
		}
	}
	return inc
}

// Ping checks the archive database connection.
func (r *Repository) Ping() error {
	return database.Ping(r.db)
}
