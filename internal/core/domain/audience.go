package domain

import "time"

// Audience is a named, filter-defined set of properties that can be synced to an ads platform.
type Audience struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Filters       PropertyFilters `json:"filters"`
	PropertyCount int             `json:"property_count"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AudienceCreate is the payload for creating an audience.
type AudienceCreate struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Filters     PropertyFilters `json:"filters"`
}

// AudienceUpdate is a partial update; nil fields are left unchanged.
type AudienceUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Filters     *PropertyFilters `json:"filters,omitempty"`
}

// AudienceSync reports an ads-platform sync the backend accepted.
type AudienceSync struct {
	AudienceID string    `json:"audience_id"`
	Status     string    `json:"status"`
	TaskID     string    `json:"task_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}
