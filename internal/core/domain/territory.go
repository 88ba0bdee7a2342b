package domain

import "time"

// Territory is a saved user-drawn boundary.
type Territory struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Color         string    `json:"color"`
	TerritoryType DrawMode  `json:"territory_type"`
	Geometry      *Polygon  `json:"geometry"`
	CenterLat     *float64  `json:"center_lat,omitempty"`
	CenterLng     *float64  `json:"center_lng,omitempty"`
	RadiusMeters  *float64  `json:"radius_meters,omitempty"`
	IsExclusion   bool      `json:"is_exclusion"`
	IsActive      bool      `json:"is_active"`
	PropertyCount int       `json:"property_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TerritoryCreate is the payload for saving a territory.
type TerritoryCreate struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Color         string   `json:"color,omitempty"`
	TerritoryType DrawMode `json:"territory_type"`
	Geometry      *Polygon `json:"geometry"`
	CenterLat     *float64 `json:"center_lat,omitempty"`
	CenterLng     *float64 `json:"center_lng,omitempty"`
	RadiusMeters  *float64 `json:"radius_meters,omitempty"`
	IsExclusion   bool     `json:"is_exclusion"`
}

// TerritoryList is one page of territories.
type TerritoryList struct {
	Territories []Territory `json:"territories"`
	Total       int         `json:"total"`
}

// TerritoryUpdate is a partial update; nil fields are left unchanged.
type TerritoryUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Geometry     *Polygon `json:"geometry,omitempty"`
	CenterLat    *float64 `json:"center_lat,omitempty"`
	CenterLng    *float64 `json:"center_lng,omitempty"`
	RadiusMeters *float64 `json:"radius_meters,omitempty"`
	IsExclusion  *bool    `json:"is_exclusion,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// TerritoryPropertyCount is the number of properties inside a territory.
type TerritoryPropertyCount struct {
	TerritoryID   string `json:"territory_id"`
	PropertyCount int    `json:"property_count"`
}
