package domain

import (
	"reflect"
	"time"
)

// Property is a parcel with the analyses computed for it by the backend.
type Property struct {
	ID           string           `json:"id"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	Zip          string           `json:"zip"`
	County       string           `json:"county"`
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	PropertyType string           `json:"property_type"`
	Geometry     *Polygon         `json:"geometry,omitempty"`
	RoofIQ       *RoofIQData      `json:"roofiq,omitempty"`
	SolarFit     *SolarFitData    `json:"solarfit,omitempty"`
	DrivewayPro  *DrivewayData    `json:"drivewaypro,omitempty"`
	PermitScope  *PermitScopeData `json:"permitscope,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// RoofIQData is the roof condition analysis.
type RoofIQData struct {
	Condition    string  `json:"condition"`
	Confidence   float64 `json:"confidence"`
	AgeYears     int     `json:"age_years"`
	Material     string  `json:"material"`
	AreaSqft     float64 `json:"area_sqft"`
	SlopeDegrees float64 `json:"slope_degrees"`
	Complexity   string  `json:"complexity"`
	CostLow      float64 `json:"cost_low"`
	CostHigh     float64 `json:"cost_high"`
	ImageryDate  string  `json:"imagery_date"`
	AnalysisDate string  `json:"analysis_date"`
}

// SolarFitData is the solar potential analysis.
type SolarFitData struct {
	Score              float64         `json:"score"`
	Confidence         float64         `json:"confidence"`
	AnnualKWhPotential float64         `json:"annual_kwh_potential"`
	PanelCount         int             `json:"panel_count"`
	SystemSizeKW       float64         `json:"system_size_kw"`
	EstimatedCost      float64         `json:"estimated_cost"`
	AnnualSavings      float64         `json:"annual_savings"`
	ROIYears           float64         `json:"roi_years"`
	Shading            SeasonalShading `json:"shading_analysis"`
	Orientation        string          `json:"orientation"`
	TiltDegrees        float64         `json:"tilt_degrees"`
}

// SeasonalShading holds the unshaded fraction (0-1) per season.
type SeasonalShading struct {
	Spring float64 `json:"spring"`
	Summer float64 `json:"summer"`
	Fall   float64 `json:"fall"`
	Winter float64 `json:"winter"`
}

// DrivewayData is the driveway condition analysis.
type DrivewayData struct {
	Condition          string  `json:"condition"`
	Confidence         float64 `json:"confidence"`
	AreaSqft           float64 `json:"area_sqft"`
	SurfaceType        string  `json:"surface_type"`
	CrackingSeverity   string  `json:"cracking_severity"`
	SealingRecommended bool    `json:"sealing_recommended"`
	EstimatedCostLow   float64 `json:"estimated_cost_low"`
	EstimatedCostHigh  float64 `json:"estimated_cost_high"`
}

// PermitScopeData summarises recent building permits.
type PermitScopeData struct {
	TotalPermits              int     `json:"total_permits"`
	LastPermitDate            *string `json:"last_permit_date"`
	ConstructionActivityScore float64 `json:"construction_activity_score"`
	Confidence                float64 `json:"confidence"`
}

// PropertyFilters scopes a property search. Every field is optional; the zero
// value is the empty filter set and marshals to {}.
type PropertyFilters struct {
	// Location
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Zip       string   `json:"zip,omitempty"`
	County    string   `json:"county,omitempty"`
	Bounds    *BBox    `json:"bounds,omitempty"`
	Territory *Polygon `json:"territory,omitempty"`

	PropertyType string `json:"property_type,omitempty"`

	// Roof
	RoofCondition   []string `json:"roof_condition,omitempty"`
	RoofAgeYearsMax *int     `json:"roof_age_years_max,omitempty"`
	RoofAgeYearsMin *int     `json:"roof_age_years_min,omitempty"`
	RoofMaterial    []string `json:"roof_material,omitempty"`

	// Solar
	SolarScoreMin *float64 `json:"solar_score_min,omitempty"`
	SolarScoreMax *float64 `json:"solar_score_max,omitempty"`
	PanelCountMin *int     `json:"panel_count_min,omitempty"`
	ROIYearsMax   *float64 `json:"roi_years_max,omitempty"`

	// Driveway
	DrivewayCondition          []string `json:"driveway_condition,omitempty"`
	DrivewaySealingRecommended *bool    `json:"driveway_sealing_recommended,omitempty"`

	// Permits
	PermitActivityDays      *int     `json:"permit_activity_days,omitempty"`
	ConstructionActivityMin *float64 `json:"construction_activity_min,omitempty"`

	// Pagination and sorting
	Limit     *int   `json:"limit,omitempty"`
	Offset    *int   `json:"offset,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// IsEmpty reports whether no predicate is set.
func (f PropertyFilters) IsEmpty() bool {
	return reflect.DeepEqual(f, PropertyFilters{})
}

// Clone returns a deep copy.
func (f PropertyFilters) Clone() PropertyFilters {
	out := f
	if f.Bounds != nil {
		b := *f.Bounds
		out.Bounds = &b
	}
	out.Territory = f.Territory.Clone()
	out.RoofCondition = cloneSlice(f.RoofCondition)
	out.RoofMaterial = cloneSlice(f.RoofMaterial)
	out.DrivewayCondition = cloneSlice(f.DrivewayCondition)
	out.RoofAgeYearsMax = clonePtr(f.RoofAgeYearsMax)
	out.RoofAgeYearsMin = clonePtr(f.RoofAgeYearsMin)
	out.SolarScoreMin = clonePtr(f.SolarScoreMin)
	out.SolarScoreMax = clonePtr(f.SolarScoreMax)
	out.PanelCountMin = clonePtr(f.PanelCountMin)
	out.ROIYearsMax = clonePtr(f.ROIYearsMax)
	out.DrivewaySealingRecommended = clonePtr(f.DrivewaySealingRecommended)
	out.PermitActivityDays = clonePtr(f.PermitActivityDays)
	out.ConstructionActivityMin = clonePtr(f.ConstructionActivityMin)
	out.Limit = clonePtr(f.Limit)
	out.Offset = clonePtr(f.Offset)
	return out
}

// PropertySearchResponse is one page of search results.
type PropertySearchResponse struct {
	Properties []Property `json:"properties"`
	Total      int        `json:"total"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	Center     *Position  `json:"center,omitempty"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}
