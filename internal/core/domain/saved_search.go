package domain

import "time"

// AlertFrequency controls how often a saved search emails new matches.
type AlertFrequency string

const (
	AlertInstant AlertFrequency = "instant"
	AlertDaily   AlertFrequency = "daily"
	AlertWeekly  AlertFrequency = "weekly"
	AlertMonthly AlertFrequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f AlertFrequency) Valid() bool {
	switch f {
	case AlertInstant, AlertDaily, AlertWeekly, AlertMonthly:
		return true
	}
	return false
}

// SavedSearch is a stored filter set with optional email alerts.
type SavedSearch struct {
	ID                       string          `json:"id"`
	UserID                   string          `json:"user_id,omitempty"`
	Name                     string          `json:"name"`
	Description              string          `json:"description,omitempty"`
	Filters                  PropertyFilters `json:"filters"`
	AlertsEnabled            bool            `json:"alerts_enabled"`
	AlertFrequency           AlertFrequency  `json:"alert_frequency"`
	AlertEmail               string          `json:"alert_email"`
	AlertTime                *int            `json:"alert_time,omitempty"`
	AlertDay                 *int            `json:"alert_day,omitempty"`
	TotalMatches             int             `json:"total_matches"`
	NewMatchesSinceLastAlert int             `json:"new_matches_since_last_alert"`
	IsActive                 bool            `json:"is_active"`
	LastCheckedAt            *time.Time      `json:"last_checked_at,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	AlertHistory             []SearchAlert   `json:"alert_history,omitempty"`
}

// SearchAlert is one alert email sent for a saved search.
type SearchAlert struct {
	ID            string    `json:"id"`
	SentAt        time.Time `json:"sent_at"`
	PropertyCount int       `json:"property_count"`
	EmailSent     bool      `json:"email_sent"`
	EmailOpened   bool      `json:"email_opened"`
	EmailClicked  bool      `json:"email_clicked"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// SavedSearchCreate is the payload for creating a saved search.
type SavedSearchCreate struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Filters        PropertyFilters `json:"filters"`
	AlertsEnabled  bool            `json:"alerts_enabled"`
	AlertFrequency AlertFrequency  `json:"alert_frequency,omitempty"`
	AlertEmail     string          `json:"alert_email"`
	AlertTime      *int            `json:"alert_time,omitempty"`
	AlertDay       *int            `json:"alert_day,omitempty"`
}

// SavedSearchUpdate is a partial update; nil fields are left unchanged.
type SavedSearchUpdate struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Filters        *PropertyFilters `json:"filters,omitempty"`
	AlertsEnabled  *bool            `json:"alerts_enabled,omitempty"`
	AlertFrequency *AlertFrequency  `json:"alert_frequency,omitempty"`
	AlertEmail     *string          `json:"alert_email,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// SavedSearchList is one page of saved searches.
type SavedSearchList struct {
	Searches []SavedSearch `json:"searches"`
	Total    int           `json:"total"`
}

// ListParams pages through a collection.
type ListParams struct {
	Skip       int  `json:"skip"`
	Limit      int  `json:"limit"`
	ActiveOnly bool `json:"active_only"`
}

// TestAlertResult is the backend's answer to a test alert request.
type TestAlertResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PropertyCount int    `json:"property_count"`
}

// EmailPreferences are the user's account-wide alert and digest settings.
// Hours are 0-23 and days of the week 0-6.
type EmailPreferences struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id,omitempty"`
	Email                  string     `json:"email"`
	AllAlertsEnabled       bool       `json:"all_alerts_enabled"`
	MarketingEmailsEnabled bool       `json:"marketing_emails_enabled"`
	DailyDigestEnabled     bool       `json:"daily_digest_enabled"`
	DailyDigestTime        int        `json:"daily_digest_time"`
	WeeklyDigestEnabled    bool       `json:"weekly_digest_enabled"`
	WeeklyDigestDay        int        `json:"weekly_digest_day"`
	WeeklyDigestTime       int        `json:"weekly_digest_time"`
	UnsubscribedAt         *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// EmailPreferencesUpdate is a partial update; nil fields are left unchanged.
type EmailPreferencesUpdate struct {
	Email                  *string `json:"email,omitempty"`
	AllAlertsEnabled       *bool   `json:"all_alerts_enabled,omitempty"`
	MarketingEmailsEnabled *bool   `json:"marketing_emails_enabled,omitempty"`
	DailyDigestEnabled     *bool   `json:"daily_digest_enabled,omitempty"`
	DailyDigestTime        *int    `json:"daily_digest_time,omitempty"`
	WeeklyDigestEnabled    *bool   `json:"weekly_digest_enabled,omitempty"`
	WeeklyDigestDay        *int    `json:"weekly_digest_day,omitempty"`
	WeeklyDigestTime       *int    `json:"weekly_digest_time,omitempty"`
}
