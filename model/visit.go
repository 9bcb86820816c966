package model

import "time"

// Device types derived from the user agent
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// BrowserInfo identifies the visitor's browser
type BrowserInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// OSInfo identifies the visitor's operating system
type OSInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Visit represents one recorded page view or custom event, enriched with
// geography and device metadata. Visits are immutable once created.
type Visit struct {
	ID               string      `json:"id"`
	IPAddress        string      `json:"ipAddress"`
	UserAgent        string      `json:"userAgent"`
	PageVisited      string      `json:"pageVisited"`
	Timestamp        time.Time   `json:"timestamp"`
	SessionID        string      `json:"sessionId"`
	Country          *string     `json:"country"`
	City             *string     `json:"city"`
	Region           *string     `json:"region"`
	Browser          BrowserInfo `json:"browser"`
	OS               OSInfo      `json:"os"`
	Device           string      `json:"device"`
	Referrer         *string     `json:"referrer"`
	ScreenResolution *string     `json:"screenResolution"`
	Language         *string     `json:"language"`
}

// PageStats holds per-page visit counts
type PageStats struct {
	Page           string `json:"page"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

// CountryStats holds per-country visit counts
type CountryStats struct {
	Country string `json:"country"`
	Visits  int64  `json:"visits"`
}

// DeviceStats holds per-device visit counts
type DeviceStats struct {
	Device string `json:"device"`
	Visits int64  `json:"visits"`
}

// BrowserStats holds per-browser visit counts
type BrowserStats struct {
	Browser string `json:"browser"`
	Visits  int64  `json:"visits"`
}

// DailyStats is one point of the daily visit time series
type DailyStats struct {
	Date           string `json:"date"` // YYYY-MM-DD
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

// ActiveVisitor describes a session with recent activity
type ActiveVisitor struct {
	SessionID    string    `json:"sessionId"`
	LastActivity time.Time `json:"lastActivity"`
	PagesViewed  int64     `json:"pagesViewed"`
	CurrentPage  string    `json:"currentPage"`
}

// DateRange is the resolved window of a summary query
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SummaryTotals holds the headline numbers of the analytics summary
type SummaryTotals struct {
	TotalVisits     int64     `json:"totalVisits"`
	UniqueVisitors  int64     `json:"uniqueVisitors"`
	UniqueSessions  int64     `json:"uniqueSessions"`
	AvgVisitsPerDay int64     `json:"avgVisitsPerDay"`
	BounceRate      string    `json:"bounceRate"` // e.g. "42%"
	DateRange       DateRange `json:"dateRange"`
}

// AnalyticsSummary is the full aggregate report for a date window
type AnalyticsSummary struct {
	Summary         SummaryTotals  `json:"summary"`
	PopularPages    []PageStats    `json:"popularPages"`
	VisitsByCountry []CountryStats `json:"visitsByCountry"`
	VisitsByDevice  []DeviceStats  `json:"visitsByDevice"`
	VisitsByBrowser []BrowserStats `json:"visitsByBrowser"`
	DailyVisits     []DailyStats   `json:"dailyVisits"`
}
