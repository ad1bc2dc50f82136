package store

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Do not expose this in JSON responses
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Complaint severity labels.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Complaint is a complaint record owned by a single user. Coordinates and
// AIAnalysis are stored as JSON text columns and rehydrated on read;
// AIAnalysis is opaque to this service and returned exactly as submitted.
type Complaint struct {
	ID                 string          `json:"id"`
	OwnerID            int64           `json:"user_id"`
	Text               string          `json:"text"`
	Category           string          `json:"category"`
	FinalCategory      string          `json:"final_category,omitempty"`
	Severity           string          `json:"severity"`
	PriorityFlag       string          `json:"priority_flag,omitempty"`
	Confidence         *float64        `json:"confidence,omitempty"`
	ConfidenceCategory *float64        `json:"confidence_category,omitempty"`
	ConfidenceSeverity *float64        `json:"confidence_severity,omitempty"`
	Location           string          `json:"location,omitempty"`
	Coordinates        *Coordinates    `json:"coordinates"`
	Zone               string          `json:"zone,omitempty"`
	TrainNo            string          `json:"trainNo,omitempty"`
	Timestamp          time.Time       `json:"timestamp"`
	AIAnalysis         json.RawMessage `json:"aiAnalysis"`
}

// Stats are aggregate complaint counts for one owner, computed at query time.
type Stats struct {
	TotalComplaints int `json:"totalComplaints" db:"total_complaints"`
	HighSeverity    int `json:"highSeverity" db:"high_severity"`
	MediumSeverity  int `json:"mediumSeverity" db:"medium_severity"`
	LowSeverity     int `json:"lowSeverity" db:"low_severity"`
	TodayComplaints int `json:"todayComplaints" db:"today_complaints"`
}
