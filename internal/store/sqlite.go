package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool so every
	// query sees the same database.
	if strings.Contains(dataSourceName, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        name TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS complaints (
        id TEXT PRIMARY KEY,
        user_id INTEGER NOT NULL,
        text TEXT NOT NULL,
        category TEXT NOT NULL,
        final_category TEXT,
        severity TEXT NOT NULL,
        priority_flag TEXT,
        confidence REAL,
        confidence_category REAL,
        confidence_severity REAL,
        location TEXT,
        coordinates TEXT, -- JSON {lat, lng}
        zone TEXT,
        train_no TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        ai_analysis TEXT, -- opaque JSON payload
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// User methods

func (s *SQLiteStore) CreateUser(email, passwordHash, name string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (email, password_hash, name) VALUES (?, ?, ?)", email, passwordHash, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetUserByID(id)
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var user User
	err := s.db.Get(&user, "SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByID(id int64) (*User, error) {
	var user User
	err := s.db.Get(&user, "SELECT id, email, password_hash, name, created_at FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Complaint methods

// complaintRow mirrors the complaints table; JSON columns stay serialized
// until toComplaint rehydrates them.
type complaintRow struct {
	ID                 string         `db:"id"`
	UserID             int64          `db:"user_id"`
	Text               string         `db:"text"`
	Category           string         `db:"category"`
	FinalCategory      sql.NullString `db:"final_category"`
	Severity           string         `db:"severity"`
	PriorityFlag       sql.NullString `db:"priority_flag"`
	Confidence         *float64       `db:"confidence"`
	ConfidenceCategory *float64       `db:"confidence_category"`
	ConfidenceSeverity *float64       `db:"confidence_severity"`
	Location           sql.NullString `db:"location"`
	Coordinates        sql.NullString `db:"coordinates"`
	Zone               sql.NullString `db:"zone"`
	TrainNo            sql.NullString `db:"train_no"`
	Timestamp          time.Time      `db:"timestamp"`
	AIAnalysis         sql.NullString `db:"ai_analysis"`
}

func (r *complaintRow) toComplaint() (*Complaint, error) {
	c := &Complaint{
		ID:                 r.ID,
		OwnerID:            r.UserID,
		Text:               r.Text,
		Category:           r.Category,
		FinalCategory:      r.FinalCategory.String,
		Severity:           r.Severity,
		PriorityFlag:       r.PriorityFlag.String,
		Confidence:         r.Confidence,
		ConfidenceCategory: r.ConfidenceCategory,
		ConfidenceSeverity: r.ConfidenceSeverity,
		Location:           r.Location.String,
		Zone:               r.Zone.String,
		TrainNo:            r.TrainNo.String,
		Timestamp:          r.Timestamp,
	}

	if r.Coordinates.Valid && r.Coordinates.String != "" {
		var coords Coordinates
		if err := json.Unmarshal([]byte(r.Coordinates.String), &coords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal coordinates for complaint %s: %w", r.ID, err)
		}
		c.Coordinates = &coords
	}
	if r.AIAnalysis.Valid && r.AIAnalysis.String != "" {
		c.AIAnalysis = json.RawMessage(r.AIAnalysis.String)
	}

	return c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateComplaint persists a complaint for ownerID. The owner always comes
// from the authenticated identity; any owner in the payload is overwritten.
// A zero timestamp defaults to the current time.
func (s *SQLiteStore) CreateComplaint(ownerID int64, c *Complaint) error {
	c.OwnerID = ownerID
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	var coords any
	if c.Coordinates != nil {
		b, err := json.Marshal(c.Coordinates)
		if err != nil {
			return fmt.Errorf("failed to marshal coordinates: %w", err)
		}
		coords = string(b)
	}
	var analysis any
	if len(c.AIAnalysis) > 0 {
		analysis = string(c.AIAnalysis)
	}

	_, err := s.db.Exec(`INSERT INTO complaints (
        id, user_id, text, category, final_category, severity, priority_flag,
        confidence, confidence_category, confidence_severity, location,
        coordinates, zone, train_no, timestamp, ai_analysis
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Text, c.Category, nullable(c.FinalCategory),
		c.Severity, nullable(c.PriorityFlag), c.Confidence,
		c.ConfidenceCategory, c.ConfidenceSeverity, nullable(c.Location),
		coords, nullable(c.Zone), nullable(c.TrainNo), c.Timestamp, analysis)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	return nil
}

const complaintColumns = `id, user_id, text, category, final_category, severity,
    priority_flag, confidence, confidence_category, confidence_severity,
    location, coordinates, zone, train_no, timestamp, ai_analysis`

// ComplaintsByOwner returns all complaints owned by ownerID, newest first.
// An owner with no complaints gets an empty slice, not an error.
func (s *SQLiteStore) ComplaintsByOwner(ownerID int64) ([]Complaint, error) {
	var rows []complaintRow
	err := s.db.Select(&rows, "SELECT "+complaintColumns+" FROM complaints WHERE user_id = ? ORDER BY timestamp DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}

	complaints := make([]Complaint, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toComplaint()
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, *c)
	}
	return complaints, nil
}

// ComplaintByID returns the complaint only when both the id and the owner
// match. An id that exists under a different owner is reported as
// ErrNotFound, exactly like an absent id.
func (s *SQLiteStore) ComplaintByID(ownerID int64, id string) (*Complaint, error) {
	var row complaintRow
	err := s.db.Get(&row, "SELECT "+complaintColumns+" FROM complaints WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return row.toComplaint()
}

// StatsByOwner computes aggregate counts for one owner at query time.
// todayComplaints follows the server's configured timezone.
func (s *SQLiteStore) StatsByOwner(ownerID int64) (*Stats, error) {
	var stats Stats
	err := s.db.Get(&stats, `SELECT
        COUNT(*) AS total_complaints,
        COUNT(CASE WHEN severity = 'High' THEN 1 END) AS high_severity,
        COUNT(CASE WHEN severity = 'Medium' THEN 1 END) AS medium_severity,
        COUNT(CASE WHEN severity = 'Low' THEN 1 END) AS low_severity,
        COUNT(CASE WHEN DATE(timestamp, 'localtime') = DATE('now', 'localtime') THEN 1 END) AS today_complaints
    FROM complaints WHERE user_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}
