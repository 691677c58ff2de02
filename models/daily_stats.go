package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// DailyStats is the per-user per-calendar-day rollup of activity totals.
// The primary key is the composite "<userID>_<YYYY-MM-DD>" string, matching
// the document ids used by the mobile clients. Rows are maintained
// incrementally and are never deleted.
type DailyStats struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	UserID        uint      `gorm:"index:idx_stats_user_date,unique;not null" json:"user_id"`
	Date          string    `gorm:"index:idx_stats_user_date,unique;size:10;not null" json:"date"` // YYYY-MM-DD
	DailyPoints   int       `gorm:"not null;default:0" json:"daily_points"`
	DailyCO2Kg    float64   `gorm:"not null;default:0" json:"daily_co2_kg"`
	ActivityCount int       `gorm:"not null;default:0" json:"activity_count"`
	Breakdown     CountMap  `gorm:"type:text" json:"breakdown"` // category -> count
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CountMap stores a string->int map as a JSON text column.
type CountMap map[string]int

func (m CountMap) Value() (driver.Value, error) {
	if m == nil {
		m = CountMap{}
	}
	return json.Marshal(m)
}

func (m *CountMap) Scan(src interface{}) error {
	if src == nil {
		*m = CountMap{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported source type for CountMap")
	}
}

// StringList stores a list of strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported source type for StringList")
	}
}

// StatsID builds the composite daily stats key for a user and date.
func StatsID(userID uint, date string) string {
	return strconv.FormatUint(uint64(userID), 10) + "_" + date
}
