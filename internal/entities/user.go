package entities

import "time"

// User carries the recipient data the pipeline needs; accounts are
// managed elsewhere.
type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string
	FirstName string
	LastName  string
	AgencyID  string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Agency struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
