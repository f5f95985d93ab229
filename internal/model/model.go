// Package model holds the entities persisted by the repository layer and
// the request payloads the handler layer binds and validates.
package model

import "time"

// Base carries the columns every table shares. The store assigns all three.
type Base struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}
