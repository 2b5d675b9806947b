// model/member.go
package model

import "time"

type Member struct {
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	BorrowedCount   int        `json:"borrowed_count"`
	PenaltyDuration int        `json:"penalty_duration"`
	RegisteredAt    time.Time  `json:"registered_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	UnregisteredAt  *time.Time `json:"unregistered_at,omitempty"`
}
