// model/book.go
package model

import "time"

type Book struct {
	Code      string     `json:"code"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Stock     int64      `json:"stock"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
