package models

import "time"

type Post struct {
	ID         int64
	UserID     int64
	Title      string
	Content    string
	CreateTime time.Time
	Media      []Media
}

// Media is one asset attached to a post, kept in upload order.
type Media struct {
	Position  int
	URL       string
	MediaType string
}
