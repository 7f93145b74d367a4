package feed

import (
	"time"
)

type Author struct {
	FullName   string `json:"fullName"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

type Metrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Post is the presentation form of one post in a topic feed.
type Post struct {
	ID           string     `json:"id"`
	Topic        string     `json:"topic"`
	URL          string     `json:"url"`
	Author       Author     `json:"author"`
	Text         string     `json:"text"`
	RelativeDate string     `json:"relativeDate"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	Metrics      Metrics    `json:"metrics"`
}

// Page is one slice of a topic feed. NextCursor is nil at the end of the
// known posts.
type Page struct {
	Items      []Post `json:"items"`
	NextCursor *int   `json:"nextCursor"`
}
