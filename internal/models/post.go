// Package models defines the domain types for StudentHub.
package models

import "time"

// DateLayout renders timestamps the way the UI displays them (M/D/YYYY).
const DateLayout = "1/2/2006"

// Post is a short idea or task shared by a student.
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        string    `json:"type"` // "idea" or "task"
	CreatedAt   string    `json:"createdAt"`
	Likes       int       `json:"likes"`
	Liked       bool      `json:"liked"`
	Comments    []Comment `json:"comments"`
	Author      string    `json:"author"`

	// ClientID is set only on posts created offline by the sync client,
	// so they can be told apart from server-assigned posts whose integer
	// id may collide after reconnection.
	ClientID string `json:"clientId,omitempty"`
}

// Comment is a reply attached to a post. Comment ids are derived from the
// creation timestamp; uniqueness is not guaranteed across rapid inserts.
type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Collection is the persisted shape of the record store: the full post
// sequence (most-recent-first) plus the monotonic id counter.
type Collection struct {
	Ideas  []Post `json:"ideas"`
	NextID int    `json:"nextId"`
}

// Profile is the locally cached mock user identity. It is never verified
// against any credential store.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Today returns the current date in the UI display format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// SeedCollection returns the demonstration dataset the server stores on
// first run, with the counter one past the highest seeded id.
func SeedCollection() *Collection {
	return &Collection{
		Ideas: []Post{
			{
				ID:          1,
				Title:       "Study Group for Machine Learning",
				Description: "Looking for students to form a study group for ML concepts. We'll meet weekly to discuss algorithms, work on projects, and prepare for exams together.",
				Category:    "Education",
				Type:        "task",
				CreatedAt:   "8/12/2025",
				Likes:       5,
				Comments: []Comment{
					{ID: 1, Author: "Alex", Text: "I'm interested! What time works best?", CreatedAt: "8/12/2025"},
				},
				Author: "current-user",
			},
			{
				ID:          2,
				Title:       "Smart Campus Navigation App",
				Description: "An idea for a mobile app that helps students navigate large campus buildings using AR technology. It could show directions, room availability, and event information.",
				Category:    "Technology",
				Type:        "idea",
				CreatedAt:   "7/12/2025",
				Likes:       12,
				Comments: []Comment{
					{ID: 1, Author: "Sarah", Text: "This would be so helpful! Have you considered integration with campus WiFi?", CreatedAt: "7/12/2025"},
					{ID: 2, Author: "Mike", Text: "Great idea! I'd love to help develop this.", CreatedAt: "7/12/2025"},
				},
				Author: "other-user",
			},
			{
				ID:          3,
				Title:       "Need Research Partner for Psychology Project",
				Description: "Working on a research project about social media's impact on student mental health. Need a partner to help with data collection and analysis.",
				Category:    "Education",
				Type:        "task",
				CreatedAt:   "6/12/2025",
				Likes:       3,
				Comments:    []Comment{},
				Author:      "other-user",
			},
		},
		NextID: 4,
	}
}

// SeedClientPosts returns the smaller demo dataset the sync client displays
// on a first-ever run with no cache.
func SeedClientPosts() []Post {
	return []Post{
		{
			ID:          1,
			Title:       "Study Group for Machine Learning",
			Description: "Looking for students to form a study group for ML concepts. We'll meet weekly to discuss algorithms, work on projects, and prepare for exams together.",
			Category:    "Education",
			Type:        "task",
			CreatedAt:   "9/12/2025",
			Likes:       5,
			Comments:    []Comment{},
			Author:      "current-user",
		},
		{
			ID:          2,
			Title:       "Smart Campus Navigation App",
			Description: "An idea for a mobile app that helps students navigate large campus buildings using AR technology.",
			Category:    "Technology",
			Type:        "idea",
			CreatedAt:   "8/12/2025",
			Likes:       12,
			Comments:    []Comment{},
			Author:      "other-user",
		},
	}
}
