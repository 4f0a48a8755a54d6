package entities

import "time"

// Well known info page slugs.
const (
	InfoSlugAbout    = "about"
	InfoSlugContacts = "contacts"
)

// InfoPage is a static page addressed by slug.
type InfoPage struct {
	Slug      string    `json:"slug" db:"slug"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FAQEntry is one question/answer pair.
type FAQEntry struct {
	ID        int64     `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	IsVisible bool      `json:"is_visible" db:"is_visible"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
