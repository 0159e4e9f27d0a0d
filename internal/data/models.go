package data

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Page represents a single wiki page in the database. Content is stored
// inline on the row, or externally under ContentRef, never both.
type Page struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	ContentRef string    `db:"content_ref"`
	Author     string    `db:"author"`
	Category   string    `db:"category"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// PageSummary is the title+category projection used for category browsing.
type PageSummary struct {
	Title    string `db:"title"`
	Category string `db:"category"`
}

// Category represents a registered category name.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// DirectPage marks a category value that has no entry in the categories
// table and is owned by the page created alongside it.
type DirectPage struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}
