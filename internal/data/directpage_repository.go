package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DirectPageRepository handles database operations for the direct-pages
// registry: category values owned by a single self-describing page rather
// than registered as shared categories.
type DirectPageRepository struct {
	DB *sqlx.DB
}

// NewDirectPageRepository creates a new DirectPageRepository.
func NewDirectPageRepository(db *sqlx.DB) *DirectPageRepository {
	return &DirectPageRepository{DB: db}
}

// GetAll retrieves all direct-page titles.
func (r *DirectPageRepository) GetAll(ctx context.Context) ([]string, error) {
	var titles []string
	if err := r.DB.SelectContext(ctx, &titles, "SELECT title FROM direct_pages ORDER BY title"); err != nil {
		return nil, fmt.Errorf("failed to get direct pages: %w", err)
	}
	return titles, nil
}

// Contains reports whether the given title is in the registry.
func (r *DirectPageRepository) Contains(ctx context.Context, title string) (bool, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, "SELECT COUNT(1) FROM direct_pages WHERE title = ?", title); err != nil {
		return false, fmt.Errorf("failed to check direct page: %w", err)
	}
	return count > 0, nil
}

// Add records a title in the registry. Adding a title that is already
// present is not an error; two concurrent creates racing on the same novel
// category must both succeed.
func (r *DirectPageRepository) Add(ctx context.Context, title string) error {
	if _, err := r.DB.ExecContext(ctx, "INSERT OR IGNORE INTO direct_pages (title) VALUES (?)", title); err != nil {
		return fmt.Errorf("failed to add direct page: %w", err)
	}
	return nil
}

// Remove deletes a title from the registry. Removing a title that is not
// present is a no-op, which keeps page deletion retryable after a partial
// failure.
func (r *DirectPageRepository) Remove(ctx context.Context, title string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM direct_pages WHERE title = ?", title); err != nil {
		return fmt.Errorf("failed to remove direct page: %w", err)
	}
	return nil
}
