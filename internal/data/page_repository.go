package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLPageRepository is a concrete implementation of the page repository using sqlx.
type SQLPageRepository struct {
	db *sqlx.DB
}

// NewSQLPageRepository creates a new SQLPageRepository.
func NewSQLPageRepository(db *sqlx.DB) *SQLPageRepository {
	return &SQLPageRepository{db: db}
}

// CreatePage inserts a new page into the database. The title column carries
// a unique index, so a duplicate title surfaces as ErrConflict regardless of
// how the races between the existence check and the insert resolve.
func (r *SQLPageRepository) CreatePage(ctx context.Context, page *Page) error {
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now
	query := `INSERT INTO pages (title, content, content_ref, author, category, created_at, updated_at)
		VALUES (:title, :content, :content_ref, :author, :category, :created_at, :updated_at)`
	res, err := r.db.NamedExecContext(ctx, query, page)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to execute create page query: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		page.ID = id
	}
	return nil
}

// GetPageByTitle retrieves a single page from the database by its title.
func (r *SQLPageRepository) GetPageByTitle(ctx context.Context, title string) (*Page, error) {
	var page Page
	query := `SELECT id, title, content, content_ref, author, category, created_at, updated_at FROM pages WHERE title = ?`
	if err := r.db.GetContext(ctx, &page, query, title); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get page by title: %w", err)
	}
	return &page, nil
}

// UpdatePage updates the mutable fields of an existing page, addressed by
// title. Title and content_ref are never part of the update set.
func (r *SQLPageRepository) UpdatePage(ctx context.Context, page *Page) error {
	page.UpdatedAt = time.Now().UTC()
	query := `UPDATE pages SET content = :content, author = :author, category = :category, updated_at = :updated_at WHERE title = :title`
	result, err := r.db.NamedExecContext(ctx, query, page)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTitles retrieves the titles of all pages.
func (r *SQLPageRepository) ListTitles(ctx context.Context) ([]string, error) {
	var titles []string
	query := `SELECT title FROM pages ORDER BY title`
	if err := r.db.SelectContext(ctx, &titles, query); err != nil {
		return nil, fmt.Errorf("failed to list page titles: %w", err)
	}
	return titles, nil
}

// ListTitlesByAuthor retrieves the titles of all pages written by the given author.
func (r *SQLPageRepository) ListTitlesByAuthor(ctx context.Context, author string) ([]string, error) {
	var titles []string
	query := `SELECT title FROM pages WHERE author = ? ORDER BY title`
	if err := r.db.SelectContext(ctx, &titles, query, author); err != nil {
		return nil, fmt.Errorf("failed to list page titles by author: %w", err)
	}
	return titles, nil
}

// ListTitleCategories retrieves the title+category pairs of all pages.
func (r *SQLPageRepository) ListTitleCategories(ctx context.Context) ([]PageSummary, error) {
	var pages []PageSummary
	query := `SELECT title, category FROM pages ORDER BY title`
	if err := r.db.SelectContext(ctx, &pages, query); err != nil {
		return nil, fmt.Errorf("failed to list pages by category: %w", err)
	}
	return pages, nil
}

// RefExists reports whether any page row already uses the given content
// reference. Used to detect reference collisions before a blob write.
func (r *SQLPageRepository) RefExists(ctx context.Context, ref string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM pages WHERE content_ref = ?`
	if err := r.db.GetContext(ctx, &count, query, ref); err != nil {
		return false, fmt.Errorf("failed to check content ref: %w", err)
	}
	return count > 0, nil
}

// DeletePage removes a page from the database by its title.
func (r *SQLPageRepository) DeletePage(ctx context.Context, title string) error {
	query := `DELETE FROM pages WHERE title = ?`
	result, err := r.db.ExecContext(ctx, query, title)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
