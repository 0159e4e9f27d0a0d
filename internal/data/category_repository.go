package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for registered categories.
// Reads always go to the database; nothing is cached in process.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// GetAll retrieves all registered category names.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.DB.SelectContext(ctx, &names, "SELECT name FROM categories ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return names, nil
}

// Exists reports whether a category with the given name is registered.
func (r *CategoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, "SELECT COUNT(1) FROM categories WHERE name = ?", name); err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return count > 0, nil
}

// Add registers a new category name. Returns ErrConflict if it is already
// registered.
func (r *CategoryRepository) Add(ctx context.Context, name string) error {
	_, err := r.DB.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

// Remove deletes a category name. Returns ErrNotFound if it is not
// registered. Pages using the category are deliberately left untouched.
func (r *CategoryRepository) Remove(ctx context.Context, name string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to remove category: %w", err)
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
