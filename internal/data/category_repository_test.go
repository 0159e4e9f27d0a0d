//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func setupCategoryTest(t *testing.T) (*CategoryRepository, func()) {
	t.Helper()
	db, teardown := setupTestDB(t)
	return NewCategoryRepository(db), teardown
}

func TestCategoryRepository_AddAndGetAll(t *testing.T) {
	repo, teardown := setupCategoryTest(t)
	defer teardown()
	ctx := context.Background()

	if err := repo.Add(ctx, "Science"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Add(ctx, "Books"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "Books" || names[1] != "Science" {
		t.Errorf("expected sorted [Books Science], got %v", names)
	}
}

func TestCategoryRepository_AddDuplicate(t *testing.T) {
	repo, teardown := setupCategoryTest(t)
	defer teardown()
	ctx := context.Background()

	if err := repo.Add(ctx, "Science"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Add(ctx, "Science"); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestCategoryRepository_Exists(t *testing.T) {
	repo, teardown := setupCategoryTest(t)
	defer teardown()
	ctx := context.Background()

	if err := repo.Add(ctx, "Science"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, err := repo.Exists(ctx, "Science")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected category to exist")
	}

	exists, err = repo.Exists(ctx, "Ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected category to not exist")
	}
}

func TestCategoryRepository_Remove(t *testing.T) {
	repo, teardown := setupCategoryTest(t)
	defer teardown()
	ctx := context.Background()

	if err := repo.Add(ctx, "Science"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Remove(ctx, "Science"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Remove(ctx, "Science"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}
