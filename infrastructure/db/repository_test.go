package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/prasetyowira/shortlink/domain/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepository_Save(t *testing.T) {
	// Arrange
	repo := NewRepository(openTestDB(t))

	// Act
	id1, err1 := repo.Save(context.Background(), "https://example.com", "abc123")
	id2, err2 := repo.Save(context.Background(), "https://example.org", "xyz789")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotZero(t, id1)
	assert.Greater(t, id2, id1)
}

func TestRepository_Save_DuplicateAlias(t *testing.T) {
	// Arrange
	repo := NewRepository(openTestDB(t))

	// Act
	_, err1 := repo.Save(context.Background(), "https://example.com", "abc123")
	_, err2 := repo.Save(context.Background(), "https://another-example.com", "abc123")

	// Assert
	assert.NoError(t, err1)
	assert.ErrorIs(t, err2, shortener.ErrAliasExists)

	url, err := repo.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)
}

func TestRepository_Save_SameURLDifferentAliases(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err1 := repo.Save(context.Background(), "https://example.com", "first")
	_, err2 := repo.Save(context.Background(), "https://example.com", "second")

	assert.NoError(t, err1)
	assert.NoError(t, err2)
}

func TestRepository_Save_ConcurrentSameAlias(t *testing.T) {
	// Arrange
	repo := NewRepository(openTestDB(t))
	const workers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	// Act
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Save(context.Background(), fmt.Sprintf("https://example.com/%d", i), "race")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, shortener.ErrAliasExists):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	// Assert
	assert.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestRepository_Get(t *testing.T) {
	// Arrange
	repo := NewRepository(openTestDB(t))
	longURL := "https://example.com/path?q=1&r=%20x#frag"
	_, err := repo.Save(context.Background(), longURL, "abc123")
	require.NoError(t, err)

	// Act
	url, err := repo.Get(context.Background(), "abc123")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, longURL, url)
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	url, err := repo.Get(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, shortener.ErrNotFound)
	assert.Empty(t, url)
}

func TestRepository_Get_ClosedDB(t *testing.T) {
	// Arrange
	db := openTestDB(t)
	repo := NewRepository(db)
	require.NoError(t, db.Close())

	// Act
	_, err := repo.Get(context.Background(), "abc123")

	// Assert
	assert.ErrorIs(t, err, shortener.ErrStorage)
	assert.NotErrorIs(t, err, shortener.ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	// Arrange
	repo := NewRepository(openTestDB(t))
	_, err := repo.Save(context.Background(), "https://example.com", "abc123")
	require.NoError(t, err)

	// Act
	err = repo.Delete(context.Background(), "abc123")

	// Assert
	assert.NoError(t, err)
	_, err = repo.Get(context.Background(), "abc123")
	assert.ErrorIs(t, err, shortener.ErrNotFound)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	err := repo.Delete(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, shortener.ErrNotFound)
}

func TestRepository_Delete_AliasReusable(t *testing.T) {
	// Arrange
	repo := NewRepository(openTestDB(t))
	_, err := repo.Save(context.Background(), "https://old.example.com", "reuse")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), "reuse"))

	// Act
	_, err = repo.Save(context.Background(), "https://new.example.com", "reuse")

	// Assert
	require.NoError(t, err)
	url, err := repo.Get(context.Background(), "reuse")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", url)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isUniqueViolation(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}))
	assert.False(t, isUniqueViolation(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintNotNull,
	}))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
}
