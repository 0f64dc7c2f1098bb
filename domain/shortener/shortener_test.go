package shortener

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repository for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, url, alias string) (int64, error) {
	args := m.Called(ctx, url, alias)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, alias string) (string, error) {
	args := m.Called(ctx, alias)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, alias string) error {
	args := m.Called(ctx, alias)
	return args.Error(0)
}

// mapCache is a minimal Cache used to observe service cache traffic.
type mapCache map[string]string

func (c mapCache) Get(alias string) (string, bool) {
	url, ok := c[alias]
	return url, ok
}

func (c mapCache) Set(alias, url string) { c[alias] = url }

func (c mapCache) Remove(alias string) { delete(c, alias) }

func aliasOf(s string) *string { return &s }

func newTestService(repo Repository, cache Cache) *Service {
	return NewService(repo, NewGenerator(6), cache, logger.NewNop())
}

func TestNewService(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)

	// Act
	service := newTestService(mockRepo, nil)

	// Assert
	assert.NotNil(t, service)
	assert.Equal(t, mockRepo, service.repo)
	assert.Nil(t, service.cache)
}

func TestShorten_EmptyURL(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)

	// Act
	m, err := service.Shorten(context.Background(), "", nil)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Empty(t, m.Alias)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestShorten_AliasTooShort(t *testing.T) {
	for _, alias := range []string{"", "a", "ab", "abc", "äöü"} {
		t.Run(fmt.Sprintf("%q", alias), func(t *testing.T) {
			// Arrange
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo, nil)

			// Act
			_, err := service.Shorten(context.Background(), "https://a.com", aliasOf(alias))

			// Assert
			assert.ErrorIs(t, err, ErrAliasTooShort)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestShorten_MinimumLengthAlias(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	mockRepo.On("Save", mock.Anything, "https://a.com", "abcd").Return(int64(1), nil)

	// Act
	m, err := service.Shorten(context.Background(), "https://a.com", aliasOf("abcd"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abcd", m.Alias)
	mockRepo.AssertExpectations(t)
}

func TestShorten_WithCustomAlias(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	cache := mapCache{}
	service := newTestService(mockRepo, cache)

	longURL := "https://example.com"
	mockRepo.On("Save", mock.Anything, longURL, "custom").Return(int64(7), nil)

	// Act
	m, err := service.Shorten(context.Background(), longURL, aliasOf("custom"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Mapping{ID: 7, Alias: "custom", URL: longURL}, m)
	assert.Equal(t, longURL, cache["custom"])
	mockRepo.AssertExpectations(t)
}

func TestShorten_WithGeneratedAlias(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)

	longURL := "https://google.com"
	mockRepo.On("Save", mock.Anything, longURL, mock.MatchedBy(func(alias string) bool {
		return len(alias) == 6
	})).Return(int64(1), nil)

	// Act
	m, err := service.Shorten(context.Background(), longURL, nil)

	// Assert
	require.NoError(t, err)
	assert.Len(t, m.Alias, 6)
	assert.Equal(t, longURL, m.URL)
	mockRepo.AssertExpectations(t)
}

func TestShorten_CustomAliasExistsIsNotRetried(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	cache := mapCache{}
	service := newTestService(mockRepo, cache)
	mockRepo.On("Save", mock.Anything, "https://a.com", "taken").Return(int64(0), ErrAliasExists).Once()

	// Act
	_, err := service.Shorten(context.Background(), "https://a.com", aliasOf("taken"))

	// Assert
	assert.ErrorIs(t, err, ErrAliasExists)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
	assert.Empty(t, cache)
}

func TestShorten_GeneratedAliasRetriesOnCollision(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	mockRepo.On("Save", mock.Anything, "https://a.com", mock.Anything).Return(int64(0), ErrAliasExists).Once()
	mockRepo.On("Save", mock.Anything, "https://a.com", mock.Anything).Return(int64(2), nil).Once()

	// Act
	m, err := service.Shorten(context.Background(), "https://a.com", nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.ID)
	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestShorten_GeneratedAliasGivesUp(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	mockRepo.On("Save", mock.Anything, "https://a.com", mock.Anything).Return(int64(0), ErrAliasExists)

	// Act
	_, err := service.Shorten(context.Background(), "https://a.com", nil)

	// Assert
	assert.ErrorIs(t, err, ErrAliasExists)
	mockRepo.AssertNumberOfCalls(t, "Save", maxGenerateAttempts)
}

func TestShorten_StorageError(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	storeErr := fmt.Errorf("%w: disk I/O error", ErrStorage)
	mockRepo.On("Save", mock.Anything, "https://a.com", mock.Anything).Return(int64(0), storeErr)

	// Act
	_, err := service.Shorten(context.Background(), "https://a.com", nil)

	// Assert
	assert.ErrorIs(t, err, ErrStorage)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestResolve_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	cache := mapCache{}
	service := newTestService(mockRepo, cache)
	mockRepo.On("Get", mock.Anything, "missing").Return("", ErrNotFound)

	// Act
	url, err := service.Resolve(context.Background(), "missing")

	// Assert
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, url)
	assert.Empty(t, cache)
	mockRepo.AssertExpectations(t)
}

func TestResolve_StorageError(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	mockRepo.On("Get", mock.Anything, "abcd").Return("", fmt.Errorf("%w: locked", ErrStorage))

	// Act
	_, err := service.Resolve(context.Background(), "abcd")

	// Assert
	assert.ErrorIs(t, err, ErrStorage)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestResolve_CachesResult(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	cache := mapCache{}
	service := newTestService(mockRepo, cache)
	mockRepo.On("Get", mock.Anything, "abcd").Return("https://example.com", nil).Once()

	// Act
	first, err1 := service.Resolve(context.Background(), "abcd")
	second, err2 := service.Resolve(context.Background(), "abcd")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "https://example.com", first)
	assert.Equal(t, first, second)
	mockRepo.AssertNumberOfCalls(t, "Get", 1)
}

func TestResolve_WithoutCache(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	mockRepo.On("Get", mock.Anything, "abcd").Return("https://example.com", nil)

	// Act
	_, _ = service.Resolve(context.Background(), "abcd")
	url, err := service.Resolve(context.Background(), "abcd")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)
	mockRepo.AssertNumberOfCalls(t, "Get", 2)
}

func TestDelete_InvalidatesCache(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	cache := mapCache{"abcd": "https://example.com"}
	service := newTestService(mockRepo, cache)
	mockRepo.On("Delete", mock.Anything, "abcd").Return(nil)
	mockRepo.On("Get", mock.Anything, "abcd").Return("", ErrNotFound)

	// Act
	err := service.Delete(context.Background(), "abcd")
	_, resolveErr := service.Resolve(context.Background(), "abcd")

	// Assert
	require.NoError(t, err)
	assert.ErrorIs(t, resolveErr, ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil)
	mockRepo.On("Delete", mock.Anything, "nope").Return(ErrNotFound)

	// Act
	err := service.Delete(context.Background(), "nope")

	// Assert
	assert.ErrorIs(t, err, ErrNotFound)
}
