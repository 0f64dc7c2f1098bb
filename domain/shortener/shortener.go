package shortener

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
)

// maxGenerateAttempts bounds how many generated aliases are tried before a
// collision is reported to the caller.
const maxGenerateAttempts = 3

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrAliasTooShort = errors.New("alias too short")
	ErrAliasExists   = errors.New("alias already exists")
	ErrNotFound      = errors.New("alias not found")
	ErrStorage       = errors.New("storage failure")
)

// Mapping is a stored alias → URL association.
type Mapping struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
	URL   string `json:"url"`
}

// Repository persists mappings. Save must be a single atomic insert whose
// unique constraint on alias is the only uniqueness check; it reports a
// collision as ErrAliasExists and any other failure wrapped in ErrStorage.
type Repository interface {
	Save(ctx context.Context, url, alias string) (int64, error)
	Get(ctx context.Context, alias string) (string, error)
	Delete(ctx context.Context, alias string) error
}

// Cache holds recently resolved aliases.
type Cache interface {
	Get(alias string) (string, bool)
	Set(alias, url string)
	Remove(alias string)
}

// Service represents the domain service for URL shortening
type Service struct {
	repo  Repository
	cache Cache
	gen   *Generator
	log   *logger.Logger
}

// NewService creates a new shortener service. cache may be nil.
func NewService(repo Repository, gen *Generator, cache Cache, log *logger.Logger) *Service {
	log.Debug(context.Background(), "Creating shortener service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "shortener",
		},
	})

	return &Service{
		repo:  repo,
		cache: cache,
		gen:   gen,
		log:   log,
	}
}

// Shorten stores url under alias. A nil alias asks for a generated one; a
// supplied alias, even an empty one, is used verbatim and must meet the
// minimum length. Generated aliases are retried on collision, supplied ones
// never are.
func (s *Service) Shorten(ctx context.Context, url string, alias *string) (Mapping, error) {
	if url == "" {
		s.log.Warn(ctx, "URL cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxShorten,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidURL,
				Message: ErrInvalidURL.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
		return Mapping{}, ErrInvalidURL
	}

	var chosen string
	generated := alias == nil
	if !generated {
		chosen = *alias
	}
	if !generated && utf8.RuneCountInString(chosen) < constant.MinAliasLength {
		s.log.Warn(ctx, "Alias is too short", logger.LoggerInfo{
			ContextFunction: constant.CtxShorten,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAliasTooShort,
				Message: ErrAliasTooShort.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataAlias: chosen,
			},
		})
		return Mapping{}, ErrAliasTooShort
	}

	for attempt := 1; ; attempt++ {
		if generated {
			chosen = s.gen.Generate()
		}

		id, err := s.repo.Save(ctx, url, chosen)
		if err == nil {
			if s.cache != nil {
				s.cache.Set(chosen, url)
			}
			s.log.Info(ctx, "URL successfully shortened", logger.LoggerInfo{
				ContextFunction: constant.CtxShorten,
				Data: map[string]interface{}{
					constant.DataID:        id,
					constant.DataAlias:     chosen,
					constant.DataURL:       url,
					constant.DataGenerated: generated,
				},
			})
			return Mapping{ID: id, Alias: chosen, URL: url}, nil
		}

		if errors.Is(err, ErrAliasExists) {
			if generated && attempt < maxGenerateAttempts {
				s.log.Debug(ctx, "Generated alias collided, retrying", logger.LoggerInfo{
					ContextFunction: constant.CtxShorten,
					Error: &logger.CustomError{
						Code:    constant.ErrCodeAliasRetry,
						Message: err.Error(),
						Type:    constant.ErrTypeStorage,
					},
					Data: map[string]interface{}{
						constant.DataAlias:   chosen,
						constant.DataAttempt: attempt,
					},
				})
				continue
			}
			s.log.Warn(ctx, "Alias already exists", logger.LoggerInfo{
				ContextFunction: constant.CtxShorten,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeAliasExists,
					Message: err.Error(),
					Type:    constant.ErrTypeStorage,
				},
				Data: map[string]interface{}{
					constant.DataAlias:     chosen,
					constant.DataGenerated: generated,
					constant.DataAttempt:   attempt,
				},
			})
			return Mapping{}, err
		}

		s.log.Error(ctx, "Failed to store URL", logger.LoggerInfo{
			ContextFunction: constant.CtxShorten,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataAlias: chosen,
				constant.DataURL:   url,
			},
		})
		return Mapping{}, err
	}
}

// Resolve returns the URL stored for alias.
func (s *Service) Resolve(ctx context.Context, alias string) (string, error) {
	if s.cache != nil {
		if url, ok := s.cache.Get(alias); ok {
			s.log.Debug(ctx, "Alias resolved from cache", logger.LoggerInfo{
				ContextFunction: constant.CtxResolve,
				Data: map[string]interface{}{
					constant.DataAlias:    alias,
					constant.DataCacheHit: true,
				},
			})
			return url, nil
		}
	}

	url, err := s.repo.Get(ctx, alias)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug(ctx, "Alias not found", logger.LoggerInfo{
				ContextFunction: constant.CtxResolve,
				Data: map[string]interface{}{
					constant.DataAlias: alias,
				},
			})
			return "", err
		}
		s.log.Error(ctx, "Failed to resolve alias", logger.LoggerInfo{
			ContextFunction: constant.CtxResolve,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
			},
		})
		return "", err
	}

	if s.cache != nil {
		s.cache.Set(alias, url)
	}

	s.log.Debug(ctx, "Alias resolved", logger.LoggerInfo{
		ContextFunction: constant.CtxResolve,
		Data: map[string]interface{}{
			constant.DataAlias:    alias,
			constant.DataURL:      url,
			constant.DataCacheHit: false,
		},
	})

	return url, nil
}

// Delete removes alias from storage and from the cache.
func (s *Service) Delete(ctx context.Context, alias string) error {
	if s.cache != nil {
		s.cache.Remove(alias)
	}

	if err := s.repo.Delete(ctx, alias); err != nil {
		code, errType := constant.ErrCodeStorageFailure, constant.ErrTypeStorage
		if errors.Is(err, ErrNotFound) {
			code, errType = constant.ErrCodeAliasNotFound, constant.ErrTypeRetrieval
		}
		s.log.Warn(ctx, "Failed to delete alias", logger.LoggerInfo{
			ContextFunction: constant.CtxDelete,
			Error: &logger.CustomError{
				Code:    code,
				Message: err.Error(),
				Type:    errType,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
			},
		})
		return err
	}

	s.log.Info(ctx, "Alias deleted", logger.LoggerInfo{
		ContextFunction: constant.CtxDelete,
		Data: map[string]interface{}{
			constant.DataAlias: alias,
		},
	})
	return nil
}
