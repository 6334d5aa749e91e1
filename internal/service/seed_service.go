package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/auth"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedResult counts the catalog rows created by a seeding run.
type SeedResult struct {
	ClassesCreated  int `json:"classes_created"`
	SectionsCreated int `json:"sections_created"`
}

// SeedService provisions the shared class catalog and the bootstrap super-admin.
type SeedService interface {
	SeedCatalog(ctx context.Context, token string) (SeedResult, error)
	EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error)
}

type seedService struct {
	classes repository.ClassRepository
	users   repository.UserRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(classes repository.ClassRepository, users repository.UserRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		classes: classes,
		users:   users,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

// SeedCatalog creates any missing catalog class and its default sections. Running it twice creates nothing new.
func (s *seedService) SeedCatalog(ctx context.Context, token string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedResult{}, ErrSeedUnauthorized
	}

	var result SeedResult
	for _, name := range models.ClassCatalog {
		class, created, err := s.classes.EnsureCatalogClass(ctx, name)
		if err != nil {
			return result, fmt.Errorf("seed class %s: %w", name, err)
		}
		if created {
			result.ClassesCreated++
		}

		for _, section := range models.DefaultSectionNames {
			_, created, err := s.classes.EnsureSection(ctx, class.ID, section)
			if err != nil {
				return result, fmt.Errorf("seed section %s/%s: %w", name, section, err)
			}
			if created {
				result.SectionsCreated++
			}
		}
	}

	s.logger.Info().
		Int("classes_created", result.ClassesCreated).
		Int("sections_created", result.SectionsCreated).
		Msg("class catalog seeded")
	return result, nil
}

// EnsureSuperAdmin creates the super-admin account when it does not exist yet. It reports whether one was created.
func (s *seedService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	user := models.User{
		Name:         "Super Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("create super admin: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("super admin account created")
	return true, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}
