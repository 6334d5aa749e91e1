package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/auth"
	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

var (
	// ErrEmailTaken indicates the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated indicates a missing, invalid or orphaned session token.
	ErrUnauthenticated = errors.New("authentication required")
)

// Landing pages after login.
const (
	SuperAdminHome  = "/superadmin"
	SchoolAdminHome = "/admin"
	SettingsPage    = "/admin/settings"
	LoginPage       = "/login"
)

// LoginResult carries the signed session token and the landing page.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Response  dto.LoginResponse
}

// AuthService signs admins up, logs them in and resolves session tokens.
type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (LoginResult, error)
	Authenticate(ctx context.Context, token string) (Actor, error)
}

type authService struct {
	users     repository.UserRepository
	schools   repository.SchoolRepository
	tokens    *auth.TokenManager
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
	dummyHash string
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, schools repository.SchoolRepository, tokens *auth.TokenManager, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AuthService {
	dummy, _ := auth.HashPassword("placeholder-password")
	return &authService{
		users:     users,
		schools:   schools,
		tokens:    tokens,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		dummyHash: dummy,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (dto.UserResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	owner := models.User{
		Name:         cleanText(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        cleanText(req.Phone),
		Role:         models.RoleSchoolAdmin,
		IsFirstLogin: true,
	}
	school := models.School{
		Name:    cleanText(req.School),
		Address: cleanText(req.Address),
		State:   cleanText(req.State),
		Pincode: cleanText(req.Pincode),
	}

	if err := s.schools.CreateWithOwner(ctx, &owner, &school); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, fmt.Errorf("create school admin: %w", err)
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    owner.ID,
		ActorRole:  owner.Role,
		Action:     ActionSchoolRegistered,
		EntityType: "school",
		EntityID:   school.ID,
		Metadata:   map[string]interface{}{"name": school.Name},
	})
	s.logger.Info().Str("school_id", school.ID).Msg("school registered")

	return dto.NewUserResponse(owner), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = auth.VerifyPassword(s.dummyHash, req.Password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	redirect, err := s.landingPage(ctx, &user)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Response:  dto.LoginResponse{Redirect: redirect, User: dto.NewUserResponse(user)},
	}, nil
}

func (s *authService) landingPage(ctx context.Context, user *models.User) (string, error) {
	switch user.Role {
	case models.RoleSuperAdmin:
		return SuperAdminHome, nil
	case models.RoleSchoolAdmin:
		if !user.IsFirstLogin {
			return SchoolAdminHome, nil
		}
		if err := s.users.ClearFirstLogin(ctx, user.ID); err != nil {
			return "", err
		}
		user.IsFirstLogin = false
		return SettingsPage, nil
	default:
		return "", ErrInvalidCredentials
	}
}

func (s *authService) Authenticate(ctx context.Context, token string) (Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Actor{}, ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrUnauthenticated
		}
		return Actor{}, err
	}

	role, err := models.ParseUserRole(string(user.Role))
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}

	actor := Actor{UserID: user.ID, Role: role}
	if user.SchoolID != nil {
		actor.SchoolID = *user.SchoolID
	}
	return actor, nil
}
