package person

import (
	"context"
	"errors"
	"strings"
	"time"

	"barkbox/database/repository"
	personRepo "barkbox/database/repository/person"
	"barkbox/models"
	"barkbox/utils"
	"barkbox/utils/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterRequest is the sign-up payload. Admin accounts cannot self-register.
type RegisterRequest struct {
	FirstName      string                `json:"firstName" validate:"required,min=2,max=50"`
	LastName       string                `json:"lastName" validate:"required,min=2,max=50"`
	Email          string                `json:"email" validate:"required,email"`
	Password       string                `json:"password" validate:"required,min=8,max=72"`
	Role           string                `json:"role" validate:"required,oneof=user vendor"`
	Vendor         *models.VendorProfile `json:"vendor"`
	FavoriteBreeds []string              `json:"favoriteBreeds" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Person    *models.Person `json:"person"`
}

// UpdateRequest carries the fields to change; nil means unchanged.
type UpdateRequest struct {
	FirstName      *string               `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName       *string               `json:"lastName" validate:"omitempty,min=2,max=50"`
	Email          *string               `json:"email" validate:"omitempty,email"`
	Password       *string               `json:"password" validate:"omitempty,min=8,max=72"`
	Role           *string               `json:"role" validate:"omitempty,oneof=user vendor admin"`
	Vendor         *models.VendorProfile `json:"vendor"`
	FavoriteBreeds *[]string             `json:"favoriteBreeds" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(p *models.Person) (string, time.Time, error)
}

// TokenRevoker blacklists tokens on logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
}

// PersonService manages accounts and authentication.
type PersonService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.Person, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, tokenHash string, expiresAt time.Time) error
	Get(ctx context.Context, actor models.Actor, id string) (*models.Person, error)
	List(ctx context.Context, actor models.Actor, role string, page models.PageRequest) ([]models.Person, models.Pagination, error)
	Update(ctx context.Context, actor models.Actor, id string, req UpdateRequest) (*models.Person, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

// DefaultPersonService implements PersonService.
type DefaultPersonService struct {
	Persons personRepo.PersonRepository
	Tokens  TokenIssuer
	Revoker TokenRevoker
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewPersonService creates a person service.
func NewPersonService(persons personRepo.PersonRepository, tokens TokenIssuer, revoker TokenRevoker, logger *zap.Logger) *DefaultPersonService {
	return &DefaultPersonService{Persons: persons, Tokens: tokens, Revoker: revoker, Logger: logger, Now: time.Now}
}

var (
	errPersonNotFound     = apperr.NotFound("person not found")
	errEmailTaken         = apperr.Conflict("email is already registered")
	errBadCredentials     = apperr.Unauthorized("invalid email or password")
	errVendorProfileNeeds = apperr.Validation("validation failed", apperr.FieldError{Field: "vendor", Message: "is required for vendors"})
)

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Register creates a user or vendor account.
func (s *DefaultPersonService) Register(ctx context.Context, req RegisterRequest) (*models.Person, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	role := models.Role(req.Role)
	if role == models.RoleVendor && req.Vendor == nil {
		return nil, errVendorProfileNeeds
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, s.internal("hash password", err)
	}
	now := s.Now().UTC()
	p := &models.Person{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyRolePayload(p, req.Vendor, req.FavoriteBreeds)

	if err := s.Persons.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailTaken
		}
		return nil, s.internal("create person", err)
	}
	s.Logger.Info("Person registered", zap.String("personID", p.ID), zap.String("role", string(p.Role)))
	return p, nil
}

// applyRolePayload sets exactly the payload matching the role.
func applyRolePayload(p *models.Person, vendor *models.VendorProfile, breeds []string) {
	p.Vendor, p.User = nil, nil
	switch p.Role {
	case models.RoleVendor:
		p.Vendor = vendor
	case models.RoleUser:
		p.User = &models.UserProfile{FavoriteBreeds: breeds}
	}
}

// Login verifies credentials and issues a token.
func (s *DefaultPersonService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	p, err := s.Persons.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, s.internal("load person", err)
	}
	if !utils.CheckPassword(p.PasswordHash, req.Password) {
		return nil, errBadCredentials
	}
	token, exp, err := s.Tokens.Issue(p)
	if err != nil {
		return nil, s.internal("issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Person: p}, nil
}

// Logout revokes the token until it would have expired.
func (s *DefaultPersonService) Logout(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	if err := s.Revoker.Revoke(ctx, tokenHash, expiresAt.Sub(s.Now())); err != nil {
		return s.internal("revoke token", err)
	}
	return nil
}

// Get returns a person to themselves or to an admin.
func (s *DefaultPersonService) Get(ctx context.Context, actor models.Actor, id string) (*models.Person, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apperr.Forbidden("you can only view your own profile")
	}
	p, err := s.Persons.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr("load person", err)
	}
	return p, nil
}

// List pages through persons, newest first. Admin only.
func (s *DefaultPersonService) List(ctx context.Context, actor models.Actor, role string, page models.PageRequest) ([]models.Person, models.Pagination, error) {
	if !actor.IsAdmin() {
		return nil, models.Pagination{}, apperr.Forbidden("only admins can list persons")
	}
	r := models.Role(role)
	if role != "" && !r.Valid() {
		return nil, models.Pagination{}, apperr.Validation("validation failed", apperr.FieldError{Field: "role", Message: "must be one of [user vendor admin]"})
	}
	if page.Limit > models.MaxPageLimit {
		return nil, models.Pagination{}, apperr.Validation("validation failed", apperr.FieldError{Field: "limit", Message: "must be at most 100"})
	}
	page = page.Normalize()
	persons, total, err := s.Persons.List(ctx, r, page)
	if err != nil {
		return nil, models.Pagination{}, s.internal("list persons", err)
	}
	return persons, models.NewPagination(total, page), nil
}

// Update changes a profile. Only admins may change roles.
func (s *DefaultPersonService) Update(ctx context.Context, actor models.Actor, id string, req UpdateRequest) (*models.Person, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apperr.Forbidden("you can only update your own profile")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	p, err := s.Persons.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr("load person", err)
	}

	if req.FirstName != nil {
		p.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		p.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		p.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, s.internal("hash password", err)
		}
		p.PasswordHash = hash
	}

	vendor := p.Vendor
	if req.Vendor != nil {
		vendor = req.Vendor
	}
	var breeds []string
	if p.User != nil {
		breeds = p.User.FavoriteBreeds
	}
	if req.FavoriteBreeds != nil {
		breeds = *req.FavoriteBreeds
	}
	if req.Role != nil && models.Role(*req.Role) != p.Role {
		if !actor.IsAdmin() {
			return nil, apperr.Forbidden("only admins can change roles")
		}
		p.Role = models.Role(*req.Role)
	}
	if p.Role == models.RoleVendor && vendor == nil {
		return nil, errVendorProfileNeeds
	}
	applyRolePayload(p, vendor, breeds)
	p.UpdatedAt = s.Now().UTC()

	if err := s.Persons.Replace(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailTaken
		}
		return nil, s.notFoundOr("update person", err)
	}
	return p, nil
}

// Delete removes an account; self or admin.
func (s *DefaultPersonService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() && actor.ID != id {
		return apperr.Forbidden("you can only delete your own account")
	}
	if err := s.Persons.Delete(ctx, id); err != nil {
		return s.notFoundOr("delete person", err)
	}
	s.Logger.Info("Person deleted", zap.String("personID", id), zap.String("actor", actor.ID))
	return nil
}

// EnsureAdmin creates the bootstrap admin account if the email is unused.
func (s *DefaultPersonService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	_, err := s.Persons.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.Now().UTC()
	admin := &models.Person{
		ID:           uuid.NewString(),
		FirstName:    "Admin",
		LastName:     "BarkBox",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Persons.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	s.Logger.Info("Bootstrap admin ensured", zap.String("email", email))
	return nil
}

func (s *DefaultPersonService) notFoundOr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errPersonNotFound
	}
	return s.internal(op, err)
}

func (s *DefaultPersonService) internal(op string, err error) error {
	s.Logger.Error("Person service failure", zap.String("op", op), zap.Error(err))
	return apperr.Unavailable(err)
}

var _ PersonService = (*DefaultPersonService)(nil)
