package pet

import (
	"context"
	"errors"
	"strings"
	"time"

	"barkbox/database/repository"
	petRepo "barkbox/database/repository/pet"
	"barkbox/models"
	"barkbox/utils"
	"barkbox/utils/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePetRequest is the payload for a new pet profile.
type CreatePetRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=50"`
	Breed          string  `json:"breed" validate:"required,max=50"`
	Age            int     `json:"age" validate:"gte=0,lte=40"`
	Weight         float64 `json:"weight" validate:"required,gt=0"`
	MedicalHistory string  `json:"medicalHistory" validate:"max=2000"`
	Notes          string  `json:"notes" validate:"max=500"`
}

// UpdatePetRequest carries the fields to change.
type UpdatePetRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Breed          *string  `json:"breed" validate:"omitempty,min=1,max=50"`
	Age            *int     `json:"age" validate:"omitempty,gte=0,lte=40"`
	Weight         *float64 `json:"weight" validate:"omitempty,gt=0"`
	MedicalHistory *string  `json:"medicalHistory" validate:"omitempty,max=2000"`
	Notes          *string  `json:"notes" validate:"omitempty,max=500"`
}

// PetService manages pet profiles.
type PetService interface {
	Create(ctx context.Context, actor models.Actor, req CreatePetRequest) (*models.PetProfile, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.PetProfile, error)
	List(ctx context.Context, actor models.Actor, owner string, page models.PageRequest) ([]models.PetProfile, models.Pagination, error)
	Update(ctx context.Context, actor models.Actor, id string, req UpdatePetRequest) (*models.PetProfile, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// DefaultPetService implements PetService.
type DefaultPetService struct {
	Pets   petRepo.PetRepository
	Logger *zap.Logger
	Now    func() time.Time
}

// NewPetService creates a pet service.
func NewPetService(pets petRepo.PetRepository, logger *zap.Logger) *DefaultPetService {
	return &DefaultPetService{Pets: pets, Logger: logger, Now: time.Now}
}

var errPetNotFound = apperr.NotFound("pet profile not found")

func (s *DefaultPetService) Create(ctx context.Context, actor models.Actor, req CreatePetRequest) (*models.PetProfile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := s.Now().UTC()
	p := &models.PetProfile{
		ID:             uuid.NewString(),
		PetOwner:       actor.ID,
		Name:           strings.TrimSpace(req.Name),
		Breed:          strings.TrimSpace(req.Breed),
		Age:            req.Age,
		Weight:         req.Weight,
		MedicalHistory: req.MedicalHistory,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Pets.Create(ctx, p); err != nil {
		return nil, s.internal("create pet", err)
	}
	return p, nil
}

func (s *DefaultPetService) Get(ctx context.Context, actor models.Actor, id string) (*models.PetProfile, error) {
	return s.load(ctx, actor, id)
}

// List returns the actor's pets. Admins may name any owner, or none for all.
func (s *DefaultPetService) List(ctx context.Context, actor models.Actor, owner string, page models.PageRequest) ([]models.PetProfile, models.Pagination, error) {
	if !actor.IsAdmin() {
		owner = actor.ID
	}
	page = page.Normalize()
	pets, total, err := s.Pets.ListByOwner(ctx, owner, page)
	if err != nil {
		return nil, models.Pagination{}, s.internal("list pets", err)
	}
	return pets, models.NewPagination(total, page), nil
}

func (s *DefaultPetService) Update(ctx context.Context, actor models.Actor, id string, req UpdatePetRequest) (*models.PetProfile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Breed != nil {
		p.Breed = strings.TrimSpace(*req.Breed)
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Weight != nil {
		p.Weight = *req.Weight
	}
	if req.MedicalHistory != nil {
		p.MedicalHistory = *req.MedicalHistory
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	p.UpdatedAt = s.Now().UTC()
	if err := s.Pets.Replace(ctx, p); err != nil {
		return nil, s.notFoundOr("update pet", err)
	}
	return p, nil
}

// Delete removes a pet profile. Bookings that reference it keep their pet name.
func (s *DefaultPetService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Pets.Delete(ctx, id); err != nil {
		return s.notFoundOr("delete pet", err)
	}
	return nil
}

func (s *DefaultPetService) load(ctx context.Context, actor models.Actor, id string) (*models.PetProfile, error) {
	p, err := s.Pets.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr("load pet", err)
	}
	if !actor.IsAdmin() && p.PetOwner != actor.ID {
		return nil, apperr.Forbidden("you do not have access to this pet profile")
	}
	return p, nil
}

func (s *DefaultPetService) notFoundOr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errPetNotFound
	}
	return s.internal(op, err)
}

func (s *DefaultPetService) internal(op string, err error) error {
	s.Logger.Error("Pet service failure", zap.String("op", op), zap.Error(err))
	return apperr.Unavailable(err)
}

var _ PetService = (*DefaultPetService)(nil)
