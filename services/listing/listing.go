package listing

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"barkbox/database/repository"
	listingRepo "barkbox/database/repository/listing"
	"barkbox/models"
	"barkbox/services/storage"
	"barkbox/utils"
	"barkbox/utils/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateListingRequest is the payload for a new dog listing.
type CreateListingRequest struct {
	Breed    string  `json:"breed" form:"breed" validate:"required,max=50"`
	Age      int     `json:"age" form:"age" validate:"gte=0,lte=30"`
	Price    float64 `json:"price" form:"price" validate:"gte=0"`
	Location string  `json:"location" form:"location" validate:"required,max=100"`
	Image    string  `json:"image" form:"imageUrl" validate:"omitempty,url"`
}

// UpdateListingRequest carries the fields to change.
type UpdateListingRequest struct {
	Breed    *string  `json:"breed" form:"breed" validate:"omitempty,min=1,max=50"`
	Age      *int     `json:"age" form:"age" validate:"omitempty,gte=0,lte=30"`
	Price    *float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	Location *string  `json:"location" form:"location" validate:"omitempty,min=1,max=100"`
	Image    *string  `json:"image" form:"imageUrl" validate:"omitempty,url"`
}

// ListListingsQuery holds the public search parameters.
type ListListingsQuery struct {
	Breed    string   `form:"breed" validate:"omitempty,max=50"`
	Location string   `form:"location" validate:"omitempty,max=100"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	Vendor   string   `form:"vendor"`
	Page     int      `form:"page" validate:"omitempty,gte=1"`
	Limit    int      `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// ListingService manages dog listings.
type ListingService interface {
	Create(ctx context.Context, actor models.Actor, req CreateListingRequest, image io.Reader) (*models.DogListing, error)
	Get(ctx context.Context, id string) (*models.DogListing, error)
	List(ctx context.Context, q ListListingsQuery) ([]models.DogListing, models.Pagination, error)
	Update(ctx context.Context, actor models.Actor, id string, req UpdateListingRequest, image io.Reader) (*models.DogListing, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// DefaultListingService implements ListingService. Images is optional.
type DefaultListingService struct {
	Listings listingRepo.ListingRepository
	Images   storage.ImageStore
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewListingService creates a listing service. images may be nil.
func NewListingService(listings listingRepo.ListingRepository, images storage.ImageStore, logger *zap.Logger) *DefaultListingService {
	return &DefaultListingService{Listings: listings, Images: images, Logger: logger, Now: time.Now}
}

var (
	errListingNotFound = apperr.NotFound("dog listing not found")
	errUploadsDisabled = apperr.Validation("validation failed", apperr.FieldError{Field: "image", Message: "image uploads are not enabled"})
)

func (s *DefaultListingService) Create(ctx context.Context, actor models.Actor, req CreateListingRequest, image io.Reader) (*models.DogListing, error) {
	if !actor.IsPrivileged() {
		return nil, apperr.Forbidden("only vendors can create listings")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	imageURL, err := s.resolveImage(ctx, req.Image, image)
	if err != nil {
		return nil, err
	}
	now := s.Now().UTC()
	l := &models.DogListing{
		ID:        uuid.NewString(),
		Vendor:    actor.ID,
		Breed:     strings.TrimSpace(req.Breed),
		Age:       req.Age,
		Price:     req.Price,
		Location:  strings.TrimSpace(req.Location),
		Image:     imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, s.internal("create listing", err)
	}
	s.Logger.Info("Dog listing created", zap.String("listingID", l.ID), zap.String("vendor", l.Vendor))
	return l, nil
}

func (s *DefaultListingService) Get(ctx context.Context, id string) (*models.DogListing, error) {
	l, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr("load listing", err)
	}
	return l, nil
}

// List is public; results are newest first.
func (s *DefaultListingService) List(ctx context.Context, q ListListingsQuery) ([]models.DogListing, models.Pagination, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return nil, models.Pagination{}, err
	}
	page := models.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize()
	f := listingRepo.ListingFilter{
		Breed:    strings.TrimSpace(q.Breed),
		Location: strings.TrimSpace(q.Location),
		MaxPrice: q.MaxPrice,
		Vendor:   q.Vendor,
	}
	items, total, err := s.Listings.List(ctx, f, page)
	if err != nil {
		return nil, models.Pagination{}, s.internal("list listings", err)
	}
	return items, models.NewPagination(total, page), nil
}

func (s *DefaultListingService) Update(ctx context.Context, actor models.Actor, id string, req UpdateListingRequest, image io.Reader) (*models.DogListing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	l, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Breed != nil {
		l.Breed = strings.TrimSpace(*req.Breed)
	}
	if req.Age != nil {
		l.Age = *req.Age
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Location != nil {
		l.Location = strings.TrimSpace(*req.Location)
	}
	current := l.Image
	if req.Image != nil {
		current = *req.Image
	}
	if l.Image, err = s.resolveImage(ctx, current, image); err != nil {
		return nil, err
	}
	l.UpdatedAt = s.Now().UTC()
	if err := s.Listings.Replace(ctx, l); err != nil {
		return nil, s.notFoundOr("update listing", err)
	}
	return l, nil
}

func (s *DefaultListingService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Listings.Delete(ctx, id); err != nil {
		return s.notFoundOr("delete listing", err)
	}
	s.Logger.Info("Dog listing deleted", zap.String("listingID", id), zap.String("actor", actor.ID))
	return nil
}

// loadOwned returns the listing if actor is an admin or the vendor who created it.
func (s *DefaultListingService) loadOwned(ctx context.Context, actor models.Actor, id string) (*models.DogListing, error) {
	if !actor.IsPrivileged() {
		return nil, apperr.Forbidden("only vendors can manage listings")
	}
	l, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr("load listing", err)
	}
	if !actor.IsAdmin() && l.Vendor != actor.ID {
		return nil, apperr.Forbidden("you can only manage your own listings")
	}
	return l, nil
}

// resolveImage uploads file when given, otherwise keeps url.
func (s *DefaultListingService) resolveImage(ctx context.Context, url string, file io.Reader) (string, error) {
	if file == nil {
		return url, nil
	}
	if s.Images == nil {
		return "", errUploadsDisabled
	}
	uploaded, err := s.Images.UploadImage(ctx, file, storage.ListingImagesFolder)
	if err != nil {
		return "", s.internal("upload image", err)
	}
	return uploaded, nil
}

func (s *DefaultListingService) notFoundOr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errListingNotFound
	}
	return s.internal(op, err)
}

func (s *DefaultListingService) internal(op string, err error) error {
	s.Logger.Error("Listing service failure", zap.String("op", op), zap.Error(err))
	return apperr.Unavailable(err)
}

var _ ListingService = (*DefaultListingService)(nil)
