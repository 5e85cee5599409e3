package personRepo

import (
	"context"

	"barkbox/models"
)

// PersonRepository defines methods for person data access.
type PersonRepository interface {
	// Create inserts a new person; a taken email surfaces as repository.ErrDuplicate.
	Create(ctx context.Context, p *models.Person) error
	// GetByID retrieves a person by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Person, error)
	// GetByEmail retrieves a person by (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*models.Person, error)
	// GetSummaries returns display fields for the given IDs, keyed by ID.
	GetSummaries(ctx context.Context, ids []string) (map[string]*models.PersonSummary, error)
	// List returns one page of persons, optionally filtered by role, newest first.
	List(ctx context.Context, role models.Role, page models.PageRequest) ([]models.Person, int64, error)
	// Replace overwrites a stored person.
	Replace(ctx context.Context, p *models.Person) error
	// Delete removes a person by ID.
	Delete(ctx context.Context, id string) error
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes(ctx context.Context) error
}
