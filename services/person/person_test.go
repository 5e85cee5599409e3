package person

import (
	"context"
	"fmt"
	"testing"
	"time"

	"barkbox/database/repository"
	"barkbox/models"
	"barkbox/utils/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memPersons struct {
	byID map[string]*models.Person
}

func newMemPersons() *memPersons {
	return &memPersons{byID: map[string]*models.Person{}}
}

func (m *memPersons) emailTaken(email, exceptID string) bool {
	for _, p := range m.byID {
		if p.Email == email && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *memPersons) Create(_ context.Context, p *models.Person) error {
	if m.emailTaken(p.Email, "") {
		return fmt.Errorf("insert: %w", repository.ErrDuplicate)
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPersons) GetByID(_ context.Context, id string) (*models.Person, error) {
	if p, ok := m.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memPersons) GetByEmail(_ context.Context, email string) (*models.Person, error) {
	for _, p := range m.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPersons) GetSummaries(context.Context, []string) (map[string]*models.PersonSummary, error) {
	return nil, nil
}

func (m *memPersons) List(_ context.Context, role models.Role, _ models.PageRequest) ([]models.Person, int64, error) {
	var out []models.Person
	for _, p := range m.byID {
		if role == "" || p.Role == role {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memPersons) Replace(_ context.Context, p *models.Person) error {
	if _, ok := m.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.emailTaken(p.Email, p.ID) {
		return repository.ErrDuplicate
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPersons) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memPersons) EnsureIndexes(context.Context) error { return nil }

type stubIssuer struct{}

func (stubIssuer) Issue(p *models.Person) (string, time.Time, error) {
	return "token-for-" + p.ID, time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC), nil
}

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) Revoke(ctx context.Context, hash string, ttl time.Duration) error {
	return m.Called(ctx, hash, ttl).Error(0)
}

var now = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func newService() (*DefaultPersonService, *memPersons, *mockRevoker) {
	repo := newMemPersons()
	revoker := new(mockRevoker)
	svc := NewPersonService(repo, stubIssuer{}, revoker, zap.NewNop())
	svc.Now = func() time.Time { return now }
	return svc, repo, revoker
}

func userRequest(email string) RegisterRequest {
	return RegisterRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          email,
		Password:       "correct horse",
		Role:           "user",
		FavoriteBreeds: []string{"Beagle"},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	p, err := svc.Register(ctx, userRequest("Jane@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.NotEqual(t, "correct horse", p.PasswordHash)
	require.NotNil(t, p.User)
	assert.Equal(t, []string{"Beagle"}, p.User.FavoriteBreeds)
	assert.Nil(t, p.Vendor)

	_, err = svc.Register(ctx, userRequest("jane@example.com"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	res, err := svc.Login(ctx, LoginRequest{Email: "JANE@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+p.ID, res.Token)

	_, err = svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRegisterVendorNeedsStoreProfile(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	req := userRequest("vic@example.com")
	req.Role = "vendor"
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	req.Vendor = &models.VendorProfile{StoreName: "Paws", StoreDescription: "Grooming", StoreLocation: "Austin", StoreContact: "555-0100"}
	p, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, p.Role)
	assert.Nil(t, p.User)

	req = userRequest("root@example.com")
	req.Role = "admin"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLogoutRevokesForRemainingLifetime(t *testing.T) {
	svc, _, revoker := newService()
	revoker.On("Revoke", mock.Anything, "hash", 2*time.Hour).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), "hash", now.Add(2*time.Hour)))
	revoker.AssertExpectations(t)
}

func TestAccessRules(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	jane, err := svc.Register(ctx, userRequest("jane@example.com"))
	require.NoError(t, err)
	sam, err := svc.Register(ctx, userRequest("sam@example.com"))
	require.NoError(t, err)

	janeActor := models.Actor{ID: jane.ID, Role: models.RoleUser}
	adminActor := models.Actor{ID: "admin", Role: models.RoleAdmin}

	_, err = svc.Get(ctx, janeActor, sam.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.Get(ctx, adminActor, sam.ID)
	assert.NoError(t, err)

	_, _, err = svc.List(ctx, janeActor, "", models.PageRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	items, page, err := svc.List(ctx, adminActor, "user", models.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, page.CurrentPage)

	vendor := "vendor"
	_, err = svc.Update(ctx, janeActor, jane.ID, UpdateRequest{Role: &vendor})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	taken := "sam@example.com"
	_, err = svc.Update(ctx, janeActor, jane.ID, UpdateRequest{Email: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	name := "Janet"
	updated, err := svc.Update(ctx, janeActor, jane.ID, UpdateRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)

	assert.ErrorIs(t, svc.Delete(ctx, janeActor, sam.ID), apperr.ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, adminActor, sam.ID))
	assert.ErrorIs(t, svc.Delete(ctx, adminActor, sam.ID), apperr.ErrNotFound)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin@Example.com", "s3cret-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "s3cret-pass"))

	admins, _, err := repo.List(ctx, models.RoleAdmin, models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)
}
