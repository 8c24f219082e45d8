// CaterEase API | 2026
// service_test.go

package caterer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterease/api/internal/auth"
	"github.com/caterease/api/internal/core"
)

type fakeRepository struct {
	caterers map[int64]*Caterer
	menus    map[int64][]MenuSummary
	reviews  map[int64][]ReviewSummary
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		caterers: map[int64]*Caterer{},
		menus:    map[int64][]MenuSummary{},
		reviews:  map[int64][]ReviewSummary{},
		nextID:   1,
	}
}

func (f *fakeRepository) Create(_ context.Context, caterer *Caterer) error {
	for _, existing := range f.caterers {
		if existing.UserID == caterer.UserID {
			return fmt.Errorf("create caterer: %w", core.ErrDuplicateKey)
		}
	}
	caterer.ID = f.nextID
	f.nextID++
	caterer.CreatedAt = time.Now()
	caterer.UpdatedAt = caterer.CreatedAt
	copied := *caterer
	f.caterers[caterer.ID] = &copied
	return nil
}

func (f *fakeRepository) GetByID(
	_ context.Context,
	id int64,
) (*Caterer, error) {
	caterer, ok := f.caterers[id]
	if !ok {
		return nil, fmt.Errorf("get caterer: %w", core.ErrNotFound)
	}
	copied := *caterer
	return &copied, nil
}

func (f *fakeRepository) GetByUserID(
	_ context.Context,
	userID int64,
) (*Caterer, error) {
	for _, caterer := range f.caterers {
		if caterer.UserID == userID {
			copied := *caterer
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get caterer by user: %w", core.ErrNotFound)
}

func (f *fakeRepository) Update(_ context.Context, caterer *Caterer) error {
	if _, ok := f.caterers[caterer.ID]; !ok {
		return fmt.Errorf("update caterer: %w", core.ErrNotFound)
	}
	caterer.UpdatedAt = time.Now()
	copied := *caterer
	f.caterers[caterer.ID] = &copied
	return nil
}

func (f *fakeRepository) List(_ context.Context) ([]Caterer, error) {
	var out []Caterer
	for _, caterer := range f.caterers {
		out = append(out, *caterer)
	}
	return out, nil
}

func (f *fakeRepository) Search(
	_ context.Context,
	params SearchParams,
) ([]Caterer, error) {
	var out []Caterer
	for _, caterer := range f.caterers {
		if params.Location != "" && !matchesLocation(caterer, params.Location) {
			continue
		}
		if params.EventType != "" &&
			!caterer.ServesEventType(params.EventType) {
			continue
		}
		out = append(out, *caterer)
	}
	return out, nil
}

func matchesLocation(c *Caterer, location string) bool {
	needle := strings.ToLower(location)
	for _, hay := range []string{c.Location, c.City, c.State} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func (f *fakeRepository) MenusForCaterer(
	_ context.Context,
	catererID int64,
) ([]MenuSummary, error) {
	return f.menus[catererID], nil
}

func (f *fakeRepository) ReviewsForCaterer(
	_ context.Context,
	catererID int64,
) ([]ReviewSummary, error) {
	return f.reviews[catererID], nil
}

func profileParams(userID int64) auth.CreateCatererParams {
	return auth.CreateCatererParams{
		UserID:       userID,
		BusinessName: "Spice Route Catering",
		Description:  "South Indian wedding specialists",
		Location:     "Indiranagar",
		City:         "Bengaluru",
		State:        "Karnataka",
		Specialties:  []string{"biryani", "dosa"},
		EventTypes:   []string{"wedding", "corporate"},
		MinPlate:     50,
		MaxPlate:     500,
	}
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo)

	info, err := svc.CreateProfile(ctx, profileParams(2))
	require.NoError(t, err)

	assert.Equal(t, int64(2), info.UserID)
	assert.Equal(t, "Spice Route Catering", info.BusinessName)
	assert.Equal(t, 50, info.MinPlate)
	assert.Equal(t, 500, info.MaxPlate)
	assert.Zero(t, info.Rating)
	assert.Zero(t, info.ReviewCount)

	_, err = svc.CreateProfile(ctx, profileParams(2))
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestGetDetail(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo)

	info, err := svc.CreateProfile(ctx, profileParams(2))
	require.NoError(t, err)

	t.Run("empty menus and reviews are never nil", func(t *testing.T) {
		detail, err := svc.GetDetail(ctx, info.ID)
		require.NoError(t, err)

		assert.NotNil(t, detail.Menus)
		assert.NotNil(t, detail.Reviews)
		assert.Empty(t, detail.Menus)
		assert.Empty(t, detail.Reviews)
	})

	t.Run("includes menus and reviews", func(t *testing.T) {
		repo.menus[info.ID] = []MenuSummary{
			{ID: 100, Name: "Wedding Feast", MealType: "dinner"},
		}
		repo.reviews[info.ID] = []ReviewSummary{
			{ID: 1, UserID: 5, UserName: "Asha", Rating: 5},
		}

		detail, err := svc.GetDetail(ctx, info.ID)
		require.NoError(t, err)

		require.Len(t, detail.Menus, 1)
		assert.Equal(t, "Wedding Feast", detail.Menus[0].Name)
		require.Len(t, detail.Reviews, 1)
		assert.Equal(t, "Asha", detail.Reviews[0].UserName)
	})

	t.Run("missing caterer", func(t *testing.T) {
		_, err := svc.GetDetail(ctx, 404)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.CreateProfile(ctx, profileParams(2))
	require.NoError(t, err)

	t.Run("applies only the provided fields", func(t *testing.T) {
		minPlate := 25
		updated, err := svc.UpdateProfile(ctx, 2, UpdateProfileRequest{
			MinPlate: &minPlate,
		})
		require.NoError(t, err)

		assert.Equal(t, 25, updated.MinPlate)
		assert.Equal(t, 500, updated.MaxPlate)
		assert.Equal(t, "Spice Route Catering", updated.BusinessName)
	})

	t.Run("replaces list fields wholesale", func(t *testing.T) {
		eventTypes := []string{"party"}
		updated, err := svc.UpdateProfile(ctx, 2, UpdateProfileRequest{
			EventTypes: &eventTypes,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"party"}, []string(updated.EventTypes))
	})

	t.Run("inverted plate bounds are stored as given", func(t *testing.T) {
		minPlate, maxPlate := 600, 500
		updated, err := svc.UpdateProfile(ctx, 2, UpdateProfileRequest{
			MinPlate: &minPlate,
			MaxPlate: &maxPlate,
		})
		require.NoError(t, err)

		// Bounds are only cross-checked at order time, where an empty
		// valid range rejects every plate count.
		assert.Equal(t, 600, updated.MinPlate)
		assert.Equal(t, 500, updated.MaxPlate)
	})

	t.Run("unauthenticated caller", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, 0, UpdateProfileRequest{})
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("caller without a profile", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, 99, UpdateProfileRequest{})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.CreateProfile(ctx, profileParams(2))
	require.NoError(t, err)

	other := profileParams(3)
	other.BusinessName = "Mumbai Tiffins"
	other.Location = "Bandra"
	other.City = "Mumbai"
	other.State = "Maharashtra"
	other.EventTypes = []string{"party"}
	_, err = svc.CreateProfile(ctx, other)
	require.NoError(t, err)

	t.Run("by location", func(t *testing.T) {
		results, err := svc.Search(ctx, SearchParams{Location: "bengaluru"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Spice Route Catering", results[0].BusinessName)
	})

	t.Run("by event type", func(t *testing.T) {
		results, err := svc.Search(ctx, SearchParams{EventType: "party"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Mumbai Tiffins", results[0].BusinessName)
	})

	t.Run("both filters must match", func(t *testing.T) {
		results, err := svc.Search(ctx, SearchParams{
			Location:  "Mumbai",
			EventType: "wedding",
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
