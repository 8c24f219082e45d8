// CaterEase API | 2026
// service_test.go

package menu

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterease/api/internal/core"
)

type fakeRepository struct {
	menus         map[int64]*Menu
	catererByUser map[int64]int64
	ordered       map[int64]bool
	nextID        int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		menus:         map[int64]*Menu{},
		catererByUser: map[int64]int64{},
		ordered:       map[int64]bool{},
		nextID:        1,
	}
}

func (f *fakeRepository) Create(_ context.Context, menu *Menu) error {
	menu.ID = f.nextID
	f.nextID++
	menu.CreatedAt = time.Now()
	menu.UpdatedAt = menu.CreatedAt
	copied := *menu
	f.menus[menu.ID] = &copied
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id int64) (*Menu, error) {
	menu, ok := f.menus[id]
	if !ok {
		return nil, fmt.Errorf("get menu: %w", core.ErrNotFound)
	}
	copied := *menu
	return &copied, nil
}

func (f *fakeRepository) Update(_ context.Context, menu *Menu) error {
	if _, ok := f.menus[menu.ID]; !ok {
		return fmt.Errorf("update menu: %w", core.ErrNotFound)
	}
	menu.UpdatedAt = time.Now()
	copied := *menu
	f.menus[menu.ID] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.menus[id]; !ok {
		return fmt.Errorf("delete menu: %w", core.ErrNotFound)
	}
	if f.ordered[id] {
		return fmt.Errorf("delete menu: %w", ErrMenuInUse)
	}
	delete(f.menus, id)
	return nil
}

func (f *fakeRepository) ListByCaterer(
	_ context.Context,
	catererID int64,
) ([]Menu, error) {
	var out []Menu
	for _, menu := range f.menus {
		if menu.CatererID == catererID {
			out = append(out, *menu)
		}
	}
	return out, nil
}

func (f *fakeRepository) CatererIDForUser(
	_ context.Context,
	userID int64,
) (int64, error) {
	id, ok := f.catererByUser[userID]
	if !ok {
		return 0, fmt.Errorf("resolve caterer: %w", core.ErrNotFound)
	}
	return id, nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	repo.catererByUser[2] = 10
	repo.catererByUser[3] = 11
	return NewService(repo), repo
}

func createRequest() CreateMenuRequest {
	return CreateMenuRequest{
		Name:          "Wedding Feast",
		MealType:      MealTypeDinner,
		PricePerPlate: 350,
		Description:   "Traditional wedding dinner",
		Items:         []string{"paneer tikka", "dal makhani", "gulab jamun"},
		IsVegetarian:  true,
	}
}

func TestCreateMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches the caller's caterer profile", func(t *testing.T) {
		svc, _ := newTestService()

		menu, err := svc.Create(ctx, 2, createRequest())
		require.NoError(t, err)

		assert.Equal(t, int64(10), menu.CatererID)
		assert.Equal(t, "Wedding Feast", menu.Name)
		assert.Equal(t, 350, menu.PricePerPlate)
		assert.Len(t, menu.Items, 3)
	})

	t.Run("callers without a profile are rejected", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(ctx, 99, createRequest())
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestUpdateMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only the provided fields", func(t *testing.T) {
		svc, _ := newTestService()

		menu, err := svc.Create(ctx, 2, createRequest())
		require.NoError(t, err)

		newPrice := 400
		updated, err := svc.Update(ctx, 2, menu.ID, UpdateMenuRequest{
			PricePerPlate: &newPrice,
		})
		require.NoError(t, err)

		assert.Equal(t, 400, updated.PricePerPlate)
		assert.Equal(t, menu.Name, updated.Name)
		assert.Equal(t, menu.MealType, updated.MealType)
	})

	t.Run("another caterer cannot update", func(t *testing.T) {
		svc, _ := newTestService()

		menu, err := svc.Create(ctx, 2, createRequest())
		require.NoError(t, err)

		name := "Hijacked"
		_, err = svc.Update(ctx, 3, menu.ID, UpdateMenuRequest{Name: &name})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("missing menu", func(t *testing.T) {
		svc, _ := newTestService()

		name := "Nope"
		_, err := svc.Update(ctx, 2, 404, UpdateMenuRequest{Name: &name})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestDeleteMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		svc, repo := newTestService()

		menu, err := svc.Create(ctx, 2, createRequest())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, 2, menu.ID))
		assert.Empty(t, repo.menus)
	})

	t.Run("another caterer cannot delete", func(t *testing.T) {
		svc, repo := newTestService()

		menu, err := svc.Create(ctx, 2, createRequest())
		require.NoError(t, err)

		err = svc.Delete(ctx, 3, menu.ID)
		assert.ErrorIs(t, err, core.ErrForbidden)
		assert.Len(t, repo.menus, 1)
	})

	t.Run("menu with orders is kept", func(t *testing.T) {
		svc, repo := newTestService()

		menu, err := svc.Create(ctx, 2, createRequest())
		require.NoError(t, err)
		repo.ordered[menu.ID] = true

		err = svc.Delete(ctx, 2, menu.ID)
		assert.ErrorIs(t, err, ErrMenuInUse)
		assert.Len(t, repo.menus, 1)
	})
}

func TestListOwn(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Create(ctx, 2, createRequest())
	require.NoError(t, err)

	other := createRequest()
	other.Name = "Corporate Lunch"
	other.MealType = MealTypeLunch
	_, err = svc.Create(ctx, 3, other)
	require.NoError(t, err)

	menus, err := svc.ListOwn(ctx, 2)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Wedding Feast", menus[0].Name)
}
