// CaterEase API | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterease/api/internal/config"
	"github.com/caterease/api/internal/core"
)

type fakeTokenStore struct {
	tokens map[string]*RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*RefreshToken{}}
}

func (f *fakeTokenStore) Create(_ context.Context, token *RefreshToken) error {
	copied := *token
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	f.tokens[token.ID] = &copied
	return nil
}

func (f *fakeTokenStore) FindByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	for _, token := range f.tokens {
		if token.TokenHash == tokenHash {
			copied := *token
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (f *fakeTokenStore) FindByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	token, ok := f.tokens[id]
	if !ok {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	copied := *token
	return &copied, nil
}

func (f *fakeTokenStore) MarkAsUsed(
	_ context.Context,
	id, replacedByID string,
) error {
	token, ok := f.tokens[id]
	if !ok {
		return fmt.Errorf("mark token used: %w", core.ErrNotFound)
	}
	token.MarkAsUsed(replacedByID)
	return nil
}

func (f *fakeTokenStore) RevokeByID(_ context.Context, id string) error {
	token, ok := f.tokens[id]
	if !ok {
		return fmt.Errorf("revoke token: %w", core.ErrNotFound)
	}
	token.Revoke()
	return nil
}

func (f *fakeTokenStore) RevokeByFamilyID(
	_ context.Context,
	familyID string,
) error {
	for _, token := range f.tokens {
		if token.FamilyID == familyID && token.RevokedAt == nil {
			token.Revoke()
		}
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(
	_ context.Context,
	userID int64,
) error {
	for _, token := range f.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.Revoke()
		}
	}
	return nil
}

func (f *fakeTokenStore) GetActiveSessionsForUser(
	_ context.Context,
	userID int64,
) ([]RefreshToken, error) {
	var out []RefreshToken
	for _, token := range f.tokens {
		if token.UserID == userID && token.IsValid() {
			out = append(out, *token)
		}
	}
	return out, nil
}

func (f *fakeTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	var deleted int64
	for id, token := range f.tokens {
		if token.IsExpired() {
			delete(f.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeUserProvider struct {
	users     map[int64]*UserInfo
	nextID    int64
	createErr error
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{users: map[int64]*UserInfo{}, nextID: 1}
}

func (f *fakeUserProvider) GetByUsername(
	_ context.Context,
	username string,
) (*UserInfo, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) GetByID(
	_ context.Context,
	id int64,
) (*UserInfo, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserProvider) Create(
	_ context.Context,
	params CreateUserParams,
) (*UserInfo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	user := &UserInfo{
		ID:           f.nextID,
		Username:     params.Username,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}
	f.nextID++
	f.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (f *fakeUserProvider) UsernameExists(
	_ context.Context,
	username string,
) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserProvider) EmailExists(
	_ context.Context,
	email string,
) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserProvider) IncrementTokenVersion(
	_ context.Context,
	userID int64,
) error {
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	user.TokenVersion++
	return nil
}

func (f *fakeUserProvider) UpdatePassword(
	_ context.Context,
	userID int64,
	passwordHash string,
) error {
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeCatererProvider struct {
	profiles map[int64]*CatererInfo
	nextID   int64
}

func newFakeCatererProvider() *fakeCatererProvider {
	return &fakeCatererProvider{profiles: map[int64]*CatererInfo{}, nextID: 1}
}

func (f *fakeCatererProvider) CreateProfile(
	_ context.Context,
	params CreateCatererParams,
) (*CatererInfo, error) {
	info := &CatererInfo{
		ID:           f.nextID,
		UserID:       params.UserID,
		BusinessName: params.BusinessName,
		Description:  params.Description,
		Location:     params.Location,
		City:         params.City,
		State:        params.State,
		Specialties:  params.Specialties,
		EventTypes:   params.EventTypes,
		MinPlate:     params.MinPlate,
		MaxPlate:     params.MaxPlate,
	}
	f.nextID++
	f.profiles[params.UserID] = info
	return info, nil
}

func (f *fakeCatererProvider) GetByUserID(
	_ context.Context,
	userID int64,
) (*CatererInfo, error) {
	info, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("get caterer profile: %w", core.ErrNotFound)
	}
	return info, nil
}

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: time.Hour,
		Issuer:             "caterease",
		Audience:           "caterease-api",
	})
	require.NoError(t, err)

	return manager
}

func newTestService(t *testing.T) (*Service, *fakeTokenStore, *fakeUserProvider) {
	t.Helper()

	store := newFakeTokenStore()
	users := newFakeUserProvider()
	svc := NewService(store, newTestJWTManager(t), users, newFakeCatererProvider(), nil)
	return svc, store, users
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "correct-horse-battery",
		Name:     "Asha Rao",
		Phone:    "9876543210",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user session", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		resp, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		assert.Equal(t, "asha", resp.User.Username)
		assert.Equal(t, "user", resp.User.Role)
		assert.Nil(t, resp.Caterer)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
		assert.Equal(t, "Bearer", resp.Tokens.TokenType)
		assert.Len(t, store.tokens, 1)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		req := registerRequest()
		req.Email = "other@example.com"
		_, err = svc.Register(ctx, req, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		req := registerRequest()
		req.Username = "someoneelse"
		_, err = svc.Register(ctx, req, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	// A concurrent insert can slip between the exists pre-checks and the
	// insert itself; the unique violation must still name the right field.
	t.Run("insert race on email", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.createErr = fmt.Errorf("create user: %w", core.ErrDuplicateEmail)

		_, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("insert race on username", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.createErr = fmt.Errorf(
			"create user: %w", core.ErrDuplicateUsername)

		_, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrUsernameExists)
	})
}

func TestRegisterCaterer(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestService(t)

	resp, err := svc.RegisterCaterer(ctx, RegisterCatererRequest{
		RegisterRequest: registerRequest(),
		BusinessName:    "Spice Route Catering",
		Location:        "Indiranagar",
		EventTypes:      []string{"wedding"},
		MinPlate:        50,
		MaxPlate:        500,
	}, "ua", "1.2.3.4")
	require.NoError(t, err)

	assert.Equal(t, "caterer", resp.User.Role)
	require.NotNil(t, resp.Caterer)
	assert.Equal(t, "Spice Route Catering", resp.Caterer.BusinessName)
	assert.Equal(t, resp.User.ID, resp.Caterer.UserID)

	stored, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "caterer", stored.Role)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		resp, err := svc.Login(ctx, LoginRequest{
			Username: "asha",
			Password: "correct-horse-battery",
		}, "ua", "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, "asha", resp.User.Username)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginRequest{
			Username: "asha",
			Password: "wrong-password-here",
		}, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Login(ctx, LoginRequest{
			Username: "nobody",
			Password: "whatever-password",
		}, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the refresh token", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		first, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		second, err := svc.Refresh(
			ctx,
			first.Tokens.RefreshToken,
			"ua",
			"1.2.3.4",
		)
		require.NoError(t, err)
		assert.NotEqual(
			t,
			first.Tokens.RefreshToken,
			second.Tokens.RefreshToken,
		)
		assert.Len(t, store.tokens, 2)

		oldHash := core.HashToken(first.Tokens.RefreshToken)
		old, err := store.FindByHash(ctx, oldHash)
		require.NoError(t, err)
		assert.True(t, old.IsUsed)

		// both tokens share a family
		newHash := core.HashToken(second.Tokens.RefreshToken)
		current, err := store.FindByHash(ctx, newHash)
		require.NoError(t, err)
		assert.Equal(t, old.FamilyID, current.FamilyID)
	})

	t.Run("reuse revokes the whole family", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		first, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		second, err := svc.Refresh(
			ctx,
			first.Tokens.RefreshToken,
			"ua",
			"1.2.3.4",
		)
		require.NoError(t, err)

		// replaying the consumed token trips reuse detection
		_, err = svc.Refresh(ctx, first.Tokens.RefreshToken, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrTokenReuse)

		newHash := core.HashToken(second.Tokens.RefreshToken)
		current, err := store.FindByHash(ctx, newHash)
		require.NoError(t, err)
		assert.True(t, current.IsRevoked())

		_, err = svc.Refresh(ctx, second.Tokens.RefreshToken, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, core.ErrTokenRevoked)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Refresh(ctx, "no-such-token", "ua", "1.2.3.4")
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	resp, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
	require.NoError(t, err)

	t.Run("another user cannot revoke the session", func(t *testing.T) {
		err := svc.Logout(ctx, resp.Tokens.RefreshToken, resp.User.ID+1)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("owner revokes the session", func(t *testing.T) {
		require.NoError(
			t,
			svc.Logout(ctx, resp.Tokens.RefreshToken, resp.User.ID),
		)

		hash := core.HashToken(resp.Tokens.RefreshToken)
		token, err := store.FindByHash(ctx, hash)
		require.NoError(t, err)
		assert.True(t, token.IsRevoked())
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Logout(ctx, "no-such-token", resp.User.ID))
	})
}

func TestValidateTokenVersion(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestService(t)

	resp, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
	require.NoError(t, err)

	require.NoError(t, svc.ValidateTokenVersion(ctx, resp.User.ID, 0))

	require.NoError(t, users.IncrementTokenVersion(ctx, resp.User.ID))

	err = svc.ValidateTokenVersion(ctx, resp.User.ID, 0)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	assert.NoError(t, svc.ValidateTokenVersion(ctx, resp.User.ID, 1))
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	t.Run("plain user has no caterer profile", func(t *testing.T) {
		resp, err := svc.Register(ctx, registerRequest(), "ua", "1.2.3.4")
		require.NoError(t, err)

		me, err := svc.GetCurrentUser(ctx, resp.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "asha", me.User.Username)
		assert.Nil(t, me.Caterer)
	})

	t.Run("caterer gets the profile attached", func(t *testing.T) {
		req := registerRequest()
		req.Username = "ravi"
		req.Email = "ravi@example.com"

		resp, err := svc.RegisterCaterer(ctx, RegisterCatererRequest{
			RegisterRequest: req,
			BusinessName:    "Ravi's Kitchen",
			Location:        "Jayanagar",
			MinPlate:        20,
			MaxPlate:        200,
		}, "ua", "1.2.3.4")
		require.NoError(t, err)

		me, err := svc.GetCurrentUser(ctx, resp.User.ID)
		require.NoError(t, err)
		require.NotNil(t, me.Caterer)
		assert.Equal(t, "Ravi's Kitchen", me.Caterer.BusinessName)
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t)

	token, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:       42,
		Role:         "caterer",
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "caterer", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)

	_, err = manager.VerifyAccessToken(context.Background(), token+"x")
	assert.Error(t, err)
}
