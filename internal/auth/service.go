// CaterEase API | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/caterease/api/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	TokenVersion int
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Address      string
	City         string
	State        string
	Role         string
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(ctx context.Context, params CreateUserParams) (*UserInfo, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// CatererInfo is the caterer profile slice auth needs for register-caterer
// and the /me response. The caterer package implements CatererProvider.
type CatererInfo struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	BusinessName string   `json:"business_name"`
	Description  string   `json:"description,omitempty"`
	Location     string   `json:"location"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Specialties  []string `json:"specialties"`
	EventTypes   []string `json:"event_types"`
	MinPlate     int      `json:"min_plate"`
	MaxPlate     int      `json:"max_plate"`
	Rating       int      `json:"rating"`
	ReviewCount  int      `json:"review_count"`
}

type CreateCatererParams struct {
	UserID       int64
	BusinessName string
	Description  string
	Location     string
	City         string
	State        string
	Specialties  []string
	EventTypes   []string
	MinPlate     int
	MaxPlate     int
}

type CatererProvider interface {
	CreateProfile(
		ctx context.Context,
		params CreateCatererParams,
	) (*CatererInfo, error)
	GetByUserID(ctx context.Context, userID int64) (*CatererInfo, error)
}

type Service struct {
	repo            Repository
	jwt             *JWTManager
	userProvider    UserProvider
	catererProvider CatererProvider
	redis           *redis.Client
	blacklistTTL    time.Duration
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	catererProvider CatererProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		repo:            repo,
		jwt:             jwt,
		userProvider:    userProvider,
		catererProvider: catererProvider,
		redis:           redisClient,
		blacklistTTL:    15 * time.Minute,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	return s.createAuthResponse(ctx, user, userAgent, ipAddress, "", nil)
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.createUser(ctx, req, "user")
	if err != nil {
		return nil, err
	}

	return s.createAuthResponse(ctx, user, userAgent, ipAddress, "", nil)
}

// RegisterCaterer creates the identity and its caterer profile in one call,
// then establishes a session like Register does.
func (s *Service) RegisterCaterer(
	ctx context.Context,
	req RegisterCatererRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.createUser(ctx, req.RegisterRequest, "caterer")
	if err != nil {
		return nil, err
	}

	profile, err := s.catererProvider.CreateProfile(ctx, CreateCatererParams{
		UserID:       user.ID,
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Location:     req.Location,
		City:         req.City,
		State:        req.State,
		Specialties:  req.Specialties,
		EventTypes:   req.EventTypes,
		MinPlate:     req.MinPlate,
		MaxPlate:     req.MaxPlate,
	})
	if err != nil {
		return nil, fmt.Errorf("create caterer profile: %w", err)
	}

	resp, err := s.createAuthResponse(ctx, user, userAgent, ipAddress, "", nil)
	if err != nil {
		return nil, err
	}

	resp.Caterer = profile
	return resp, nil
}

func (s *Service) createUser(
	ctx context.Context,
	req RegisterRequest,
	role string,
) (*UserInfo, error) {
	if taken, err := s.userProvider.UsernameExists(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, ErrUsernameExists
	}

	if taken, err := s.userProvider.EmailExists(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Role:         role,
	})
	if err != nil {
		// unique violation can still race past the pre-checks
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			return nil, ErrEmailExists
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	case err != nil:
		return nil, fmt.Errorf("find token: %w", err)
	}

	// A spent token coming back means the opaque value leaked somewhere
	// along the chain. Burn the whole family.
	if storedToken.IsUsed {
		//nolint:errcheck // security revocation continues regardless
		_ = s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID)
		return nil, ErrTokenReuse
	}

	switch {
	case storedToken.IsRevoked():
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	case storedToken.IsExpired():
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.userProvider.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.createAuthResponse(
		ctx,
		user,
		userAgent,
		ipAddress,
		storedToken.FamilyID,
		&storedToken.ID,
	)
}

func (s *Service) Logout(
	ctx context.Context,
	refreshToken string,
	userID int64,
) error {
	// Logging out with an unknown token is a no-op, not an error.
	storedToken, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find token: %w", err)
	}

	if storedToken.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, storedToken.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

// RevokeAccessToken blacklists a JWT by id for the remainder of its
// lifetime. The key expires with the token, so the set never grows.
func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, "blacklist:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	n, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

func (s *Service) GetActiveSessions(
	ctx context.Context,
	userID int64,
) ([]SessionInfo, error) {
	tokens, err := s.repo.GetActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}

	return sessions, nil
}

func (s *Service) RevokeSession(
	ctx context.Context,
	userID int64,
	sessionID string,
) error {
	token, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if token.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID int64,
	currentPassword, newPassword string,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		currentPassword,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

func (s *Service) ValidateTokenVersion(
	ctx context.Context,
	userID int64,
	tokenVersion int,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if tokenVersion < user.TokenVersion {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}

	return nil
}

// GetCurrentUser returns the caller's identity, with the caterer profile
// attached when the account has one.
func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID int64,
) (*MeResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &MeResponse{User: userResponse(user)}

	if user.Role == "caterer" {
		profile, err := s.catererProvider.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("get caterer profile: %w", err)
		}
		resp.Caterer = profile
	}

	return resp, nil
}

func (s *Service) createAuthResponse(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(user.ID, familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	newTokenID := uuid.New().String()
	if err := s.repo.Create(ctx, &RefreshToken{
		ID:        newTokenID,
		UserID:    user.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		//nolint:errcheck // best-effort token chain tracking
		_ = s.repo.MarkAsUsed(ctx, *oldTokenID, newTokenID)
	}

	accessTTL := s.jwt.AccessTokenTTL()

	return &AuthResponse{
		User: userResponse(user),
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(accessTTL / time.Second),
			ExpiresAt:    time.Now().Add(accessTTL),
		},
	}, nil
}

func userResponse(user *UserInfo) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
	}
}
