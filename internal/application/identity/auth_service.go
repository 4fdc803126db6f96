package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/identity"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles registration, authentication and token lifecycle.
// Customer self-registration creates the login account and its linked
// customer record in one transaction.
type AuthService struct {
	tx        shared.TxManager
	users     identity.UserRepository
	customers partner.CustomerRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tx shared.TxManager,
	users identity.UserRepository,
	customers partner.CustomerRepository,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tx:        tx,
		users:     users,
		customers: customers,
		jwt:       jwt,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Register creates a customer account. The login user and the customer
// record commit together.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists.WithMeta("username", req.Username)
	}
	registered, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, shared.ErrAlreadyExists.WithMeta("email", req.Email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}

	user, err := identity.NewUser(req.Username, req.Email, hash, identity.RoleCliente)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Save(ctx, user); err != nil {
			return err
		}

		customer, err := partner.NewCustomer(req.FullName, req.Email)
		if err != nil {
			return err
		}
		customer.LinkUser(user.ID)
		return s.customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	response := ToUserResponse(user)
	return &response, nil
}

// CreateStaff creates a back-office account. No customer record is
// linked; staff accounts cannot shop.
func (s *AuthService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*UserResponse, error) {
	if !req.Role.IsStaff() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Staff accounts require a back-office role").
			WithMeta("role", req.Role.String())
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists.WithMeta("username", req.Username)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}

	user, err := identity.NewUser(req.Username, req.Email, hash, req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// Login authenticates a user and issues a token pair. Unknown usernames
// and wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	})
	if err != nil {
		return nil, err
	}

	// Login succeeded; failing to record the timestamp is not fatal
	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Warn("failed to record login time",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	return &LoginResponse{
		User:                  ToUserResponse(user),
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Refresh rotates a token pair. The user is re-read so a role change or
// a disabled account takes effect on the next rotation.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", err.Error())
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Malformed user id in token")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return nil, err
	}
	if invalidated {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token has been revoked")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	pair, err := s.jwt.RefreshTokenPair(req.RefreshToken, user.Username, user.Role.String())
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError("REFRESH_LIMIT_REACHED", "Session expired, please log in again")
		}
		return nil, shared.NewDomainError("INVALID_TOKEN", err.Error())
	}

	return &LoginResponse{
		User:                  ToUserResponse(user),
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes both tokens for their remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwt.ValidateAccessToken(accessToken); err == nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	if claims, err := s.jwt.ValidateRefreshToken(refreshToken); err == nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	return nil
}

// ChangePassword replaces the caller's password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}
	if err := user.ChangePassword(hash); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// DisableUser locks an account and force-expires its sessions
func (s *AuthService) DisableUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Disable()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	ttl := s.jwt.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Warn("failed to invalidate sessions of disabled user",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("account disabled", zap.String("user_id", userID.String()))
	return nil
}

// GetByID returns a user account
func (s *AuthService) GetByID(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}
