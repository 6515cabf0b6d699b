package usecases

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/domain/repositories"
	"visa-center.backend/pkg/crypto"
	"visa-center.backend/pkg/jwt"
	"visa-center.backend/pkg/logger"
	"visa-center.backend/pkg/mailer"
	"visa-center.backend/pkg/redis"
)

// AuthUsecase handles registration, OTP verification and sessions.
// Registration is OTP gated: the payload is stashed in the OTP store and
// the user row is only materialized once the emailed code is confirmed.
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	otpStore   *redis.OTPStore
	sender     mailer.Sender
	jwtService *jwt.JWTService
	fromAddr   string
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	otpStore *redis.OTPStore,
	sender mailer.Sender,
	jwtService *jwt.JWTService,
	fromAddr string,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		otpStore:   otpStore,
		sender:     sender,
		jwtService: jwtService,
		fromAddr:   fromAddr,
	}
}

// Register validates the payload, stashes it and emails a one-time code.
// No user row is created here. A failed send deletes both store entries so
// no dangling state survives.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegistrationInput) error {
	fields, err := validateRegistration(ctx, u.userRepo, input)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return domainerrors.Validation(fields)
	}

	code, err := crypto.GenerateOTPCode()
	if err != nil {
		return err
	}

	if err := u.otpStore.SetCode(ctx, redis.PurposeRegister, input.Email, code); err != nil {
		return err
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	if err := u.otpStore.SetPendingRegistration(ctx, input.Email, payload); err != nil {
		return err
	}

	if err := u.sendCode(ctx, input.Email, code); err != nil {
		if rbErr := u.otpStore.RollbackRegistration(ctx, input.Email); rbErr != nil {
			logger.Error(ctx, "otp rollback failed", zap.Error(rbErr))
		}
		return domainerrors.NewAppError(http.StatusInternalServerError, "Failed to send verification email. Please try again.", err)
	}
	return nil
}

// VerifyOTP confirms a code. For the register purpose it materializes the
// stashed account and returns tokens; for other purposes it sets a
// short-lived verified flag and returns a nil response.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, input *entities.VerifyOTPInput) (*entities.AuthResponse, string, error) {
	purpose, err := u.resolvePurpose(ctx, input.Purpose, input.Email)
	if err != nil {
		return nil, "", err
	}

	code, ok, err := u.otpStore.GetCode(ctx, purpose, input.Email)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		// Fall back across the known purposes; whichever key hits wins.
		for _, p := range []string{redis.PurposeRegister, redis.PurposeLogin} {
			if p == purpose {
				continue
			}
			code, ok, err = u.otpStore.GetCode(ctx, p, input.Email)
			if err != nil {
				return nil, "", err
			}
			if ok {
				purpose = p
				break
			}
		}
	}
	if !ok {
		return nil, purpose, domainerrors.BadRequest("OTP expired or not found")
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(input.Code)) != 1 {
		return nil, purpose, domainerrors.BadRequest("Invalid OTP code")
	}

	if err := u.otpStore.DeleteCode(ctx, purpose, input.Email); err != nil {
		return nil, purpose, err
	}

	if purpose != redis.PurposeRegister {
		if err := u.otpStore.MarkVerified(ctx, purpose, input.Email); err != nil {
			return nil, purpose, err
		}
		return nil, purpose, nil
	}

	resp, err := u.completeRegistration(ctx, input.Email)
	return resp, purpose, err
}

// SendOTP issues a fresh code for an explicit purpose and emails it. The
// purpose defaults to login; a register code is only issued while a
// pending registration is stashed for the email.
func (u *AuthUsecase) SendOTP(ctx context.Context, input *entities.SendOTPInput) error {
	purpose := input.Purpose
	if purpose == "" {
		purpose = redis.PurposeLogin
	}

	switch purpose {
	case redis.PurposeRegister:
		pending, err := u.otpStore.HasPendingRegistration(ctx, input.Email)
		if err != nil {
			return err
		}
		if !pending {
			return domainerrors.BadRequest("No pending registration for this email. Please register again.")
		}
	case redis.PurposeLogin:
		if _, err := u.userRepo.GetByEmail(ctx, input.Email); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("No account found with this email.")
			}
			return err
		}
	default:
		return domainerrors.FieldError("purpose", "Purpose must be register or login.")
	}

	code, err := crypto.GenerateOTPCode()
	if err != nil {
		return err
	}
	if err := u.otpStore.SetCode(ctx, purpose, input.Email, code); err != nil {
		return err
	}
	if err := u.sendCode(ctx, input.Email, code); err != nil {
		if delErr := u.otpStore.DeleteCode(ctx, purpose, input.Email); delErr != nil {
			logger.Error(ctx, "otp cleanup failed", zap.Error(delErr))
		}
		return domainerrors.NewAppError(http.StatusInternalServerError, "Failed to send verification email. Please try again.", err)
	}
	return nil
}

// ResendOTP unconditionally replaces any live code for (purpose, email)
// and re-sends it.
func (u *AuthUsecase) ResendOTP(ctx context.Context, input *entities.ResendOTPInput) error {
	purpose, err := u.resolvePurpose(ctx, input.Purpose, input.Email)
	if err != nil {
		return err
	}

	code, err := crypto.GenerateOTPCode()
	if err != nil {
		return err
	}
	if err := u.otpStore.SetCode(ctx, purpose, input.Email, code); err != nil {
		return err
	}
	if err := u.sendCode(ctx, input.Email, code); err != nil {
		return domainerrors.NewAppError(http.StatusInternalServerError, "Failed to send verification email. Please try again.", err)
	}
	return nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issueTokens(user)
}

// AdminLogin authenticates a user and requires the admin role
func (u *AuthUsecase) AdminLogin(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	resp, err := u.Login(ctx, input)
	if err != nil {
		return nil, err
	}
	if resp.User.Role != entities.UserRoleAdmin {
		return nil, domainerrors.Forbidden("Admin access only")
	}
	return resp, nil
}

// RefreshToken generates a new pair from a refresh token, rejecting
// blacklisted tokens
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := redis.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, jwt.ErrInvalidToken
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// Logout blacklists the refresh token until its natural expiry
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	ttl := u.jwtService.RefreshExpiry()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return redis.BlacklistToken(ctx, claims.ID, ttl)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// resolvePurpose infers the purpose when the caller omitted it: register
// when a pending payload exists for the email, login otherwise.
func (u *AuthUsecase) resolvePurpose(ctx context.Context, purpose, email string) (string, error) {
	if purpose != "" {
		return purpose, nil
	}
	pending, err := u.otpStore.HasPendingRegistration(ctx, email)
	if err != nil {
		return "", err
	}
	if pending {
		return redis.PurposeRegister, nil
	}
	return redis.PurposeLogin, nil
}

func (u *AuthUsecase) completeRegistration(ctx context.Context, email string) (*entities.AuthResponse, error) {
	payload, ok, err := u.otpStore.GetPendingRegistration(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainerrors.BadRequest("Registration data expired. Please register again.")
	}

	var input entities.RegistrationInput
	if err := json.Unmarshal(payload, &input); err != nil {
		_ = u.otpStore.DeletePendingRegistration(ctx, email)
		return nil, domainerrors.BadRequest("Registration data expired. Please register again.")
	}

	// Re-validate: another account may have claimed the email, username
	// or phone between send and verify.
	fields, err := validateRegistration(ctx, u.userRepo, &input)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		_ = u.otpStore.DeletePendingRegistration(ctx, email)
		return nil, domainerrors.Validation(fields)
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:             uuid.New(),
		Email:          input.Email,
		Username:       input.Username,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PhoneNumber:    input.PhoneNumber,
		Address:        input.Address,
		ProfilePicture: input.ProfilePicture,
		Role:           entities.UserRoleUser,
		IsActive:       true,
	}
	if input.DateOfBirth != "" {
		if dob, err := time.Parse(dateLayout, input.DateOfBirth); err == nil {
			user.DateOfBirth = &dob
		}
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := u.otpStore.DeletePendingRegistration(ctx, email); err != nil {
		logger.Warn(ctx, "pending registration cleanup failed", zap.Error(err))
	}

	return u.issueTokens(user)
}

func (u *AuthUsecase) issueTokens(user *entities.User) (*entities.AuthResponse, error) {
	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

func (u *AuthUsecase) sendCode(ctx context.Context, email, code string) error {
	body := "Your verification code is " + code + ". It expires in 10 minutes."
	return u.sender.Send("Your verification code", body, u.fromAddr, []string{email})
}
