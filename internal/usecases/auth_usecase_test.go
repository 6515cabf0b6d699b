package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/infrastructure/repositories"
	"visa-center.backend/internal/usecases"
	"visa-center.backend/pkg/crypto"
	"visa-center.backend/pkg/jwt"
	redispkg "visa-center.backend/pkg/redis"
)

func newAuthFixture(t *testing.T) (*usecases.AuthUsecase, *repositories.UserRepository, *captureSender, *miniredis.Miniredis) {
	t.Helper()
	db := newTestDB(t)
	createAllTables(t, db)
	srv := setupTestRedis(t)

	userRepo := repositories.NewUserRepository(db)
	otpStore := redispkg.NewOTPStore(10*time.Minute, 15*time.Minute)
	sender := &captureSender{}
	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	uc := usecases.NewAuthUsecase(userRepo, otpStore, sender, jwtSvc, "noreply@visa-center.example")
	return uc, userRepo, sender, srv
}

func validRegistration() *entities.RegistrationInput {
	return &entities.RegistrationInput{
		Email:     "applicant@mail.com",
		Username:  "applicant_1",
		Password:  "Str0ng!Pass",
		Password2: "Str0ng!Pass",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestAuthUsecase_RegisterThenVerify(t *testing.T) {
	uc, userRepo, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))

	// No user row exists until the code is confirmed.
	exists, err := userRepo.ExistsByEmail(ctx, "applicant@mail.com")
	require.NoError(t, err)
	require.False(t, exists)

	resp, purpose, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)
	require.Equal(t, redispkg.PurposeRegister, purpose)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, entities.UserRoleUser, resp.User.Role)
	require.True(t, resp.User.IsActive)
	require.True(t, crypto.CheckPassword("Str0ng!Pass", resp.User.PasswordHash))

	// The code is single use.
	_, _, err = uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.ErrorContains(t, err, "OTP expired or not found")
}

func TestAuthUsecase_RegisterValidation(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	input := validRegistration()
	input.Email = "not-an-email"
	input.Password2 = "different"

	err := uc.Register(ctx, input)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.Status)
	require.Contains(t, appErr.Fields, "email")
	require.Contains(t, appErr.Fields, "password")
	require.Empty(t, sender.sent)
}

func TestAuthUsecase_RegisterDuplicateEmail(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	input := validRegistration()
	input.Username = "someone_else"
	err = uc.Register(ctx, input)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "This email is already registered.", appErr.Fields["email"])
}

func TestAuthUsecase_VerifyWrongCode(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))

	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  "000000",
	})
	require.ErrorContains(t, err, "Invalid OTP code")

	// A failed attempt does not burn the real code.
	resp, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestAuthUsecase_CodeExpires(t *testing.T) {
	uc, _, sender, srv := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	srv.FastForward(10*time.Minute + time.Second)

	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.ErrorContains(t, err, "OTP expired or not found")
}

func TestAuthUsecase_PayloadExpires(t *testing.T) {
	uc, _, sender, srv := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))

	// Let the first code lapse, resend while the payload is still live,
	// then let the payload itself lapse.
	srv.FastForward(11 * time.Minute)
	require.NoError(t, uc.ResendOTP(ctx, &entities.ResendOTPInput{Email: "applicant@mail.com"}))
	srv.FastForward(5 * time.Minute)

	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.ErrorContains(t, err, "Registration data expired. Please register again.")
}

func TestAuthUsecase_SendOTPLoginFlow(t *testing.T) {
	uc, _, sender, srv := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	// The purpose defaults to login once an account exists.
	require.NoError(t, uc.SendOTP(ctx, &entities.SendOTPInput{Email: "applicant@mail.com"}))
	require.True(t, srv.Exists("otp:login:applicant@mail.com"))

	resp, purpose, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)
	require.Nil(t, resp)
	require.Equal(t, redispkg.PurposeLogin, purpose)
	require.True(t, srv.Exists("otp_verified:login:applicant@mail.com"))
}

func TestAuthUsecase_SendOTPRegisterPurpose(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	require.NoError(t, uc.SendOTP(ctx, &entities.SendOTPInput{
		Email:   "applicant@mail.com",
		Purpose: redispkg.PurposeRegister,
	}))

	resp, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestAuthUsecase_SendOTPValidation(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	// No account yet, so a login code is refused.
	err := uc.SendOTP(ctx, &entities.SendOTPInput{Email: "applicant@mail.com"})
	require.ErrorContains(t, err, "No account found with this email.")

	// No pending registration either.
	err = uc.SendOTP(ctx, &entities.SendOTPInput{
		Email:   "applicant@mail.com",
		Purpose: redispkg.PurposeRegister,
	})
	require.ErrorContains(t, err, "No pending registration for this email.")

	err = uc.SendOTP(ctx, &entities.SendOTPInput{
		Email:   "applicant@mail.com",
		Purpose: "reset",
	})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Contains(t, appErr.Fields, "purpose")

	require.Empty(t, sender.sent)
}

func TestAuthUsecase_SendOTPFailureDropsCode(t *testing.T) {
	uc, _, sender, srv := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	sender.err = errors.New("smtp down")
	err = uc.SendOTP(ctx, &entities.SendOTPInput{Email: "applicant@mail.com"})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 500, appErr.Status)
	require.False(t, srv.Exists("otp:login:applicant@mail.com"))
}

func TestAuthUsecase_ResendReplacesCode(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	firstCode := sender.lastCode(t)

	require.NoError(t, uc.ResendOTP(ctx, &entities.ResendOTPInput{Email: "applicant@mail.com"}))
	secondCode := sender.lastCode(t)

	if firstCode != secondCode {
		_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
			Email: "applicant@mail.com",
			Code:  firstCode,
		})
		require.ErrorContains(t, err, "Invalid OTP code")
	}

	resp, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  secondCode,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestAuthUsecase_SendFailureRollsBack(t *testing.T) {
	uc, _, sender, srv := newAuthFixture(t)
	ctx := context.Background()

	sender.err = errors.New("smtp down")
	err := uc.Register(ctx, validRegistration())
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 500, appErr.Status)

	require.False(t, srv.Exists("otp:register:applicant@mail.com"))
	require.False(t, srv.Exists("register:payload:applicant@mail.com"))
}

func TestAuthUsecase_Login(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, &entities.LoginInput{Email: "applicant@mail.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "applicant@mail.com", Password: "wrong"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "nobody@mail.com", Password: "Str0ng!Pass"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_AdminLoginRejectsUsers(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	_, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	_, err = uc.AdminLogin(ctx, &entities.LoginInput{Email: "applicant@mail.com", Password: "Str0ng!Pass"})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAuthUsecase_RefreshAndLogout(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	resp, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	pair, err := uc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	require.NoError(t, uc.Logout(ctx, resp.RefreshToken))

	_, err = uc.RefreshToken(ctx, resp.RefreshToken)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestAuthUsecase_RefreshRejectsAccessToken(t *testing.T) {
	uc, _, sender, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, validRegistration()))
	resp, _, err := uc.VerifyOTP(ctx, &entities.VerifyOTPInput{
		Email: "applicant@mail.com",
		Code:  sender.lastCode(t),
	})
	require.NoError(t, err)

	_, err = uc.RefreshToken(ctx, resp.AccessToken)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)

	require.ErrorIs(t, uc.Logout(ctx, resp.AccessToken), jwt.ErrInvalidToken)
}
