package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/infrastructure/repositories"
	"visa-center.backend/internal/usecases"
)

type fakeUploader struct {
	url string
	key string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, contentType, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	return f.url, nil
}

func strptr(s string) *string { return &s }

func newProfileFixture(t *testing.T) (*usecases.ProfileUsecase, *fakeUploader, uuid.UUID) {
	t.Helper()
	db := newTestDB(t)
	createAllTables(t, db)

	userRepo := repositories.NewUserRepository(db)
	user := &entities.User{
		ID:           uuid.New(),
		Email:        "ada@mail.com",
		Username:     "ada_l",
		PasswordHash: "x",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PhoneNumber:  "+15550001111",
		Role:         entities.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	uploader := &fakeUploader{url: "https://cdn.example.com/profiles/p.png"}
	return usecases.NewProfileUsecase(userRepo, uploader), uploader, user.ID
}

func TestProfileUsecase_PartialUpdate(t *testing.T) {
	uc, _, userID := newProfileFixture(t)
	ctx := context.Background()

	user, err := uc.Update(ctx, userID, &entities.UpdateProfileInput{
		FirstName: strptr("  Augusta "),
		Address:   strptr("12 Analytical Engine Road"),
	})
	require.NoError(t, err)
	require.Equal(t, "Augusta", user.FirstName)
	require.Equal(t, "Lovelace", user.LastName)
	require.Equal(t, "12 Analytical Engine Road", user.Address)

	got, err := uc.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Augusta", got.FirstName)
}

func TestProfileUsecase_UpdateValidation(t *testing.T) {
	uc, _, userID := newProfileFixture(t)
	ctx := context.Background()

	_, err := uc.Update(ctx, userID, &entities.UpdateProfileInput{
		FirstName:   strptr("A"),
		PhoneNumber: strptr("123"),
		DateOfBirth: strptr("2020-01-01"),
		Address:     strptr("short"),
	})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Contains(t, appErr.Fields, "first_name")
	require.Contains(t, appErr.Fields, "phone_number")
	require.Contains(t, appErr.Fields, "date_of_birth")
	require.Contains(t, appErr.Fields, "address")
}

func TestProfileUsecase_ClearPhoneAndDOB(t *testing.T) {
	uc, _, userID := newProfileFixture(t)
	ctx := context.Background()

	user, err := uc.Update(ctx, userID, &entities.UpdateProfileInput{
		PhoneNumber: strptr(""),
		DateOfBirth: strptr(""),
	})
	require.NoError(t, err)
	require.Empty(t, user.PhoneNumber)
	require.Nil(t, user.DateOfBirth)
}

func TestProfileUsecase_UploadPicture(t *testing.T) {
	uc, uploader, userID := newProfileFixture(t)
	ctx := context.Background()

	user, err := uc.UploadPicture(ctx, userID, "me.PNG", []byte("png bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/profiles/p.png", user.ProfilePicture)
	require.Contains(t, uploader.key, "profiles/"+userID.String()+"/")
	require.Contains(t, uploader.key, ".png")
}

func TestProfileUsecase_UploadPictureRejections(t *testing.T) {
	uc, uploader, userID := newProfileFixture(t)
	ctx := context.Background()

	var appErr *domainerrors.AppError

	_, err := uc.UploadPicture(ctx, userID, "me.png", nil)
	require.ErrorAs(t, err, &appErr)
	require.Contains(t, appErr.Fields, "profile_picture")

	_, err = uc.UploadPicture(ctx, userID, "me.png", make([]byte, 5<<20+1))
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "Profile picture must be 5MB or smaller.", appErr.Fields["profile_picture"])

	_, err = uc.UploadPicture(ctx, userID, "me.gif", []byte("gif"))
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "Only .jpg, .jpeg and .png files are allowed.", appErr.Fields["profile_picture"])

	uploader.err = errors.New("bucket unreachable")
	_, err = uc.UploadPicture(ctx, userID, "me.png", []byte("png"))
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 500, appErr.Status)
}
