package usecases

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/domain/repositories"
	"visa-center.backend/pkg/storage"
)

const maxProfilePictureBytes = 5 << 20

var allowedPictureExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ProfileUsecase handles the authenticated user's own profile
type ProfileUsecase struct {
	userRepo repositories.UserRepository
	uploader storage.Uploader
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(userRepo repositories.UserRepository, uploader storage.Uploader) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, uploader: uploader}
}

// Get returns the caller's profile
func (u *ProfileUsecase) Get(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// Update applies a partial profile update. Fields are validated with the
// same rules as registration; nil fields are left untouched.
func (u *ProfileUsecase) Update(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if msg := validateName(name, "First name"); msg != "" {
			fields["first_name"] = msg
		} else {
			user.FirstName = name
		}
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if msg := validateName(name, "Last name"); msg != "" {
			fields["last_name"] = msg
		} else {
			user.LastName = name
		}
	}
	if input.PhoneNumber != nil {
		phone := phoneStrip.ReplaceAllString(*input.PhoneNumber, "")
		switch {
		case phone == "":
			user.PhoneNumber = ""
		case !phonePattern.MatchString(phone):
			fields["phone_number"] = "Invalid phone number format. Please enter a valid number with 10-15 digits."
		case phone != user.PhoneNumber:
			exists, err := u.userRepo.ExistsByPhone(ctx, phone)
			if err != nil {
				return nil, err
			}
			if exists {
				fields["phone_number"] = "This phone number is already registered."
			} else {
				user.PhoneNumber = phone
			}
		}
	}
	if input.DateOfBirth != nil {
		if *input.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else if msg := validateDateOfBirth(*input.DateOfBirth); msg != "" {
			fields["date_of_birth"] = msg
		} else {
			dob, _ := time.Parse(dateLayout, *input.DateOfBirth)
			user.DateOfBirth = &dob
		}
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address != "" && len(address) < 10 {
			fields["address"] = "Address must be at least 10 characters long."
		} else {
			user.Address = address
		}
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = *input.ProfilePicture
	}

	if len(fields) > 0 {
		return nil, domainerrors.Validation(fields)
	}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadPicture stores a new profile picture and points the profile at it.
// Only jpg/jpeg/png up to 5MB are accepted.
func (u *ProfileUsecase) UploadPicture(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*entities.User, error) {
	if len(data) == 0 {
		return nil, domainerrors.FieldError("profile_picture", "No file was submitted.")
	}
	if len(data) > maxProfilePictureBytes {
		return nil, domainerrors.FieldError("profile_picture", "Profile picture must be 5MB or smaller.")
	}
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedPictureExtensions[ext]
	if !ok {
		return nil, domainerrors.FieldError("profile_picture", "Only .jpg, .jpeg and .png files are allowed.")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("profiles/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := u.uploader.Upload(ctx, data, contentType, key)
	if err != nil {
		return nil, domainerrors.NewAppError(http.StatusInternalServerError, "Failed to store profile picture. Please try again.", err)
	}

	user.ProfilePicture = url
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
