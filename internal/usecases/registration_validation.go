package usecases

import (
	"context"
	"regexp"
	"strings"
	"time"

	"visa-center.backend/internal/domain/entities"
	"visa-center.backend/internal/domain/repositories"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneStrip      = regexp.MustCompile(`[^0-9+]`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
)

const dateLayout = "2006-01-02"

// validateRegistration checks the full payload and normalizes it in place
// (email lowercased, phone stripped to digits, names trimmed). Returns
// field-scoped messages; an empty map means the payload is valid.
func validateRegistration(ctx context.Context, userRepo repositories.UserRepository, input *entities.RegistrationInput) (map[string]string, error) {
	fields := map[string]string{}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(input.Email) {
		fields["email"] = "Invalid email format."
	} else if exists, err := userRepo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if exists {
		fields["email"] = "This email is already registered."
	}

	if !usernamePattern.MatchString(input.Username) {
		fields["username"] = "Username must be 3-20 characters long and contain only letters, numbers, and underscores."
	} else if exists, err := userRepo.ExistsByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if exists {
		fields["username"] = "This username is already taken."
	}

	if input.PhoneNumber != "" {
		input.PhoneNumber = phoneStrip.ReplaceAllString(input.PhoneNumber, "")
		if !phonePattern.MatchString(input.PhoneNumber) {
			fields["phone_number"] = "Invalid phone number format. Please enter a valid number with 10-15 digits."
		} else if exists, err := userRepo.ExistsByPhone(ctx, input.PhoneNumber); err != nil {
			return nil, err
		} else if exists {
			fields["phone_number"] = "This phone number is already registered."
		}
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	if msg := validateName(input.FirstName, "First name"); msg != "" {
		fields["first_name"] = msg
	}
	input.LastName = strings.TrimSpace(input.LastName)
	if msg := validateName(input.LastName, "Last name"); msg != "" {
		fields["last_name"] = msg
	}

	if input.DateOfBirth != "" {
		if msg := validateDateOfBirth(input.DateOfBirth); msg != "" {
			fields["date_of_birth"] = msg
		}
	}

	if input.Address != "" && len(strings.TrimSpace(input.Address)) < 10 {
		fields["address"] = "Address must be at least 10 characters long."
	}

	if input.Password != input.Password2 {
		fields["password"] = "Password fields didn't match."
	} else if msg := validatePassword(input.Password); msg != "" {
		fields["password"] = msg
	}

	return fields, nil
}

func validateName(name, label string) string {
	if len(name) < 2 {
		return label + " must be at least 2 characters long."
	}
	if !namePattern.MatchString(name) {
		return label + " can only contain letters, spaces, hyphens, and apostrophes."
	}
	return ""
}

func validateDateOfBirth(raw string) string {
	dob, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "Please enter a valid date of birth."
	}
	age := ageInYears(dob, time.Now())
	if age < 18 {
		return "You must be at least 18 years old to register."
	}
	if age > 120 {
		return "Please enter a valid date of birth."
	}
	return ""
}

func ageInYears(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func validatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long."
	}
	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case strings.ContainsRune("!@#$%^&*(),.?\":{}|<>", c):
			hasSpecial = true
		}
	}
	switch {
	case !hasDigit:
		return "Password must contain at least one number."
	case !hasUpper:
		return "Password must contain at least one uppercase letter."
	case !hasLower:
		return "Password must contain at least one lowercase letter."
	case !hasSpecial:
		return "Password must contain at least one special character."
	}
	return ""
}
