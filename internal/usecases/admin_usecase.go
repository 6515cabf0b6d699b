package usecases

import (
	"context"

	"visa-center.backend/internal/domain/entities"
	"visa-center.backend/internal/domain/repositories"
)

// DashboardStats summarizes the admin panel landing page
type DashboardStats struct {
	TotalUsers           int64                                `json:"total_users"`
	TotalApplications    int64                                `json:"total_applications"`
	ApplicationsByStatus map[entities.ApplicationStatus]int64 `json:"applications_by_status"`
}

// AdminUsecase backs the admin panel's user management and stats views
type AdminUsecase struct {
	userRepo repositories.UserRepository
	appRepo  repositories.ApplicationRepository
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(userRepo repositories.UserRepository, appRepo repositories.ApplicationRepository) *AdminUsecase {
	return &AdminUsecase{userRepo: userRepo, appRepo: appRepo}
}

// ListUsers returns all users, optionally filtered by a search term over
// email, username and names
func (u *AdminUsecase) ListUsers(ctx context.Context, search string) ([]*entities.User, error) {
	return u.userRepo.List(ctx, search)
}

// Stats returns the dashboard counters
func (u *AdminUsecase) Stats(ctx context.Context) (*DashboardStats, error) {
	users, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := u.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}
	return &DashboardStats{
		TotalUsers:           users,
		TotalApplications:    total,
		ApplicationsByStatus: byStatus,
	}, nil
}
