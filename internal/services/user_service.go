package services

import (
	"context"
	"strings"

	"github.com/gigpay/wallet-service/internal/auth"
	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
)

type UserService struct {
	users      repo.Users
	candidates repo.Candidates
}

func NewUserService(u repo.Users, c repo.Candidates) *UserService {
	return &UserService{users: u, candidates: c}
}

// Register creates a user and, for the candidate role, the candidate profile
// that wallet ownership hangs off.
func (s *UserService) Register(ctx context.Context, username, email, password, fullName string) (models.User, error) {
	u := models.User{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	created, err := s.users.Create(ctx, u.Username, u.Email, hash, u.Role)
	if err != nil {
		return models.User{}, err
	}
	if created.Role == models.RoleCandidate {
		if fullName == "" {
			fullName = created.Username
		}
		if _, err := s.candidates.Create(ctx, created.ID, fullName); err != nil {
			return models.User{}, err
		}
	}
	return created, nil
}

// Authenticate verifies credentials and returns the user for token issuance.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// CandidateForUser resolves the candidate profile behind an authenticated
// user id; wallet and payout routes key everything off the candidate id.
func (s *UserService) CandidateForUser(ctx context.Context, userID string) (models.Candidate, error) {
	return s.candidates.GetByUserID(ctx, userID)
}
