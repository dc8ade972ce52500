package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxFieldLength = 120

// UpdateInput carries the shopper-editable fields.
type UpdateInput struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// Service exposes profile reads and writes for the signed-in shopper.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.Profile, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the stored profile, or an empty one when the shopper has
// never saved their details.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Profile{UserID: userID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	fullName := trimPtr(input.FullName)
	phone := trimPtr(input.Phone)
	if fullName != nil && len(*fullName) > maxFieldLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is too long")
	}
	if phone != nil && len(*phone) > maxFieldLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is too long")
	}

	profile, err := s.repo.Upsert(ctx, &models.Profile{
		UserID:   userID,
		FullName: fullName,
		Phone:    phone,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return profile, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
