package merchants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dealdesk/merchant-portal/pkg/db"
	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/imaging"
	"github.com/dealdesk/merchant-portal/pkg/latency"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type merchantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	Update(ctx context.Context, m *models.Merchant) error
}

// Service backs the profile and business settings screen.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*MerchantDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*MerchantDTO, error)
}

// UpdateProfileInput captures the editable fields. Nil leaves a field as is;
// an empty string clears an optional field.
type UpdateProfileInput struct {
	Email        *string
	OwnerName    *string
	BusinessName *string
	Phone        *string
	Address      *string
	Category     *enums.DealCategory
	Description  *string
	OpeningHours *string
	LogoDataURL  *string
}

type service struct {
	repo    merchantRepository
	latency latency.Simulator
	maxLogo int
}

type ServiceParams struct {
	Repo         merchantRepository
	Latency      latency.Simulator
	MaxLogoBytes int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("merchant repository required")
	}
	return &service{repo: params.Repo, latency: params.Latency, maxLogo: params.MaxLogoBytes}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MerchantDTO, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(m), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*MerchantDTO, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		if email != m.Email {
			m.Email = email
			m.EmailVerified = false
		}
	}
	if input.OwnerName != nil {
		name := strings.TrimSpace(*input.OwnerName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner_name cannot be empty")
		}
		m.OwnerName = name
	}
	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business_name cannot be empty")
		}
		m.BusinessName = name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		m.Category = *input.Category
	}
	if input.LogoDataURL != nil && strings.TrimSpace(*input.LogoDataURL) != "" {
		raw, err := imaging.DecodeDataURL(*input.LogoDataURL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid logo")
		}
		if s.maxLogo > 0 && len(raw) > s.maxLogo {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "logo exceeds the size limit")
		}
	}
	m.Phone = optional(m.Phone, input.Phone)
	m.Address = optional(m.Address, input.Address)
	m.Description = optional(m.Description, input.Description)
	m.OpeningHours = optional(m.OpeningHours, input.OpeningHours)
	m.LogoDataURL = optional(m.LogoDataURL, input.LogoDataURL)

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update merchant")
	}
	return FromModel(m), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return m, nil
}

// optional applies a patch value: nil keeps current, blank clears.
func optional(current, patch *string) *string {
	if patch == nil {
		return current
	}
	v := strings.TrimSpace(*patch)
	if v == "" {
		return nil
	}
	return &v
}
