package settings

import (
	"context"
	"fmt"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/google/uuid"
)

// Update is a partial change to the settings screen.
type Update struct {
	DarkMode *bool
}

// Service reads and writes persisted settings on state changes.
type Service interface {
	Get(ctx context.Context, merchantID uuid.UUID) (Settings, error)
	Update(ctx context.Context, merchantID uuid.UUID, u Update) (Settings, error)
	SetAuthenticated(ctx context.Context, merchantID uuid.UUID, authenticated bool) error
}

type service struct {
	store Store
}

func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store required")
	}
	return &service{store: store}, nil
}

func (s *service) Get(ctx context.Context, merchantID uuid.UUID) (Settings, error) {
	out, err := s.store.Load(ctx, merchantID.String())
	if err != nil {
		return Settings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, merchantID uuid.UUID, u Update) (Settings, error) {
	current, err := s.Get(ctx, merchantID)
	if err != nil {
		return Settings{}, err
	}
	if u.DarkMode != nil {
		current.DarkMode = *u.DarkMode
	}
	if err := s.store.Save(ctx, merchantID.String(), current); err != nil {
		return Settings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return current, nil
}

func (s *service) SetAuthenticated(ctx context.Context, merchantID uuid.UUID, authenticated bool) error {
	current, err := s.Get(ctx, merchantID)
	if err != nil {
		return err
	}
	if current.Authenticated == authenticated {
		return nil
	}
	current.Authenticated = authenticated
	if err := s.store.Save(ctx, merchantID.String(), current); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return nil
}
