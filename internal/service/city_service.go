package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skycities/internal/errors"
	"skycities/internal/model"
	"skycities/internal/repository"
)

// CityService handles saved-city operations, always scoped to the
// authenticated owner.
type CityService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.City, error)
	// Add saves a city unless the owner already has a near-duplicate, in
	// which case the existing city is returned with alreadyExists true.
	Add(ctx context.Context, ownerID uuid.UUID, name string, lat, lon float64) (city *model.City, alreadyExists bool, err error)
	DeleteOne(ctx context.Context, ownerID, cityID uuid.UUID) error
	DeleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error)
	SetFavorite(ctx context.Context, ownerID, cityID uuid.UUID, favorite bool) error
}

type cityService struct {
	cityRepo repository.CityRepository
}

// NewCityService creates a new city service.
func NewCityService(cityRepo repository.CityRepository) CityService {
	return &cityService{cityRepo: cityRepo}
}

func (s *cityService) List(ctx context.Context, ownerID uuid.UUID) ([]model.City, error) {
	cities, err := s.cityRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

func (s *cityService) Add(ctx context.Context, ownerID uuid.UUID, name string, lat, lon float64) (*model.City, bool, error) {
	if name == "" {
		return nil, false, errors.ErrInvalidInput
	}

	city := &model.City{
		UserID: ownerID,
		Name:   name,
		Lat:    lat,
		Lon:    lon,
	}

	result, created, err := s.cityRepo.CreateUnlessDuplicate(ctx, city)
	if err != nil {
		return nil, false, fmt.Errorf("add city: %w", err)
	}
	return result, !created, nil
}

func (s *cityService) DeleteOne(ctx context.Context, ownerID, cityID uuid.UUID) error {
	affected, err := s.cityRepo.DeleteByID(ctx, ownerID, cityID)
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	if !affected {
		return errors.ErrCityNotFound
	}
	return nil
}

func (s *cityService) DeleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	count, err := s.cityRepo.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete all cities: %w", err)
	}
	return count, nil
}

func (s *cityService) SetFavorite(ctx context.Context, ownerID, cityID uuid.UUID, favorite bool) error {
	affected, err := s.cityRepo.SetFavorite(ctx, ownerID, cityID, favorite)
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	if !affected {
		return errors.ErrCityNotFound
	}
	return nil
}
