package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skycities/internal/model"
)

// DuplicateTolerance is the ±degree window on latitude and longitude inside
// which a same-named city counts as a duplicate of an existing one. It is a
// tolerance box, not geodesic distance, and applies on every backend.
const DuplicateTolerance = 0.01

// CityRepository defines city persistence operations. Every operation is
// scoped to the owning user; a city id belonging to another user behaves
// exactly like a missing row.
type CityRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.City, error)
	// CreateUnlessDuplicate inserts the city unless the owner already has a
	// same-named city within the tolerance box. It returns the persisted or
	// matching row and whether a new row was created.
	CreateUnlessDuplicate(ctx context.Context, city *model.City) (*model.City, bool, error)
	DeleteByID(ctx context.Context, ownerID, cityID uuid.UUID) (bool, error)
	DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	SetFavorite(ctx context.Context, ownerID, cityID uuid.UUID, favorite bool) (bool, error)
}

type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository builds a GORM-backed repository.
func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.City, error) {
	var cities []model.City
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// CreateUnlessDuplicate runs the duplicate lookup and the insert in one
// transaction so two concurrent adds of the same near-duplicate resolve to
// a single row. On MySQL the lookup takes a FOR UPDATE range lock; SQLite
// serializes writers on its own and rejects the locking clause.
func (r *cityRepository) CreateUnlessDuplicate(ctx context.Context, city *model.City) (*model.City, bool, error) {
	var (
		result  *model.City
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ? AND name = ?", city.UserID, city.Name).
			Where("lat > ? AND lat < ?", city.Lat-DuplicateTolerance, city.Lat+DuplicateTolerance).
			Where("lon > ? AND lon < ?", city.Lon-DuplicateTolerance, city.Lon+DuplicateTolerance)
		if tx.Dialector.Name() == "mysql" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing model.City
		err := q.First(&existing).Error
		if err == nil {
			result = &existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(city).Error; err != nil {
			return err
		}
		result = city
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *cityRepository) DeleteByID(ctx context.Context, ownerID, cityID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cityID, ownerID).
		Delete(&model.City{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cityRepository) DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Delete(&model.City{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SetFavorite looks the row up before updating instead of trusting
// RowsAffected: MySQL reports zero affected rows for a value-preserving
// update, which would break idempotent toggles.
func (r *cityRepository) SetFavorite(ctx context.Context, ownerID, cityID uuid.UUID, favorite bool) (bool, error) {
	var affected bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var city model.City
		err := tx.Where("id = ? AND user_id = ?", cityID, ownerID).First(&city).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&city).Update("is_favorite", favorite).Error; err != nil {
			return err
		}
		affected = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected, nil
}
