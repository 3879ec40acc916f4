// internal/domain/localcart/repository.go
package localcart

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository owns row access for the stored cart. The service logic
// sits on top of it and never touches the database directly.
type Repository interface {
	// Find returns (nil, nil) when the session has no such item.
	Find(ctx context.Context, sessionID, itemID string) (*Item, error)
	List(ctx context.Context, sessionID string) ([]Item, error)
	Create(ctx context.Context, item *Item) error
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, sessionID, itemID string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates the database-backed repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Find(ctx context.Context, sessionID, itemID string) (*Item, error) {
	var item Item
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND item_id = ?", sessionID, itemID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) List(ctx context.Context, sessionID string) ([]Item, error) {
	var items []Item
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepository) Create(ctx context.Context, item *Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository) Save(ctx context.Context, item *Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *gormRepository) Delete(ctx context.Context, sessionID, itemID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND item_id = ?", sessionID, itemID).
		Delete(&Item{}).Error
}

func (r *gormRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&Item{}).Error
}
