package store

import (
	"context"

	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	store *Store
}

// UsernameExists compares case-sensitively.
func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.store.conn(ctx).
		Model(&Account{}).
		Where("username = ?", username).
		Count(&count).
		Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *Account) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(account).Error)
}

// FindByUsername loads the account together with its role.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	var account Account
	err := first(r.store.conn(ctx).Preload("Role").Where("username = ?", username), &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	res := r.store.conn(ctx).
		Model(&Account{ID: id}).
		Update("password_hash", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
