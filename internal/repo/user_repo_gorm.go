package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go-gin-shop/internal/domain"
)

type UserRepo struct{ Base }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{NewBase(db)} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	ensureID(&u.ID)
	return r.DB(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	ok, err := first(r.DB(ctx).Where("id = ?", id), &u)
	if !ok {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	ok, err := first(r.DB(ctx).Where("email = ?", email), &u)
	if !ok {
		return nil, err
	}
	return &u, nil
}

// List pages through active users, newest first. q filters by name or email.
func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.DB(ctx).Model(&domain.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.DB(ctx).Save(u).Error
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&domain.User{})
	return res.RowsAffected > 0, res.Error
}
