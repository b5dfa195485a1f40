package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-shop/internal/domain"
)

type CategoryRepo struct{ Base }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{NewBase(db)} }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	ensureID(&c.ID)
	return r.DB(ctx).Create(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	ok, err := first(r.DB(ctx).Where("id = ?", id), &c)
	if !ok {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	ok, err := first(r.DB(ctx).Where("name = ?", name), &c)
	if !ok {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.DB(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return r.DB(ctx).Save(c).Error
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&domain.Category{})
	return res.RowsAffected > 0, res.Error
}

type ProductRepo struct{ Base }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{NewBase(db)} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	ensureID(&p.ID)
	return r.DB(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	ok, err := first(r.DB(ctx).Where("id = ?", id), &p)
	if !ok {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.DB(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.DB(ctx).Save(p).Error
}

// Delete removes the row for good; carts and orders may keep pointing at it.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&domain.Product{})
	return res.RowsAffected > 0, res.Error
}
