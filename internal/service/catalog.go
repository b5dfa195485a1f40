package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-shop/internal/core/cache"
	"go-gin-shop/internal/domain"
)

const (
	keyCategories = "catalog:categories"
	keyProducts   = "catalog:products"
	keyProduct    = "catalog:product:"
)

// CatalogService owns categories and products. Reads go through the
// cache; every write drops the keys it invalidates.
type CatalogService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	cache      *cache.Cache
	ttl        time.Duration
	log        *zap.Logger

	// Images, when set, receives the image lists that product writes
	// leave unreferenced.
	Images domain.ImageStore
}

func NewCatalogService(
	categories domain.CategoryRepository,
	products domain.ProductRepository,
	c *cache.Cache,
	ttl time.Duration,
	log *zap.Logger,
) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogService{categories: categories, products: products, cache: c, ttl: ttl, log: log}
}

/* ---------- categories ---------- */

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, keyCategories, s.ttl, func(ctx context.Context) (*[]domain.Category, error) {
		list, err := s.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, domain.Internal("list categories", err)
	}
	return *out, nil
}

type CategoryInput struct {
	Name        *string
	Description *string
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := trimmed(in.Name)
	if name == "" {
		return nil, domain.InvalidArgument("category name is required")
	}
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, domain.Internal("create category", err)
	}
	if existing != nil {
		return nil, domain.Conflict("category already exists")
	}
	c := &domain.Category{Name: name, Description: trimmed(in.Description)}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Conflict("category already exists")
		}
		return nil, domain.Internal("create category", err)
	}
	s.cache.Delete(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("update category", err)
	}
	if c == nil {
		return nil, domain.NotFound("category not found")
	}
	if name := trimmed(in.Name); name != "" && name != c.Name {
		other, err := s.categories.FindByName(ctx, name)
		if err != nil {
			return nil, domain.Internal("update category", err)
		}
		if other != nil {
			return nil, domain.Conflict("category already exists")
		}
		c.Name = name
	}
	if d := trimmed(in.Description); d != "" {
		c.Description = d
	}
	if err := s.categories.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Conflict("category already exists")
		}
		return nil, domain.Internal("update category", err)
	}
	s.cache.Delete(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		return domain.Internal("delete category", err)
	}
	if !ok {
		return domain.NotFound("category not found")
	}
	s.cache.Delete(ctx, keyCategories)
	return nil
}

/* ---------- products ---------- */

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, keyProducts, s.ttl, func(ctx context.Context) (*[]domain.Product, error) {
		list, err := s.products.List(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, domain.Internal("list products", err)
	}
	return *out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := cache.GetOrLoadJSON(s.cache, ctx, keyProduct+id, s.ttl, func(ctx context.Context) (*domain.Product, error) {
		return s.products.FindByID(ctx, id)
	})
	if err != nil {
		return nil, domain.Internal("get product", err)
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	return p, nil
}

// ProductInput carries create and update fields. On update a nil or
// blank field keeps the stored value; non-empty Images replace the old list.
type ProductInput struct {
	Name         *string
	Category     *string
	Quantity     *int
	Amount       *decimal.Decimal
	RegularPrice *decimal.Decimal
	Description  *string
	Images       domain.ImageList
}

func (s *CatalogService) CreateProduct(ctx context.Context, owner string, in ProductInput) (*domain.Product, error) {
	name, category, desc := trimmed(in.Name), trimmed(in.Category), trimmed(in.Description)
	if name == "" || category == "" || desc == "" || in.Quantity == nil || in.Amount == nil {
		return nil, domain.InvalidArgument("please fill in all fields")
	}
	if err := checkProductNumbers(in); err != nil {
		return nil, err
	}
	cat, err := s.categories.FindByName(ctx, category)
	if err != nil {
		return nil, domain.Internal("create product", err)
	}
	if cat == nil {
		return nil, domain.NotFound("category not found")
	}
	p := &domain.Product{
		UserID:      owner,
		Name:        name,
		Category:    category,
		Quantity:    *in.Quantity,
		Amount:      *in.Amount,
		Description: desc,
		Image:       in.Images,
		Ratings:     domain.Ratings{},
	}
	if p.Image == nil {
		p.Image = domain.ImageList{}
	}
	if in.RegularPrice != nil {
		p.RegularPrice = decimal.NewNullDecimal(*in.RegularPrice)
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, domain.Internal("create product", err)
	}
	s.cache.Delete(ctx, keyProducts)
	s.log.Info("product created", zap.String("product_id", p.ID), zap.String("owner", owner))
	return p, nil
}

// UpdateProduct does not re-check the category against the category table.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("update product", err)
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	if err := checkProductNumbers(in); err != nil {
		return nil, err
	}
	if v := trimmed(in.Name); v != "" {
		p.Name = v
	}
	if v := trimmed(in.Category); v != "" {
		p.Category = v
	}
	if v := trimmed(in.Description); v != "" {
		p.Description = v
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.RegularPrice != nil {
		p.RegularPrice = decimal.NewNullDecimal(*in.RegularPrice)
	}
	var replaced domain.ImageList
	if len(in.Images) > 0 {
		replaced, p.Image = p.Image, in.Images
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, domain.Internal("update product", err)
	}
	s.cache.Delete(ctx, keyProducts, keyProduct+id)
	s.discard(replaced)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Internal("delete product", err)
	}
	if p == nil {
		return domain.NotFound("product not found")
	}
	ok, err := s.products.Delete(ctx, id)
	if err != nil {
		return domain.Internal("delete product", err)
	}
	if !ok {
		return domain.NotFound("product not found")
	}
	s.cache.Delete(ctx, keyProducts, keyProduct+id)
	s.discard(p.Image)
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *CatalogService) discard(imgs domain.ImageList) {
	if s.Images == nil || len(imgs) == 0 {
		return
	}
	s.Images.Discard(imgs)
}

func checkProductNumbers(in ProductInput) error {
	if in.Quantity != nil && *in.Quantity < 0 {
		return domain.InvalidArgument("quantity must not be negative")
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return domain.InvalidArgument("amount must not be negative")
	}
	if in.RegularPrice != nil && in.RegularPrice.IsNegative() {
		return domain.InvalidArgument("regular price must not be negative")
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
