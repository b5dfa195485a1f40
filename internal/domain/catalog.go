package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) (bool, error)
}

// Product.Category holds a category name, not an id.
type Product struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	UserID       string              `gorm:"index;size:36" json:"user"`
	Name         string              `gorm:"size:255;not null" json:"name"`
	Category     string              `gorm:"index;size:128;not null" json:"category"`
	Quantity     int                 `gorm:"not null" json:"quantity"`
	Sold         int                 `gorm:"not null;default:0" json:"sold"`
	RegularPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"regularPrice"`
	Amount       decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description  string              `gorm:"type:text;not null" json:"description"`
	Image        ImageList           `gorm:"type:text" json:"image"`
	Ratings      Ratings             `gorm:"type:text" json:"ratings"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ImageStore removes stored image files that nothing references any more.
type ImageStore interface {
	Discard(imgs ImageList)
}

type ImageFile struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	FileType string `json:"fileType"`
	FileSize string `json:"fileSize"`
}

// ImageList is persisted as a JSON array.
type ImageList []ImageFile

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImageList) Scan(value any) error {
	raw, err := jsonBytes("image list", value)
	if err != nil || raw == nil {
		*l = nil
		return err
	}
	var out ImageList
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// Ratings is a free-form aggregate rating object persisted as JSON.
type Ratings map[string]any

func (r Ratings) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Ratings) Scan(value any) error {
	raw, err := jsonBytes("ratings", value)
	if err != nil || raw == nil {
		*r = nil
		return err
	}
	out := make(Ratings)
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*r = out
	return nil
}

func jsonBytes(what string, value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unsupported scan type %T", what, value)
	}
}
