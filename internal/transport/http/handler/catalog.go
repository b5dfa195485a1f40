package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/storage"
	"go-gin-shop/internal/transport/http/ez"
)

type CategoryHandler struct {
	catalog *service.CatalogService
}

func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (h *CategoryHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) ([]domain.Category, error) {
			return h.catalog.ListCategories(c.Request.Context())
		},
	})

	type categoryIn struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	ez.RegisterAction(e, ez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ domain.Identity, in *categoryIn) (*domain.Category, error) {
			return h.catalog.CreateCategory(c.Request.Context(), service.CategoryInput{Name: in.Name, Description: in.Description})
		},
	})

	ez.RegisterAction(e, ez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: ez.BindJSON,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ domain.Identity, in *categoryIn) (*domain.Category, error) {
			return h.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), service.CategoryInput{Name: in.Name, Description: in.Description})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: ez.BindNone,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) (message, error) {
			if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
				return message{}, err
			}
			return message{"category deleted successfully"}, nil
		},
	})
}

type ProductHandler struct {
	catalog  *service.CatalogService
	images   *storage.LocalImages
	maxFiles int
}

func NewProductHandler(catalog *service.CatalogService, images *storage.LocalImages, maxFiles int) *ProductHandler {
	return &ProductHandler{catalog: catalog, images: images, maxFiles: maxFiles}
}

// productIn binds from JSON or from a multipart form with "image" files.
type productIn struct {
	Name         *string       `json:"name" form:"name"`
	Category     *string       `json:"category" form:"category"`
	Quantity     ez.NumberText `json:"quantity" form:"quantity"`
	Amount       ez.NumberText `json:"amount" form:"amount"`
	RegularPrice ez.NumberText `json:"regularPrice" form:"regularPrice"`
	Description  *string       `json:"description" form:"description"`
}

func (h *ProductHandler) input(c *gin.Context, in *productIn) (service.ProductInput, error) {
	out := service.ProductInput{Name: in.Name, Category: in.Category, Description: in.Description}
	var err error
	if out.Quantity, err = in.Quantity.Int("quantity"); err != nil {
		return out, err
	}
	if out.Amount, err = in.Amount.Decimal("amount"); err != nil {
		return out, err
	}
	if out.RegularPrice, err = in.RegularPrice.Decimal("regularPrice"); err != nil {
		return out, err
	}
	files, err := ez.FormFiles(c, "image", h.maxFiles)
	if err != nil || len(files) == 0 {
		return out, err
	}
	out.Images, err = h.images.Save(files)
	return out, err
}

func (h *ProductHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) ([]domain.Product, error) {
			return h.catalog.ListProducts(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) (*domain.Product, error) {
			return h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[productIn, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindAuto,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, who domain.Identity, in *productIn) (*domain.Product, error) {
			pin, err := h.input(c, in)
			if err != nil {
				return nil, err
			}
			p, err := h.catalog.CreateProduct(c.Request.Context(), who.UserID, pin)
			if err != nil {
				h.images.Discard(pin.Images)
			}
			return p, err
		},
	})

	ez.RegisterAction(e, ez.Action[productIn, *domain.Product]{
		Method: http.MethodPatch,
		Path:   "/products/:id",
		Binder: ez.BindAuto,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ domain.Identity, in *productIn) (*domain.Product, error) {
			pin, err := h.input(c, in)
			if err != nil {
				return nil, err
			}
			p, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), pin)
			if err != nil {
				h.images.Discard(pin.Images)
			}
			return p, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) (message, error) {
			if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
				return message{}, err
			}
			return message{"product deleted"}, nil
		},
	})
}
