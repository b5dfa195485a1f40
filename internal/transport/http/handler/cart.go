package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/transport/http/ez"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartTotal struct {
	Total decimal.Decimal `json:"total"`
}

func (h *CartHandler) MountAPI(e ez.EZ) {
	// A user who never added anything gets data: null.
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Cart]{
		Method: http.MethodGet,
		Path:   "/carts",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (*domain.Cart, error) {
			return h.carts.Get(c.Request.Context(), who.UserID)
		},
	})

	type addIn struct {
		Product  string `json:"product" binding:"required"`
		Quantity int    `json:"quantity" binding:"min=1"`
	}
	ez.RegisterAction(e, ez.Action[addIn, *domain.Cart]{
		Method: http.MethodPost,
		Path:   "/carts",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, who domain.Identity, in *addIn) (*domain.Cart, error) {
			return h.carts.AddItem(c.Request.Context(), who.UserID, in.Product, in.Quantity)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, cartTotal]{
		Method: http.MethodGet,
		Path:   "/carts/total",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (cartTotal, error) {
			t, err := h.carts.Total(c.Request.Context(), who.UserID)
			return cartTotal{Total: t}, err
		},
	})

	type updateIn struct {
		Quantity int `json:"quantity"`
	}
	ez.RegisterAction(e, ez.Action[updateIn, *domain.Cart]{
		Method: http.MethodPut,
		Path:   "/carts/:productId",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, in *updateIn) (*domain.Cart, error) {
			return h.carts.UpdateItem(c.Request.Context(), who.UserID, c.Param("productId"), in.Quantity)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Cart]{
		Method: http.MethodDelete,
		Path:   "/carts/:productId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (*domain.Cart, error) {
			return h.carts.DeleteItem(c.Request.Context(), who.UserID, c.Param("productId"))
		},
	})
}
