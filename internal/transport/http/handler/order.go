package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/transport/http/ez"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type statusIn struct {
	Status string `json:"status"`
}

func (h *OrderHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[service.CreateOrderInput, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, who domain.Identity, in *service.CreateOrderInput) (*domain.Order, error) {
			return h.orders.Create(c.Request.Context(), who.UserID, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders/user",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) ([]domain.Order, error) {
			return h.orders.ListForUser(c.Request.Context(), who.UserID)
		},
	})

	h.mountManage(e, []string{domain.RoleAdmin})
}

// MountAdmin exposes the same order management on the admin engine,
// whose group already requires the admin role.
func (h *OrderHandler) MountAdmin(e ez.EZ) { h.mountManage(e, nil) }

func (h *OrderHandler) mountManage(e ez.EZ, roles []string) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindNone,
		Roles:  roles,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) ([]domain.Order, error) {
			return h.orders.ListAll(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn, *domain.Order]{
		Method: http.MethodPatch,
		Path:   "/orders/:id",
		Binder: ez.BindJSON,
		Roles:  roles,
		Handler: func(c *gin.Context, _ domain.Identity, in *statusIn) (*domain.Order, error) {
			return h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
		},
	})
}
