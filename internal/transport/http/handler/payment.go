package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/transport/http/ez"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, *service.PaymentStarted]{
		Method: http.MethodPost,
		Path:   "/payments/initialize",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (*service.PaymentStarted, error) {
			return h.payments.Initialize(c.Request.Context(), who)
		},
	})

	type verifyIn struct {
		Reference string `json:"reference"`
	}
	ez.RegisterAction(e, ez.Action[verifyIn, *service.PaymentResult]{
		Method: http.MethodPost,
		Path:   "/payments/verify",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, in *verifyIn) (*service.PaymentResult, error) {
			return h.payments.Verify(c.Request.Context(), who, in.Reference)
		},
	})
}
