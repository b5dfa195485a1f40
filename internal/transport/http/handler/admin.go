package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/transport/http/ez"
)

// AdminUserHandler serves user management on the admin engine.
type AdminUserHandler struct {
	users *service.UserService
}

func NewAdminUserHandler(users *service.UserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

type userPage struct {
	Items []userView `json:"items"`
	Total int64      `json:"total"`
}

func (h *AdminUserHandler) MountAdmin(e ez.EZ) {
	type listIn struct {
		Offset int    `form:"offset"`
		Limit  int    `form:"limit"`
		Q      string `form:"q"`
	}
	ez.RegisterAction(e, ez.Action[listIn, userPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ domain.Identity, in *listIn) (userPage, error) {
			list, total, err := h.users.List(c.Request.Context(), in.Q, in.Offset, in.Limit)
			if err != nil {
				return userPage{}, err
			}
			out := userPage{Items: make([]userView, 0, len(list)), Total: total}
			for i := range list {
				out.Items = append(out.Items, viewOf(&list[i], ""))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (message, error) {
			if c.Param("id") == who.UserID {
				return message{}, domain.InvalidArgument("cannot ban yourself")
			}
			if err := h.users.Ban(c.Request.Context(), c.Param("id")); err != nil {
				return message{}, err
			}
			return message{"user banned"}, nil
		},
	})
}
