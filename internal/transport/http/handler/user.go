package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/transport/http/ez"
	mdw "go-gin-shop/internal/transport/http/middleware"
)

type UserHandler struct {
	users  *service.UserService
	cookie mdw.SessionCookie
}

func NewUserHandler(users *service.UserService, cookie mdw.SessionCookie) *UserHandler {
	return &UserHandler{users: users, cookie: cookie}
}

func (h *UserHandler) Priority() int { return 10 }

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"`
}

func viewOf(u *domain.User, token string) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo, Role: u.Role, Token: token}
}

type message struct {
	Message string `json:"message"`
}

func (h *UserHandler) MountAPI(e ez.EZ) {
	type registerIn struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	ez.RegisterAction(e, ez.Action[registerIn, userView]{
		Method: http.MethodPost,
		Path:   "/users/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ domain.Identity, in *registerIn) (userView, error) {
			s, err := h.users.Register(c.Request.Context(), service.RegisterInput{Name: in.Name, Email: in.Email, Password: in.Password})
			if err != nil {
				return userView{}, err
			}
			h.cookie.Set(c, s.Token)
			return viewOf(s.User, s.Token), nil
		},
	})

	type loginIn struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[loginIn, userView]{
		Method: http.MethodPost,
		Path:   "/users/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ domain.Identity, in *loginIn) (userView, error) {
			s, err := h.users.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return userView{}, err
			}
			h.cookie.Set(c, s.Token)
			return viewOf(s.User, s.Token), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method: http.MethodGet,
		Path:   "/users/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) (message, error) {
			h.cookie.Clear(c)
			return message{"user successfully logged out"}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, bool]{
		Method: http.MethodGet,
		Path:   "/users/loginStatus",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) (bool, error) {
			return h.users.Valid(c.Request.Context(), h.cookie.Token(c)), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, userView]{
		Method: http.MethodGet,
		Path:   "/users/getUser",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (userView, error) {
			u, err := h.users.Get(c.Request.Context(), who.UserID)
			if err != nil {
				return userView{}, err
			}
			return viewOf(u, ""), nil
		},
	})

	type updateIn struct {
		Name  *string `json:"name"`
		Photo *string `json:"photo"`
	}
	ez.RegisterAction(e, ez.Action[updateIn, userView]{
		Method: http.MethodPatch,
		Path:   "/users/updateUser",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, in *updateIn) (userView, error) {
			u, err := h.users.Update(c.Request.Context(), who.UserID, service.UpdateUserInput{Name: in.Name, Photo: in.Photo})
			if err != nil {
				return userView{}, err
			}
			return viewOf(u, ""), nil
		},
	})

	type changePasswordIn struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		Password    string `json:"password" binding:"required,min=6"`
	}
	ez.RegisterAction(e, ez.Action[changePasswordIn, message]{
		Method: http.MethodPatch,
		Path:   "/users/changePassword",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, in *changePasswordIn) (message, error) {
			if err := h.users.ChangePassword(c.Request.Context(), who.UserID, in.OldPassword, in.Password); err != nil {
				return message{}, err
			}
			return message{"password changed successfully"}, nil
		},
	})

	type forgotIn struct {
		Email string `json:"email" binding:"required,email"`
	}
	type forgotOut struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	ez.RegisterAction(e, ez.Action[forgotIn, forgotOut]{
		Method: http.MethodPost,
		Path:   "/users/forgotPassword",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ domain.Identity, in *forgotIn) (forgotOut, error) {
			if err := h.users.ForgotPassword(c.Request.Context(), in.Email); err != nil {
				return forgotOut{}, err
			}
			return forgotOut{Success: true, Message: "reset email sent"}, nil
		},
	})

	type resetIn struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	ez.RegisterAction(e, ez.Action[resetIn, message]{
		Method: http.MethodPut,
		Path:   "/users/resetPassword/:resetToken",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ domain.Identity, in *resetIn) (message, error) {
			if err := h.users.ResetPassword(c.Request.Context(), c.Param("resetToken"), in.Password); err != nil {
				return message{}, err
			}
			return message{"password reset successful, please login"}, nil
		},
	})
}
