// Package ez registers typed request handlers ("actions") on gin groups
// and maps their errors to HTTP responses in one place.
package ez

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-gin-shop/internal/core/logger"
	"go-gin-shop/internal/domain"
	mdw "go-gin-shop/internal/transport/http/middleware"
	resp "go-gin-shop/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

func (e EZ) Group() *gin.RouterGroup { return e.g }
func (e EZ) Logger() *zap.Logger     { return e.log }

type Binder string

const (
	BindJSON  Binder = "json"  // request body as JSON
	BindQuery Binder = "query" // URL ?a=b
	BindAuto  Binder = "auto"  // by Content-Type: JSON, urlencoded or multipart
	BindNone  Binder = "none"  // handler reads c.Param etc. itself
)

// Action is one endpoint: I is bound from the request, O is the data
// of the success envelope.
type Action[I any, O any] struct {
	Method string // GET | POST | PUT | PATCH | DELETE
	Path   string
	Binder Binder
	Auth   bool     // caller must be identified
	Roles  []string // and hold one of these roles
	Status int      // success status, default 200
	// Handler receives the identity resolved by middleware.Identify
	// (zero when anonymous).
	Handler func(c *gin.Context, who domain.Identity, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		who, _ := mdw.IdentityFrom(c)
		if a.Auth || len(a.Roles) > 0 {
			if who.IsZero() {
				WriteError(c, e.log, domain.Unauthorized("not authorized, please login"))
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, who.Role) {
				WriteError(c, e.log, domain.Forbidden("not authorized as "+strings.Join(a.Roles, " or ")))
				return
			}
		}

		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			writeBindError(c, err)
			return
		}

		out, err := a.Handler(c, who, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, dst any) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(dst)
	case BindQuery:
		return c.ShouldBindQuery(dst)
	case BindAuto:
		return c.ShouldBind(dst)
	default:
		return nil
	}
}

func writeBindError(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeEntityTooLarge, "request body too large"))
		return
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, validationMessage(ves)))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "invalid request: "+err.Error()))
}

// validationMessage turns binding tag failures into one line, e.g.
// "email must be a valid email; password must be at least 6".
func validationMessage(ves validator.ValidationErrors) string {
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		parts = append(parts, fieldName(fe.Field())+" "+ruleMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}

// fieldName lowers the first letter so messages use the JSON spelling
// of the usual camelCase fields.
func fieldName(f string) string {
	if f == "" {
		return f
	}
	return strings.ToLower(f[:1]) + f[1:]
}

var statusOf = map[domain.Kind]int{
	domain.KindInvalidArgument: http.StatusBadRequest,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindUnauthorized:    http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindConflict:        http.StatusConflict,
	domain.KindInternal:        http.StatusInternalServerError,
}

// WriteError maps err to a status and envelope. Internal errors are
// logged with their cause; clients only see the public message.
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	de := domain.As(err)
	if de == nil {
		de = &domain.Error{Kind: domain.KindInternal, Msg: "internal server error", Err: err}
	}
	status := statusOf[de.Kind]
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		l.Error("request failed",
			logger.RequestID(mdw.RequestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.String("msg", de.Msg),
			zap.Error(de.Err),
		)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp.Error(status, de.Msg))
}
