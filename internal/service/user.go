package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-shop/internal/core/auth"
	"go-gin-shop/internal/domain"
	"go-gin-shop/pkg/utils"
)

const resetTokenTTL = 30 * time.Minute

var validate = validator.New(validator.WithRequiredStructEnabled())

type UserService struct {
	users       domain.UserRepository
	tokens      domain.ResetTokenRepository
	jwt         *auth.JWTer
	mail        domain.Mailer
	frontendURL string
	log         *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewUserService(
	users domain.UserRepository,
	tokens domain.ResetTokenRepository,
	jwt *auth.JWTer,
	mail domain.Mailer,
	frontendURL string,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:       users,
		tokens:      tokens,
		jwt:         jwt,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
		Now:         time.Now,
	}
}

// Session is a user together with a freshly issued session token.
type Session struct {
	User  *domain.User
	Token string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.InvalidArgument("please fill in all required fields")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, domain.InvalidArgument("please enter a valid email")
	}
	if len(in.Password) < utils.MinPasswordLen {
		return nil, domain.InvalidArgument("password must be at least six characters")
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("register failed", err)
	}
	if existing != nil {
		return nil, domain.Conflict("email already exists")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal("register failed", err)
	}
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Photo:        domain.DefaultPhoto,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Conflict("email already exists")
		}
		return nil, domain.Internal("register failed", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return s.session(u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.InvalidArgument("please add email and password")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("login failed", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found, please signup")
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.InvalidArgument("invalid email or password")
	}
	return s.session(u)
}

func (s *UserService) session(u *domain.User) (*Session, error) {
	tok, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	return &Session{User: u, Token: tok}, nil
}

// Resolve maps a session token to the caller's identity. Tokens of
// banned or deleted users are rejected.
func (s *UserService) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.Unauthorized("not authorized, please login")
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return domain.Identity{}, domain.Unauthorized("not authorized, please login")
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return domain.Identity{}, domain.Internal("resolve session", err)
	}
	if u == nil {
		return domain.Identity{}, domain.Unauthorized("user not found")
	}
	return u.Identity(), nil
}

// Valid reports whether token still resolves to an active user.
func (s *UserService) Valid(ctx context.Context, token string) bool {
	_, err := s.Resolve(ctx, token)
	return err == nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

// UpdateUserInput holds optional profile changes; email cannot change.
type UpdateUserInput struct {
	Name  *string
	Photo *string
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Photo != nil && strings.TrimSpace(*in.Photo) != "" {
		u.Photo = strings.TrimSpace(*in.Photo)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, domain.Internal("update user", err)
	}
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.InvalidArgument("please add old and new password")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(oldPassword, u.PasswordHash) {
		return domain.InvalidArgument("old password not correct")
	}
	return s.setPassword(ctx, u, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, u *domain.User, pw string) error {
	if len(pw) < utils.MinPasswordLen {
		return domain.InvalidArgument("password must be at least six characters")
	}
	hash, err := utils.HashPassword(pw)
	if err != nil {
		return domain.Internal("hash password", err)
	}
	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return domain.Internal("save password", err)
	}
	return nil
}

// ForgotPassword mails a one-time reset link valid for 30 minutes.
// Only the sha256 of the token is stored.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.InvalidArgument("email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.Internal("forgot password", err)
	}
	if u == nil {
		return domain.NotFound("user does not exist")
	}
	random, err := utils.RandomHex(32)
	if err != nil {
		return domain.Internal("generate reset token", err)
	}
	token := random + u.ID
	now := s.Now()
	rec := &domain.PasswordResetToken{
		UserID:    u.ID,
		TokenHash: utils.SHA256Hex(token),
		CreatedAt: now,
		ExpiresAt: now.Add(resetTokenTTL),
	}
	if err := s.tokens.Replace(ctx, rec); err != nil {
		return domain.Internal("save reset token", err)
	}
	link := fmt.Sprintf("%s/resetpassword/%s", s.frontendURL, token)
	if err := s.mail.Send(ctx, u.Email, "Password Reset Request", resetEmail(u.Name, link)); err != nil {
		return domain.Internal("email not sent, try again", err)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return domain.InvalidArgument("invalid or expired token")
	}
	rec, err := s.tokens.FindValid(ctx, utils.SHA256Hex(token), s.Now())
	if err != nil {
		return domain.Internal("reset password", err)
	}
	if rec == nil {
		return domain.InvalidArgument("invalid or expired token")
	}
	u, err := s.users.FindByID(ctx, rec.UserID)
	if err != nil {
		return domain.Internal("reset password", err)
	}
	if u == nil {
		return domain.InvalidArgument("invalid or expired token")
	}
	if err := s.setPassword(ctx, u, password); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, rec.ID); err != nil {
		s.log.Warn("delete used reset token", zap.String("user_id", u.ID), zap.Error(err))
	}
	return nil
}

func (s *UserService) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.users.List(ctx, q, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list users", err)
	}
	return users, total, nil
}

// Ban soft-deletes the user; existing sessions stop resolving.
func (s *UserService) Ban(ctx context.Context, id string) error {
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return domain.Internal("ban user", err)
	}
	if !ok {
		return domain.NotFound("user not found")
	}
	s.log.Info("user banned", zap.String("user_id", id))
	return nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func resetEmail(name, link string) string {
	l := html.EscapeString(link)
	return fmt.Sprintf(`<h2>Hello %s</h2>
<p>Please use the url below to reset your password</p>
<p>This reset link is valid for only 30 minutes</p>
<a href="%s" clicktracking=off>%s</a>
<p>Regards</p>
`, html.EscapeString(name), l, l)
}
