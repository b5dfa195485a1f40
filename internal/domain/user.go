package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string         `gorm:"size:64;not null" json:"name"`
	PasswordHash string         `gorm:"size:191;not null" json:"-"`
	Role         string         `gorm:"size:16;not null;default:user" json:"role"` // "user"/"admin"
	Photo        string         `gorm:"size:512" json:"photo"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) (bool, error)
}

// Identity is the authenticated caller, resolved once per request.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (i Identity) IsZero() bool  { return i.UserID == "" }
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// PasswordResetToken stores only the sha256 of the emailed token.
type PasswordResetToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

type ResetTokenRepository interface {
	Replace(ctx context.Context, t *PasswordResetToken) error
	FindValid(ctx context.Context, hash string, now time.Time) (*PasswordResetToken, error)
	Delete(ctx context.Context, id string) error
}

// Mailer delivers HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
