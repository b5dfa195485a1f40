package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-shop/internal/domain"
)

func register(t *testing.T, f *fixture, email string) *Session {
	t.Helper()
	s, err := f.users.Register(context.Background(), RegisterInput{Name: "Ann", Email: email, Password: "secret1"})
	require.NoError(t, err)
	return s
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := register(t, f, " Ann@Shop.test ")
	assert.Equal(t, "ann@shop.test", s.User.Email)
	assert.Equal(t, domain.RoleUser, s.User.Role)
	assert.Equal(t, domain.DefaultPhoto, s.User.Photo)
	assert.NotEmpty(t, s.Token)

	_, err := f.users.Register(ctx, RegisterInput{Name: "B", Email: "ann@shop.test", Password: "secret1"})
	requireKind(t, err, domain.KindConflict)

	_, err = f.users.Register(ctx, RegisterInput{Name: "B", Email: "b@shop.test", Password: "12345"})
	requireKind(t, err, domain.KindInvalidArgument)

	_, err = f.users.Register(ctx, RegisterInput{Email: "c@shop.test", Password: "secret1"})
	requireKind(t, err, domain.KindInvalidArgument)

	_, err = f.users.Register(ctx, RegisterInput{Name: "D", Email: "not-an-email", Password: "secret1"})
	requireKind(t, err, domain.KindInvalidArgument)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "ann@shop.test")

	_, err := f.users.Login(ctx, "nobody@shop.test", "secret1")
	requireKind(t, err, domain.KindNotFound)

	_, err = f.users.Login(ctx, "ann@shop.test", "wrong-pw")
	requireKind(t, err, domain.KindInvalidArgument)

	_, err = f.users.Login(ctx, "", "")
	requireKind(t, err, domain.KindInvalidArgument)

	s, err := f.users.Login(ctx, "ANN@shop.test", "secret1")
	require.NoError(t, err)

	who, err := f.users.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, who.UserID)
	assert.Equal(t, "ann@shop.test", who.Email)
	assert.True(t, f.users.Valid(ctx, s.Token))
	assert.False(t, f.users.Valid(ctx, "garbage"))
	assert.False(t, f.users.Valid(ctx, ""))
}

func TestResolveRejectsBannedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := register(t, f, "ann@shop.test")

	require.True(t, f.users.Valid(ctx, s.Token))
	require.NoError(t, f.users.Ban(ctx, s.User.ID))
	_, err := f.users.Resolve(ctx, s.Token)
	requireKind(t, err, domain.KindUnauthorized)
	assert.False(t, f.users.Valid(ctx, s.Token))

	err = f.users.Ban(ctx, s.User.ID)
	requireKind(t, err, domain.KindNotFound)

	_, err = f.users.Resolve(ctx, "")
	requireKind(t, err, domain.KindUnauthorized)
}

func TestUpdateUserKeepsEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := register(t, f, "ann@shop.test")

	u, err := f.users.Update(ctx, s.User.ID, UpdateUserInput{Name: ptr("Annie"), Photo: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.Name)
	assert.Equal(t, domain.DefaultPhoto, u.Photo)
	assert.Equal(t, "ann@shop.test", u.Email)

	_, err = f.users.Update(ctx, "missing", UpdateUserInput{})
	requireKind(t, err, domain.KindNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := register(t, f, "ann@shop.test")

	err := f.users.ChangePassword(ctx, s.User.ID, "wrong-pw", "newsecret")
	requireKind(t, err, domain.KindInvalidArgument)
	err = f.users.ChangePassword(ctx, s.User.ID, "secret1", "short")
	requireKind(t, err, domain.KindInvalidArgument)
	err = f.users.ChangePassword(ctx, s.User.ID, "", "newsecret")
	requireKind(t, err, domain.KindInvalidArgument)

	require.NoError(t, f.users.ChangePassword(ctx, s.User.ID, "secret1", "newsecret"))
	_, err = f.users.Login(ctx, "ann@shop.test", "newsecret")
	require.NoError(t, err)
}

var resetLink = regexp.MustCompile(`http://front\.test/resetpassword/([0-9a-f-]+)`)

func TestPasswordResetLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := register(t, f, "ann@shop.test")

	err := f.users.ForgotPassword(ctx, "nobody@shop.test")
	requireKind(t, err, domain.KindNotFound)

	require.NoError(t, f.users.ForgotPassword(ctx, "ann@shop.test"))
	require.NoError(t, f.users.ForgotPassword(ctx, "ann@shop.test"))
	require.Len(t, f.mail.sent, 2)
	assert.Equal(t, "ann@shop.test", f.mail.sent[1].To)
	assert.Equal(t, "Password Reset Request", f.mail.sent[1].Subject)

	oldTok := resetLink.FindStringSubmatch(f.mail.sent[0].Body)[1]
	tok := resetLink.FindStringSubmatch(f.mail.sent[1].Body)[1]
	assert.Len(t, tok, 64+len(s.User.ID))
	assert.True(t, len(tok) > 64 && tok[64:] == s.User.ID)

	err = f.users.ResetPassword(ctx, oldTok, "brandnew")
	requireKind(t, err, domain.KindInvalidArgument)

	err = f.users.ResetPassword(ctx, tok, "short")
	requireKind(t, err, domain.KindInvalidArgument)

	require.NoError(t, f.users.ResetPassword(ctx, tok, "brandnew"))
	_, err = f.users.Login(ctx, "ann@shop.test", "brandnew")
	require.NoError(t, err)

	err = f.users.ResetPassword(ctx, tok, "again123")
	requireKind(t, err, domain.KindInvalidArgument)
}

func TestPasswordResetExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "ann@shop.test")

	require.NoError(t, f.users.ForgotPassword(ctx, "ann@shop.test"))
	tok := resetLink.FindStringSubmatch(f.mail.sent[0].Body)[1]

	f.users.Now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	err := f.users.ResetPassword(ctx, tok, "brandnew")
	requireKind(t, err, domain.KindInvalidArgument)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	f := newFixture(t)
	register(t, f, "ann@shop.test")
	f.mail.err = errors.New("smtp down")

	err := f.users.ForgotPassword(context.Background(), "ann@shop.test")
	requireKind(t, err, domain.KindInternal)
	assert.Equal(t, "email not sent, try again", domain.As(err).Msg)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	register(t, f, "ann@shop.test")
	register(t, f, "bob@shop.test")

	users, total, err := f.users.List(context.Background(), "bob", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob@shop.test", users[0].Email)
}
