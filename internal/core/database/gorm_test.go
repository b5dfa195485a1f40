package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-shop/internal/domain"
)

func TestNewGormSqliteMigrates(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          "file:gorm_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
		Logger:       zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Migrate(db))
	for _, m := range []any{&domain.User{}, &domain.Cart{}, &domain.CartItem{}, &domain.Order{}, &domain.Payment{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestNewGormUnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNormalizeMySQLDSN(t *testing.T) {
	got := normalizeMySQLDSN("jdbc:mysql://root:pw@db:3306/shop?useSSL=false&serverTimezone=UTC", "", "")
	assert.Equal(t, "root:pw@tcp(db:3306)/shop?charset=utf8mb4&loc=UTC&parseTime=true&tls=false", got)

	got = normalizeMySQLDSN("mysql://db:3306/shop", "app", "secret")
	assert.Equal(t, "app:secret@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true", got)

	native := "u:p@tcp(127.0.0.1:3306)/shop?parseTime=true"
	assert.Equal(t, native, normalizeMySQLDSN(native, "x", "y"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/shop", maskDSN("root:pw@tcp(db:3306)/shop"))
	assert.Equal(t, "tcp(db:3306)/shop", maskDSN("tcp(db:3306)/shop"))
}
