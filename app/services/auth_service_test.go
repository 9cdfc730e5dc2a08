package services

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories/repotest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Name:     "Rina",
		Email:    email,
		Password: "hunter22",
		Phone:    "0812000000",
		Address:  "Jl. Merdeka 1",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := repotest.NewStore()
	svc := NewAuthService(store.UserRepo(), testSecret, time.Hour, nopLogger)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput(" Rina@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "rina@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.Password)

	_, err = svc.Register(ctx, registerInput("rina@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, token, err := svc.Login(ctx, LoginInput{Email: "RINA@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(repotest.NewStore().UserRepo(), testSecret, time.Hour, nopLogger)

	in := registerInput("not-an-email")
	_, err := svc.Register(context.Background(), in)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email", fieldErr.Field)

	in = registerInput("a@b.co")
	in.Password = "123"
	_, err = svc.Register(context.Background(), in)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "password", fieldErr.Field)
	assert.Equal(t, "Password must be at least 6", fieldErr.Message)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := repotest.NewStore()
	svc := NewAuthService(store.UserRepo(), testSecret, time.Hour, nopLogger)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("rina@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "rina@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejects(t *testing.T) {
	store := repotest.NewStore()
	user := seedUser(t, store, "rina@example.com", models.RoleUser)
	svc := NewAuthService(store.UserRepo(), testSecret, time.Hour, nopLogger)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewAuthService(store.UserRepo(), "another-secret", time.Hour, nopLogger)
		token, err := other.GenerateToken(user)
		require.NoError(t, err)
		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService(store.UserRepo(), testSecret, -time.Minute, nopLogger)
		token, err := expired.GenerateToken(user)
		require.NoError(t, err)
		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &Claims{UserID: user.ID, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPromoteToAdmin(t *testing.T) {
	store := repotest.NewStore()
	svc := NewAuthService(store.UserRepo(), testSecret, time.Hour, nopLogger)
	ctx := context.Background()

	created, err := svc.PromoteToAdmin(ctx, registerInput("admin@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)

	existing, err := svc.Register(ctx, registerInput("rina@example.com"))
	require.NoError(t, err)
	promoted, err := svc.PromoteToAdmin(ctx, RegisterInput{Email: "RINA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, promoted.ID)

	resolver := NewUserRoleResolver(store.UserRepo())
	role, err := resolver.ResolveRole(ctx, &Claims{UserID: existing.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	_, err = resolver.ResolveRole(ctx, &Claims{UserID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderStatusUpdate(t *testing.T) {
	store := repotest.NewStore()
	buyer := seedUser(t, store, "rina@example.com", models.RoleUser)
	category := seedCategory(t, store, "Lighting")
	product := seedProduct(t, store, category, "lamp", "10", 3)
	order := &models.Order{
		OrderCode: "INV-1",
		BuyerID:   buyer.ID,
		Items:     []models.OrderItem{{ProductID: product.ID, ProductName: "lamp", Quantity: 1}},
	}
	require.NoError(t, store.OrderRepo().CreateWithStock(context.Background(), order))

	svc := NewOrderService(store.OrderRepo(), nopLogger)
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, order.ID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	var fieldErr *FieldError
	_, err = svc.UpdateStatus(ctx, order.ID, "Lost")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "status", fieldErr.Field)

	_, err = svc.UpdateStatus(ctx, "missing", "Shipped")
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := svc.BuyerOrders(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	others, err := svc.BuyerOrders(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, others)
}
