package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/storage/db"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()

	client, err := db.OpenMemory(ctx, "TestSeedIsIdempotent", model.All()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := configs.Defaults()
	cfg.Auth.HashCost = bcrypt.MinCost

	svc := service.New(service.Deps{Config: &cfg, Repos: repository.New(client.GetDB())})
	admin := AdminSeed{Email: "root@example.com", Password: "Str0ng!Pass"}

	res, err := Seed(ctx, svc, admin)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Permissions: len(model.BuiltinPermissions), Role: true, Admin: true}, res)

	res, err = Seed(ctx, svc, admin)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)

	perms, err := svc.Resolver.Resolve(ctx, "root@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, model.BuiltinPermissions, perms)
}

func TestSeedWithoutAdmin(t *testing.T) {
	ctx := context.Background()

	client, err := db.OpenMemory(ctx, "TestSeedWithoutAdmin", model.All()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := configs.Defaults()
	svc := service.New(service.Deps{Config: &cfg, Repos: repository.New(client.GetDB())})

	res, err := Seed(ctx, svc, AdminSeed{})
	require.NoError(t, err)
	assert.True(t, res.Role)
	assert.False(t, res.Admin)
}
