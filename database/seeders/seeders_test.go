package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/pkg/auth"
	"github.com/shashiranjanraj/nftlisting/pkg/rbac"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMemoryUserRepository()
	s := Stores{Users: users}

	config.Set("ADMIN_EMAIL", "")
	require.NoError(t, SeedAdmin(ctx, s))
	_, err := users.FindByEmail(ctx, "root@x.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	config.Set("ADMIN_EMAIL", "root@x.com")
	config.Set("ADMIN_PASSWORD", "hunter22")
	t.Cleanup(func() {
		config.Set("ADMIN_EMAIL", "")
		config.Set("ADMIN_PASSWORD", "")
	})

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, s, &out))
	assert.Contains(t, out.String(), "Running seeder: admin")

	admin, err := users.FindByEmail(ctx, "root@x.com")
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.Password, "hunter22"))

	require.NoError(t, SeedAdmin(ctx, s), "second run is a no-op")
}
