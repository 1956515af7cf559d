package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-storefront/internal/database"
	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		_ = database.CloseSQLite(db)
	})
	return db
}

func TestUserRepoCreateAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := NewUserRepo(newTestDB(t))

	created, err := users.Create(ctx, model.User{Username: "alice", PasswordHash: "digest", Role: model.RoleAdmin})
	require.NoError(t, err)
	require.Positive(t, created.ID)

	found, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created, found)

	exists, err := users.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = users.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = users.FindByUsername(ctx, "bob")
	require.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestUserRepoRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepo(db)

	_, err := users.Create(ctx, model.User{Username: "alice", PasswordHash: "a", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = users.Create(ctx, model.User{Username: "alice", PasswordHash: "b", Role: model.RoleUser})
	require.ErrorIs(t, err, model.ErrDuplicateUsername)

	var count int64
	require.NoError(t, db.Model(&userRow{}).Where("username = ?", "alice").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestProductRepoCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	products := NewProductRepo(newTestDB(t))

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	pen, err := products.Create(ctx, model.Product{Name: "Pen", Price: 10, Image: "p.png"})
	require.NoError(t, err)
	cup, err := products.Create(ctx, model.Product{Name: "Cup", Price: 25, Description: "ceramic", Image: "p.png"})
	require.NoError(t, err)
	require.Greater(t, cup.ID, pen.ID)

	list, err = products.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Product{pen, cup}, list)

	got, err := products.GetByID(ctx, pen.ID)
	require.NoError(t, err)
	require.Equal(t, pen, got)

	count, err := products.CountByImage(ctx, "p.png")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	pen.Name = "Fountain Pen"
	pen.Price = 0
	pen.Image = "q.png"
	updated, err := products.Update(ctx, pen)
	require.NoError(t, err)
	require.Equal(t, pen, updated)

	got, err = products.GetByID(ctx, pen.ID)
	require.NoError(t, err)
	require.Equal(t, "Fountain Pen", got.Name)
	require.Equal(t, int64(0), got.Price)

	deleted, err := products.Delete(ctx, pen.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	deleted, err = products.Delete(ctx, pen.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), deleted)

	_, err = products.GetByID(ctx, pen.ID)
	require.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestProductRepoUpdateMissingLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	products := NewProductRepo(newTestDB(t))

	pen, err := products.Create(ctx, model.Product{Name: "Pen", Price: 10, Image: "p.png"})
	require.NoError(t, err)

	_, err = products.Update(ctx, model.Product{ID: pen.ID + 100, Name: "Ghost", Price: 1, Image: "g.png"})
	require.True(t, apierror.HasCode(err, apierror.CodeNotFound))

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Product{pen}, list)
}
