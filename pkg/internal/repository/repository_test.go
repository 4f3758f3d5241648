package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/storage/db"
)

func newRepos(t *testing.T) *Repositories {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	client, err := db.OpenMemory(context.Background(), name, model.All()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return New(client.GetDB())
}

func seedTags(t *testing.T, r *TagRepository, n int) {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		tag := &model.Tag{
			Name:      fmt.Sprintf("tag-%02d", i),
			Value:     fmt.Sprintf("TAG_%02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, r.Create(context.Background(), tag))
	}
}

func TestParseQuery_Defaults(t *testing.T) {
	q := ParseQuery(url.Values{"page": {"0"}, "limit": {"1000"}, "order": {"ASC"}, "name": {"rock"}, "empty": {""}})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, DefaultSort, q.Sort)
	assert.Equal(t, OrderAsc, q.Order)
	assert.Equal(t, map[string]string{"name": "rock"}, q.Filters)

	q = ParseQuery(url.Values{"order": {"sideways"}, "limit": {"abc"}})
	assert.Equal(t, OrderDesc, q.Order)
	assert.Equal(t, DefaultLimit, q.Limit)
}

func TestPages(t *testing.T) {
	assert.Equal(t, 2, Pages(15, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 0, Pages(0, 10))
}

func TestPaginate_SecondPage(t *testing.T) {
	repos := newRepos(t)
	seedTags(t, repos.Tags, 15)

	rows, err := repos.Tags.Paginate(context.Background(), Query{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for _, row := range rows {
		assert.EqualValues(t, 15, row.Total)
		assert.Equal(t, 2, row.Pages)
	}

	// 默认按创建时间倒序，第二页是最早的五条
	assert.Equal(t, "tag-05", rows[0].Name)
	assert.Equal(t, "tag-01", rows[4].Name)
}

func TestPaginate_FilterAndSort(t *testing.T) {
	repos := newRepos(t)
	seedTags(t, repos.Tags, 12)

	rows, err := repos.Tags.Paginate(context.Background(), Query{
		Sort:    "name",
		Order:   OrderAsc,
		Filters: map[string]string{"name": "TAG-1", "unknown": "x", "tagId": "1"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"tag-10", "tag-11", "tag-12"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})
	assert.EqualValues(t, 3, rows[0].Total)
	assert.Equal(t, 1, rows[0].Pages)
}

func TestPaginate_IgnoresHiddenColumns(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, &model.User{Email: "a@b.co", Password: "secret-hash", FullName: "A"}))

	rows, err := repos.Users.Paginate(ctx, Query{Filters: map[string]string{"password": "nomatch"}})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_NotFound(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	_, err := repos.Songs.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := repos.Songs.DeleteByID(ctx, 42)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repos.Songs.IncrementListens(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_EmailLookup(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	u := &model.User{Email: "jane@example.com", Password: "x", FullName: "Jane"}
	require.NoError(t, repos.Users.Create(ctx, u))

	got, err := repos.Users.FindByEmail(ctx, " Jane@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	inUse, err := repos.Users.EmailInUse(ctx, "jane@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	inUse, err = repos.Users.EmailInUse(ctx, "jane@example.com", u.ID+1)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestPermissionRepository_Missing(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Permissions.Create(ctx, &model.Permission{Name: "Admin", Value: model.PermSystemAdmin}))

	missing, err := repos.Permissions.Missing(ctx, []string{model.PermSystemAdmin, "NOPE", "NOPE", "GONE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"NOPE", "GONE"}, missing)
}

func TestRoleRepository_Referencing(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Roles.Create(ctx, &model.Role{Name: "admin", Value: "ADMIN", Permissions: []string{"TAG_VIEW", "TAG_VIEW_ALL"}}))
	require.NoError(t, repos.Roles.Create(ctx, &model.Role{Name: "viewer", Value: "VIEWER", Permissions: []string{"TAG_VIEW_ALL"}}))

	roles, err := repos.Roles.Referencing(ctx, "TAG_VIEW")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "admin", roles[0].Name)

	role, err := repos.Roles.FindByValue(ctx, "VIEWER")
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG_VIEW_ALL"}, role.Permissions)
}

func TestRoleRepository_ValueAndUsage(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	role := &model.Role{Name: "editor", Value: "EDITOR"}
	require.NoError(t, repos.Roles.Create(ctx, role))

	taken, err := repos.Roles.ValueTaken(ctx, "EDITOR", role.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repos.Roles.ValueTaken(ctx, "EDITOR", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	err = repos.Roles.Create(ctx, &model.Role{Name: "other", Value: "EDITOR"})
	assert.ErrorIs(t, err, ErrDuplicate)

	inUse, err := repos.Users.RoleInUse(ctx, "EDITOR")
	require.NoError(t, err)
	assert.False(t, inUse)

	require.NoError(t, repos.Users.Create(ctx, &model.User{Email: "ed@example.com", Password: "x", FullName: "Ed", Role: "EDITOR"}))

	inUse, err = repos.Users.RoleInUse(ctx, "EDITOR")
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestSongRepository_IncrementListens(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	s := &model.Song{Title: "Song", SongKey: "k", Status: model.StatusDraft}
	require.NoError(t, repos.Songs.Create(ctx, s))

	for range 3 {
		_, err := repos.Songs.IncrementListens(ctx, s.ID)
		require.NoError(t, err)
	}

	got, err := repos.Songs.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Listens)
}

func TestLoginRepository_RetentionAndOrder(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repos.Logins.Create(ctx, &model.Login{UserID: 1, LastLoggedIn: now.Add(-200 * 24 * time.Hour)}))
	require.NoError(t, repos.Logins.Create(ctx, &model.Login{UserID: 1, LastLoggedIn: now.Add(-time.Hour)}))
	require.NoError(t, repos.Logins.Create(ctx, &model.Login{UserID: 1, LastLoggedIn: now}))

	logins, err := repos.Logins.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logins, 3)
	assert.True(t, logins[0].LastLoggedIn.After(logins[1].LastLoggedIn))

	n, err := repos.Logins.DeleteBefore(ctx, now.Add(-180*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCodeRepository_ReplaceKeepsOnePerUser(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Codes.Replace(ctx, &model.Code{UserID: 7, Email: "a@b.co", OTPCode: "aaaaaa"}))
	require.NoError(t, repos.Codes.Replace(ctx, &model.Code{UserID: 7, Email: "a@b.co", OTPCode: "bbbbbb"}))

	c, err := repos.Codes.FindByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "bbbbbb", c.OTPCode)

	require.NoError(t, repos.Codes.DeleteByUser(ctx, 7))

	_, err = repos.Codes.FindByEmail(ctx, "a@b.co")
	assert.ErrorIs(t, err, ErrNotFound)
}
