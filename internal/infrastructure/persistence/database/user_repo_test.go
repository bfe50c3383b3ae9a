package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
)

func createUser(t *testing.T, repo user.Repository, name, email string, role user.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(name, email, "$2a$04$hash", role)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CRUD(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := createUser(t, repo, "Alice", "alice@example.com", user.RoleMember)

	got, err := repo.FindActiveByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "$2a$04$hash", got.PasswordHash)
	assert.Equal(t, user.RoleMember, got.Role)

	got.Name = "Alice Liddell"
	got.Role = user.RoleAdmin
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindActiveByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", got.Name)
	assert.True(t, got.IsAdmin())

	require.NoError(t, repo.SoftDelete(ctx, u.ID))
	_, err = repo.FindActiveByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, u.ID), user.ErrUserNotFound)
}

func TestUserRepository_EmailUniqueAmongActive(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	first := createUser(t, repo, "Alice", "alice@example.com", user.RoleMember)

	dup, err := user.NewUser("Other", "alice@example.com", "hash", user.RoleMember)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), user.ErrEmailDuplicate)

	bob := createUser(t, repo, "Bob", "bob@example.com", user.RoleMember)
	bob.Email = "alice@example.com"
	assert.ErrorIs(t, repo.Update(ctx, bob), user.ErrEmailDuplicate)

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	createUser(t, repo, "Alice", "alice@example.com", user.RoleMember)
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	createUser(t, repo, "Alice", "alice@example.com", user.RoleAdmin)
	createUser(t, repo, "Bob", "bob@example.com", user.RoleMember)
	createUser(t, repo, "Carol", "carol@example.com", user.RoleMember)

	users, total, err := repo.List(ctx, user.ListParams{Page: 1, PageSize: 10, Role: user.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Bob", users[0].Name)

	users, total, err = repo.List(ctx, user.ListParams{Page: 1, PageSize: 10, Keyword: "carol"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Carol", users[0].Name)
}

func TestUserRepository_SoftDeleteWithOpenBorrow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := createUser(t, f.users, "Alice", "alice@example.com", user.RoleMember)
	b := createBook(t, f.books, "Clean Code", "9780132350884")

	rec := borrow.NewBorrow(u.ID, b.ID, time.Now().UTC())
	require.NoError(t, f.borrows.Create(ctx, rec))

	// 未经过用例层的计数检查，直接删除也会被拒绝
	assert.ErrorIs(t, f.users.SoftDelete(ctx, u.ID), user.ErrUserHasOpenBorrow)
	_, err := f.users.FindActiveByID(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.borrows.MarkReturned(ctx, rec.ID, time.Now().UTC()))
	require.NoError(t, f.users.SoftDelete(ctx, u.ID))
	assert.ErrorIs(t, f.users.SoftDelete(ctx, u.ID), user.ErrUserNotFound)
}
