package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
)

var publishedDate = time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC)

func createBook(t *testing.T, repo book.Repository, title, isbn string) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, "Author", isbn, publishedDate)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookRepository_CreateAndFind(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	b := createBook(t, repo, "Clean Code", "9780132350884")
	assert.Positive(t, b.ID)

	got, err := repo.FindActiveByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", got.Title)
	assert.Equal(t, "9780132350884", got.ISBN)
	assert.Equal(t, book.StatusAvailable, got.Status)
	assert.Equal(t, "2008-08-01", got.PublishedDate.Format(book.DateLayout))

	_, err = repo.FindActiveByID(ctx, 999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_ISBNUniqueAmongActive(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	first := createBook(t, repo, "Clean Code", "9780132350884")

	dup, err := book.NewBook("Copy", "Author", "9780132350884", publishedDate)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), book.ErrISBNDuplicate)

	// 软删除后ISBN可以复用
	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	createBook(t, repo, "Clean Code", "9780132350884")

	_, err = repo.FindActiveByID(ctx, first.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_Update(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	a := createBook(t, repo, "Clean Code", "9780132350884")
	createBook(t, repo, "Refactoring", "9780201485677")

	title := "Clean Code 2nd"
	require.NoError(t, a.Apply(book.UpdateParams{Title: &title}))
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.FindActiveByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	isbn := "9780201485677"
	require.NoError(t, a.Apply(book.UpdateParams{ISBN: &isbn}))
	assert.ErrorIs(t, repo.Update(ctx, a), book.ErrISBNDuplicate)

	missing := *a
	missing.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, &missing), book.ErrBookNotFound)
}

func TestBookRepository_MarkBorrowedAndAvailable(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	b := createBook(t, repo, "Clean Code", "9780132350884")

	require.NoError(t, repo.MarkBorrowed(ctx, b.ID))
	assert.ErrorIs(t, repo.MarkBorrowed(ctx, b.ID), book.ErrBookBorrowed)
	assert.ErrorIs(t, repo.MarkBorrowed(ctx, 999), book.ErrBookNotFound)

	ids, err := repo.ListBorrowedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids)

	// 借出中的图书不能删除
	assert.ErrorIs(t, repo.SoftDelete(ctx, b.ID), book.ErrBookInUse)

	require.NoError(t, repo.MarkAvailable(ctx, b.ID))
	require.NoError(t, repo.MarkAvailable(ctx, b.ID), "已是available时不报错")
	assert.ErrorIs(t, repo.MarkAvailable(ctx, 999), book.ErrBookNotFound)

	got, err := repo.FindActiveByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAvailable())
}

func TestBookRepository_List(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	a := createBook(t, repo, "Clean Code", "9780132350884")
	createBook(t, repo, "Refactoring", "9780201485677")
	c := createBook(t, repo, "Clean Architecture", "9780134494166")
	require.NoError(t, repo.MarkBorrowed(ctx, a.ID))
	require.NoError(t, repo.SoftDelete(ctx, c.ID))

	books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, books, 2)

	books, total, err = repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Keyword: "Clean"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, books[0].ID)

	books, total, err = repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Status: book.StatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Refactoring", books[0].Title)

	books, total, err = repo.List(ctx, book.ListParams{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, books, 1)
	assert.Equal(t, a.ID, books[0].ID)
}
