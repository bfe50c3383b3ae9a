package book

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memRepo 内存版仓储,只用于测试
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	books  map[int64]*Book
}

func newMemRepo() *memRepo {
	return &memRepo{books: make(map[int64]*Book)}
}

func (r *memRepo) isbnTaken(isbn string, except int64) bool {
	for _, b := range r.books {
		if b.ID != except && b.ISBN == isbn && !b.IsDeleted() {
			return true
		}
	}
	return false
}

func (r *memRepo) Create(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isbnTaken(b.ISBN, 0) {
		return ErrISBNDuplicate
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *memRepo) FindActiveByID(_ context.Context, id int64) (*Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.IsDeleted() {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.books[b.ID]
	if !ok || cur.IsDeleted() {
		return ErrBookNotFound
	}
	if r.isbnTaken(b.ISBN, b.ID) {
		return ErrISBNDuplicate
	}
	cur.Title, cur.Author, cur.ISBN, cur.PublishedDate = b.Title, b.Author, b.ISBN, b.PublishedDate
	return nil
}

func (r *memRepo) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.IsDeleted() {
		return ErrBookNotFound
	}
	if b.Status == StatusBorrowed {
		return ErrBookInUse
	}
	b.DeletionStatus = DeletionDeleted
	return nil
}

func (r *memRepo) List(_ context.Context, p ListParams) ([]*Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Book
	for id := int64(1); id <= r.nextID; id++ {
		b, ok := r.books[id]
		if !ok || b.IsDeleted() {
			continue
		}
		if p.Status != "" && b.Status != p.Status {
			continue
		}
		if p.Keyword != "" && !strings.Contains(b.Title, p.Keyword) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) MarkBorrowed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.IsDeleted() {
		return ErrBookNotFound
	}
	if b.Status == StatusBorrowed {
		return ErrBookBorrowed
	}
	b.Status = StatusBorrowed
	return nil
}

func (r *memRepo) MarkAvailable(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	b.Status = StatusAvailable
	return nil
}

func (r *memRepo) ListBorrowedIDs(context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, b := range r.books {
		if b.Status == StatusBorrowed {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func TestService_CreateBook(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	b, err := svc.CreateBook(ctx, "Clean Code", "Robert C. Martin", "9780132350884", published)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)

	_, err = svc.CreateBook(ctx, "Another", "Someone", "9780132350884", published)
	assert.ErrorIs(t, err, ErrISBNDuplicate)
	assert.Equal(t, 409, apperrors.GetAppError(err).HTTPStatus())

	_, err = svc.CreateBook(ctx, "", "Someone", "9780132350885", published)
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
}

func TestService_GetBook(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.GetBook(ctx, -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)

	_, err = svc.GetBook(ctx, 42)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_UpdateBook(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	a, err := svc.CreateBook(ctx, "Clean Code", "Robert C. Martin", "9780132350884", published)
	require.NoError(t, err)
	_, err = svc.CreateBook(ctx, "Refactoring", "Martin Fowler", "9780201485677", published)
	require.NoError(t, err)

	title := "Clean Code, 2nd"
	updated, err := svc.UpdateBook(ctx, a.ID, UpdateParams{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	dup := "9780201485677"
	_, err = svc.UpdateBook(ctx, a.ID, UpdateParams{ISBN: &dup})
	assert.ErrorIs(t, err, ErrISBNDuplicate)
}

func TestService_DeleteBook(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.CreateBook(ctx, "Clean Code", "Robert C. Martin", "9780132350884", published)
	require.NoError(t, err)
	b, err := svc.CreateBook(ctx, "Refactoring", "Martin Fowler", "9780201485677", published)
	require.NoError(t, err)
	require.NoError(t, repo.MarkBorrowed(ctx, b.ID))

	require.NoError(t, svc.DeleteBook(ctx, a.ID))
	_, err = svc.GetBook(ctx, a.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	assert.ErrorIs(t, svc.DeleteBook(ctx, b.ID), ErrBookInUse)
	assert.ErrorIs(t, svc.DeleteBook(ctx, 0), apperrors.ErrInvalidID)

	// 删除后ISBN可以被新书复用
	_, err = svc.CreateBook(ctx, "Clean Code", "Robert C. Martin", "9780132350884", published)
	assert.NoError(t, err)
}

func TestService_ListBooks_Defaults(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, "Clean Code", "Robert C. Martin", "9780132350884", published)
	require.NoError(t, err)

	books, total, err := svc.ListBooks(ctx, ListParams{Page: 0, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, books, 1)
}
