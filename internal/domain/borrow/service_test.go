package borrow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memStore 内存版的图书、用户、借阅存储,Transaction失败时整体回滚
type memStore struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	books   map[int64]book.Book
	users   map[int64]user.User
	borrows map[int64]Borrow
	nextID  int64

	failCreate        error
	failMarkAvailable error
}

func newMemStore() *memStore {
	return &memStore{
		books:   make(map[int64]book.Book),
		users:   make(map[int64]user.User),
		borrows: make(map[int64]Borrow),
	}
}

func (s *memStore) addBook(id int64, status book.Status) {
	s.books[id] = book.Book{ID: id, Title: "Book", Status: status, DeletionStatus: book.DeletionActive}
}

func (s *memStore) addUser(id int64) {
	s.users[id] = user.User{ID: id, Name: "User", DeletionStatus: user.DeletionActive}
}

func (s *memStore) openBorrows(bookID int64) int {
	n := 0
	for _, b := range s.borrows {
		if b.BookID == bookID && b.IsOpen() {
			n++
		}
	}
	return n
}

// Transactor

func (s *memStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	books := copyMap(s.books)
	borrows := copyMap(s.borrows)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.books, s.borrows = books, borrows
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UserGateway

type userGateway struct{ *memStore }

func (g userGateway) FindActiveByID(_ context.Context, id int64) (*user.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[id]
	if !ok || u.IsDeleted() {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

// BookGateway

type bookGateway struct{ *memStore }

func (g bookGateway) FindActiveByID(_ context.Context, id int64) (*book.Book, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.books[id]
	if !ok || b.IsDeleted() {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (g bookGateway) MarkBorrowed(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.books[id]
	if !ok || b.IsDeleted() {
		return book.ErrBookNotFound
	}
	if b.Status != book.StatusAvailable {
		return book.ErrBookBorrowed
	}
	b.Status = book.StatusBorrowed
	g.books[id] = b
	return nil
}

func (g bookGateway) MarkAvailable(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failMarkAvailable != nil {
		return g.failMarkAvailable
	}
	b, ok := g.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Status = book.StatusAvailable
	g.books[id] = b
	return nil
}

// Repository

type borrowRepo struct{ *memStore }

func (r borrowRepo) Create(_ context.Context, b *Borrow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	b.ID = r.nextID
	r.borrows[b.ID] = *b
	return nil
}

func (r borrowRepo) FindByID(_ context.Context, id int64) (*Borrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.borrows[id]
	if !ok {
		return nil, ErrBorrowNotFound
	}
	return &b, nil
}

func (r borrowRepo) MarkReturned(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.borrows[id]
	if !ok {
		return ErrBorrowNotFound
	}
	if !b.IsOpen() {
		return ErrAlreadyReturned
	}
	b.ReturnDate = &at
	r.borrows[id] = b
	return nil
}

func (r borrowRepo) ListOpen(context.Context) ([]*Borrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Borrow
	for _, b := range r.borrows {
		if b.IsOpen() {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r borrowRepo) CountOpenByUser(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.borrows {
		if b.UserID == userID && b.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r borrowRepo) History(context.Context, HistoryParams) ([]*HistoryItem, int64, error) {
	return nil, 0, nil
}

func newTestWorkflow() (Workflow, *memStore) {
	s := newMemStore()
	s.addUser(3)
	s.addUser(5)
	s.addBook(7, book.StatusAvailable)
	return NewWorkflow(borrowRepo{s}, bookGateway{s}, userGateway{s}, s), s
}

func TestWorkflow_Borrow_Success(t *testing.T) {
	w, s := newTestWorkflow()

	rec, err := w.Borrow(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, int64(3), rec.UserID)
	assert.Equal(t, int64(7), rec.BookID)
	assert.False(t, rec.BorrowDate.IsZero())
	assert.Nil(t, rec.ReturnDate)

	assert.Equal(t, book.StatusBorrowed, s.books[7].Status)
	assert.Equal(t, 1, s.openBorrows(7))
}

func TestWorkflow_Borrow_AlreadyBorrowed(t *testing.T) {
	w, s := newTestWorkflow()
	ctx := context.Background()

	_, err := w.Borrow(ctx, 3, 7)
	require.NoError(t, err)
	before := s.books[7]

	_, err = w.Borrow(ctx, 5, 7)
	assert.ErrorIs(t, err, book.ErrBookBorrowed)
	assert.Equal(t, 409, apperrors.GetAppError(err).HTTPStatus())
	assert.Len(t, s.borrows, 1)
	assert.Equal(t, before, s.books[7])
}

func TestWorkflow_Borrow_Errors(t *testing.T) {
	w, s := newTestWorkflow()
	s.addBook(8, book.StatusAvailable)
	deleted := s.books[8]
	deleted.DeletionStatus = book.DeletionDeleted
	s.books[8] = deleted

	tests := []struct {
		name    string
		userID  int64
		bookID  int64
		wantErr error
		status  int
	}{
		{"用户不存在", 99, 7, user.ErrUserNotFound, 404},
		{"图书不存在", 3, 99, book.ErrBookNotFound, 404},
		{"图书已删除", 3, 8, book.ErrBookNotFound, 404},
		{"图书ID为负数", 3, -1, apperrors.ErrInvalidID, 400},
		{"用户ID为0", 0, 7, apperrors.ErrInvalidID, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Borrow(context.Background(), tt.userID, tt.bookID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, apperrors.GetAppError(err).HTTPStatus())
			assert.Empty(t, s.borrows)
		})
	}
	assert.Equal(t, book.StatusAvailable, s.books[7].Status)
}

func TestWorkflow_Borrow_CreateFailureRollsBack(t *testing.T) {
	w, s := newTestWorkflow()
	s.failCreate = errors.New("insert failed")

	_, err := w.Borrow(context.Background(), 3, 7)
	assert.Error(t, err)
	assert.Equal(t, book.StatusAvailable, s.books[7].Status)
	assert.Empty(t, s.borrows)
}

func TestWorkflow_Borrow_Concurrent(t *testing.T) {
	w, s := newTestWorkflow()
	for id := int64(10); id < 30; id++ {
		s.addUser(id)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for id := int64(10); id < 30; id++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := w.Borrow(context.Background(), userID, 7)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, book.ErrBookBorrowed):
				conflicts++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 19, conflicts)
	assert.Equal(t, 1, s.openBorrows(7))
}

func TestWorkflow_Return(t *testing.T) {
	w, s := newTestWorkflow()
	ctx := context.Background()

	rec, err := w.Borrow(ctx, 3, 7)
	require.NoError(t, err)

	returned, err := w.Return(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, book.StatusAvailable, s.books[7].Status)
	assert.Equal(t, 0, s.openBorrows(7))

	// 第二次归还被拒绝,不修改任何数据
	firstReturn := *s.borrows[rec.ID].ReturnDate
	_, err = w.Return(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.Equal(t, 409, apperrors.GetAppError(err).HTTPStatus())
	assert.Equal(t, firstReturn, *s.borrows[rec.ID].ReturnDate)

	// 归还后可以再次借出
	_, err = w.Borrow(ctx, 5, 7)
	assert.NoError(t, err)
}

func TestWorkflow_Return_Errors(t *testing.T) {
	w, _ := newTestWorkflow()

	_, err := w.Return(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBorrowNotFound)
	assert.Equal(t, 404, apperrors.GetAppError(err).HTTPStatus())

	_, err = w.Return(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
}

func TestWorkflow_Return_MissingBookRollsBack(t *testing.T) {
	w, s := newTestWorkflow()
	ctx := context.Background()

	rec, err := w.Borrow(ctx, 3, 7)
	require.NoError(t, err)
	delete(s.books, 7)

	_, err = w.Return(ctx, rec.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	stored := s.borrows[rec.ID]
	assert.True(t, stored.IsOpen())
}

func TestWorkflow_Return_StorageFailureRollsBack(t *testing.T) {
	w, s := newTestWorkflow()
	ctx := context.Background()

	rec, err := w.Borrow(ctx, 3, 7)
	require.NoError(t, err)
	s.failMarkAvailable = apperrors.ErrDatabaseError

	_, err = w.Return(ctx, rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	assert.Equal(t, 500, apperrors.GetAppError(err).HTTPStatus())
	stored := s.borrows[rec.ID]
	assert.True(t, stored.IsOpen())
	assert.Equal(t, book.StatusBorrowed, s.books[7].Status)
}
