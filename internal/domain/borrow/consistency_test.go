package borrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckConsistency(t *testing.T) {
	open := []*Borrow{
		{ID: 1, BookID: 10},
		{ID: 2, BookID: 20},
		{ID: 3, BookID: 20},
		{ID: 4, BookID: 40},
	}

	got := CheckConsistency(open, []int64{10, 20, 30})

	assert.Equal(t, []Mismatch{
		{BookID: 20, Borrowed: true, OpenBorrows: []int64{2, 3}},
		{BookID: 30, Borrowed: true},
		{BookID: 40, Borrowed: false, OpenBorrows: []int64{4}},
	}, got)
}

func TestCheckConsistency_Clean(t *testing.T) {
	open := []*Borrow{{ID: 1, BookID: 10}}
	assert.Empty(t, CheckConsistency(open, []int64{10}))
	assert.Empty(t, CheckConsistency(nil, nil))
}

func TestBorrow_MarkReturned(t *testing.T) {
	b := NewBorrow(1, 2, time.Now())
	assert.True(t, b.IsOpen())

	assert.NoError(t, b.MarkReturned(time.Now()))
	assert.False(t, b.IsOpen())
	assert.ErrorIs(t, b.MarkReturned(time.Now()), ErrAlreadyReturned)
}
