package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"参数错误", ErrCodeInvalidParams, http.StatusBadRequest},
		{"实体校验失败", ErrCodeValidation, http.StatusBadRequest},
		{"图书不存在", ErrCodeBookNotFound, http.StatusNotFound},
		{"借阅记录不存在", ErrCodeBorrowNotFound, http.StatusNotFound},
		{"图书已借出", ErrCodeBookBorrowed, http.StatusConflict},
		{"重复归还", ErrCodeAlreadyReturned, http.StatusConflict},
		{"ISBN重复", ErrCodeISBNDuplicate, http.StatusConflict},
		{"未登录", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"无权限", ErrCodeForbidden, http.StatusForbidden},
		{"数据库错误", ErrCodeDatabaseError, http.StatusInternalServerError},
		{"未知错误码", 12345, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus())
		})
	}
}

func TestAppError_Is(t *testing.T) {
	sentinel := New(ErrCodeBookBorrowed, "图书已被借出")

	wrapped := fmt.Errorf("borrow: %w", sentinel)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, New(ErrCodeAlreadyReturned, "已归还")))
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		appErr := New(ErrCodeBookNotFound, "图书不存在")
		assert.Same(t, appErr, GetAppError(fmt.Errorf("wrap: %w", appErr)))
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		raw := errors.New("connection refused")
		got := GetAppError(raw)
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.ErrorIs(t, got, raw)
	})
}

func TestHasCode(t *testing.T) {
	err := Wrap(errors.New("boom"), "查询失败")
	assert.True(t, HasCode(err, ErrCodeInternal))
	assert.False(t, HasCode(err, ErrCodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeInternal))
}
