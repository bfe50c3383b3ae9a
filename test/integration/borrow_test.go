//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowWorkflow(t *testing.T) {
	requireServer(t)
	admin := AdminToken(t)
	alice := RegisterTestUser(t, "alice")
	bob := RegisterTestUser(t, "bob")
	book := CreateTestBook(t, admin, "分布式系统")

	borrowReq := func(u LoginData) map[string]int64 {
		return map[string]int64{"userid": u.User.ID, "bookid": book.ID}
	}

	resp := DoJSON(t, http.MethodPut, BaseURL+"/borrow", borrowReq(alice), alice.AccessToken)
	require.Equal(t, http.StatusCreated, resp.HTTPStatus, resp.Message)
	var borrowed BorrowData
	resp.Decode(t, &borrowed)
	assert.Equal(t, alice.User.ID, borrowed.UserID)

	t.Run("已借出不能再借", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPut, BaseURL+"/borrow", borrowReq(bob), bob.AccessToken)
		assert.Equal(t, http.StatusConflict, resp.HTTPStatus)
		assert.Equal(t, 40001, resp.Code)
	})

	t.Run("不能替他人借书", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPut, BaseURL+"/borrow", borrowReq(alice), bob.AccessToken)
		assert.Equal(t, http.StatusForbidden, resp.HTTPStatus)
	})

	t.Run("借出中的图书不能删除", func(t *testing.T) {
		resp := DoJSON(t, http.MethodDelete, fmt.Sprintf("%s/books/%d", BaseURL, book.ID), nil, admin)
		assert.Equal(t, http.StatusConflict, resp.HTTPStatus)
	})

	returnURL := fmt.Sprintf("%s/borrow/return/%d", BaseURL, borrowed.ID)

	t.Run("他人不能归还", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPost, returnURL, nil, bob.AccessToken)
		assert.Equal(t, http.StatusForbidden, resp.HTTPStatus)
	})

	resp = DoJSON(t, http.MethodPost, returnURL, nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, resp.HTTPStatus, resp.Message)

	t.Run("重复归还", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPost, returnURL, nil, alice.AccessToken)
		assert.Equal(t, http.StatusConflict, resp.HTTPStatus)
		assert.Equal(t, 40002, resp.Code)
	})

	t.Run("归还后可再借", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPut, BaseURL+"/borrow", borrowReq(bob), bob.AccessToken)
		assert.Equal(t, http.StatusCreated, resp.HTTPStatus, resp.Message)
	})

	t.Run("会员只看到自己的历史", func(t *testing.T) {
		resp := DoJSON(t, http.MethodGet, BaseURL+"/borrow/history", nil, alice.AccessToken)
		require.Equal(t, http.StatusOK, resp.HTTPStatus)
		var page PageData[HistoryItem]
		resp.Decode(t, &page)
		require.Len(t, page.List, 1)
		assert.Equal(t, alice.User.ID, page.List[0].UserID)
		assert.NotNil(t, page.List[0].ReturnDate)
	})
}
