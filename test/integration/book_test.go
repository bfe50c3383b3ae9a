//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookCatalog(t *testing.T) {
	requireServer(t)
	admin := AdminToken(t)
	member := RegisterTestUser(t, "reader")

	book := CreateTestBook(t, admin, "Go语言高级编程")
	assert.Equal(t, "available", book.Status)

	t.Run("会员不能创建图书", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPost, BaseURL+"/books", map[string]string{
			"title": "x", "author": "y", "isbn": GenerateTestISBN(), "published_date": "2020-01-01",
		}, member.AccessToken)
		assert.Equal(t, http.StatusForbidden, resp.HTTPStatus)
	})

	t.Run("ISBN格式错误", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPost, BaseURL+"/books", map[string]string{
			"title": "x", "author": "y", "isbn": "12-34", "published_date": "2020-01-01",
		}, admin)
		assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
	})

	t.Run("ISBN重复", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPost, BaseURL+"/books", map[string]string{
			"title": "x", "author": "y", "isbn": book.ISBN, "published_date": "2020-01-01",
		}, admin)
		assert.Equal(t, http.StatusConflict, resp.HTTPStatus)
		assert.Equal(t, 40004, resp.Code)
	})

	t.Run("公开查询详情和列表", func(t *testing.T) {
		resp := DoJSON(t, http.MethodGet, fmt.Sprintf("%s/books/%d", BaseURL, book.ID), nil, "")
		require.Equal(t, http.StatusOK, resp.HTTPStatus)
		var got BookData
		resp.Decode(t, &got)
		assert.Equal(t, book.ISBN, got.ISBN)

		resp = DoJSON(t, http.MethodGet, BaseURL+"/books?keyword="+url.QueryEscape(book.ISBN), nil, "")
		require.Equal(t, http.StatusOK, resp.HTTPStatus)
		var page PageData[BookData]
		resp.Decode(t, &page)
		require.Len(t, page.List, 1)
		assert.Equal(t, book.ID, page.List[0].ID)
	})

	t.Run("更新后读取新值", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPut, fmt.Sprintf("%s/books/%d", BaseURL, book.ID), map[string]string{
			"title": "Go语言高级编程(第2版)",
		}, admin)
		require.Equal(t, http.StatusOK, resp.HTTPStatus, resp.Message)

		resp = DoJSON(t, http.MethodGet, fmt.Sprintf("%s/books/%d", BaseURL, book.ID), nil, "")
		var got BookData
		resp.Decode(t, &got)
		assert.Equal(t, "Go语言高级编程(第2版)", got.Title)
	})

	t.Run("删除后不存在", func(t *testing.T) {
		resp := DoJSON(t, http.MethodDelete, fmt.Sprintf("%s/books/%d", BaseURL, book.ID), nil, admin)
		require.Equal(t, http.StatusOK, resp.HTTPStatus, resp.Message)

		resp = DoJSON(t, http.MethodGet, fmt.Sprintf("%s/books/%d", BaseURL, book.ID), nil, "")
		assert.Equal(t, http.StatusNotFound, resp.HTTPStatus)
	})
}
