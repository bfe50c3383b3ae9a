//go:build integration

// Package integration 针对运行中的library-api实例的黑盒测试
//
// 运行方式:
//
//	library-api migrate && library-api create-admin --email admin@example.com
//	library-api serve &
//	LIBRARY_IT_ADMIN_EMAIL=admin@example.com LIBRARY_IT_ADMIN_PASSWORD=... \
//	  go test -tags integration ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	testPassword = "Test12345"
)

// BaseURL API基础URL，可用LIBRARY_IT_BASE_URL覆盖
var BaseURL = envOr("LIBRARY_IT_BASE_URL", "http://localhost:8080/api/v1")

var seq atomic.Int64

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Response 统一响应结构
type Response struct {
	HTTPStatus int             `json:"-"`
	Status     string          `json:"status"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Decode 解析data字段
func (r *Response) Decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v), "解析响应数据失败: %s", string(r.Data))
}

// UserData 用户响应数据
type UserData struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginData 登录响应数据
type LoginData struct {
	User         UserData `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	PublishedDate string `json:"published_date"`
	Status        string `json:"status"`
}

// PageData 分页数据
type PageData[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// BorrowData 借阅响应数据
type BorrowData struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	BookID     int64  `json:"book_id"`
	BorrowDate string `json:"borrow_date"`
}

// HistoryItem 借阅历史条目
type HistoryItem struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	BookID     int64   `json:"book_id"`
	ReturnDate *string `json:"return_date"`
}

// DoJSON 发送请求并解析统一响应
func DoJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{HTTPStatus: resp.StatusCode}
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// requireServer 服务不可达时跳过
func requireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL + "/books?page_size=1")
	if err != nil {
		t.Skipf("服务不可达(%s): %v", BaseURL, err)
	}
	resp.Body.Close()
}

// unique 同一进程内和多次运行之间都不重复
func unique() int64 {
	return time.Now().UnixNano()/1000 + seq.Add(1)
}

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, unique())
}

// GenerateTestISBN 生成唯一的13位ISBN
func GenerateTestISBN() string {
	return fmt.Sprintf("978%010d", unique()%10000000000)
}

// Login 登录并返回令牌
func Login(t *testing.T, email, password string) LoginData {
	t.Helper()
	resp := DoJSON(t, http.MethodPost, BaseURL+"/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.HTTPStatus, "登录失败: %s", resp.Message)

	var data LoginData
	resp.Decode(t, &data)
	return data
}

// AdminToken 使用LIBRARY_IT_ADMIN_EMAIL/LIBRARY_IT_ADMIN_PASSWORD登录，未配置时跳过
func AdminToken(t *testing.T) string {
	t.Helper()
	email, password := os.Getenv("LIBRARY_IT_ADMIN_EMAIL"), os.Getenv("LIBRARY_IT_ADMIN_PASSWORD")
	if email == "" || password == "" {
		t.Skip("未配置管理员账号(LIBRARY_IT_ADMIN_EMAIL/LIBRARY_IT_ADMIN_PASSWORD)")
	}
	return Login(t, email, password).AccessToken
}

// RegisterTestUser 注册并登录普通会员
func RegisterTestUser(t *testing.T, name string) LoginData {
	t.Helper()
	email := GenerateTestEmail(name)
	resp := DoJSON(t, http.MethodPost, BaseURL+"/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, resp.HTTPStatus, "注册失败: %s", resp.Message)

	return Login(t, email, testPassword)
}

// CreateTestBook 管理员创建图书并返回图书
func CreateTestBook(t *testing.T, adminToken, title string) BookData {
	t.Helper()
	resp := DoJSON(t, http.MethodPost, BaseURL+"/books", map[string]string{
		"title":          title,
		"author":         "测试作者",
		"isbn":           GenerateTestISBN(),
		"published_date": "2020-01-02",
	}, adminToken)
	require.Equal(t, http.StatusCreated, resp.HTTPStatus, "创建图书失败: %s", resp.Message)

	var book BookData
	resp.Decode(t, &book)
	return book
}
