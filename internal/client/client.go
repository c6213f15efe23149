package client

import (
	"Amem/internal/api/dto"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const defaultTimeout = 10 * time.Second

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amem api: status %d: %s", e.Status, e.Message)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Client Amem API 客户端，登录后的会话保存在 cookie jar 中
type Client struct {
	http  *resty.Client
	token string
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

func WithHeader(key, value string) Option {
	return func(c *resty.Client) {
		c.SetHeader(key, value)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	hc := resty.New().
		SetBaseURL(baseURL+"/api").
		SetTimeout(defaultTimeout).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	for _, opt := range opts {
		opt(hc)
	}
	return &Client{http: hc}, nil
}

// Token 最近一次登录拿到的 token
func (c *Client) Token() string {
	return c.token
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var result envelope[T]
	var failure envelope[json.RawMessage]

	req := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		var zero T
		return zero, err
	}
	if resp.IsError() {
		var zero T
		msg := failure.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return zero, &APIError{Status: resp.StatusCode(), Code: failure.Code, Message: msg}
	}
	return result.Data, nil
}

func id(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func (c *Client) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error) {
	return do[*dto.UserDTO](ctx, c, http.MethodPost, "/auth/register", req)
}

func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginDTO, error) {
	res, err := do[*dto.LoginDTO](ctx, c, http.MethodPost, "/auth/login", &dto.CredentialDTO{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return res, nil
}

// Logout 同时清除会话与 token
func (c *Client) Logout(ctx context.Context) error {
	req := c.http.R().SetContext(ctx)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	resp, err := req.Post("/auth/logout")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}
	c.token = ""
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (*dto.UserDTO, error) {
	return do[*dto.UserDTO](ctx, c, http.MethodGet, "/auth/user", nil)
}

func (c *Client) CreatePost(ctx context.Context, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	return do[*dto.PostDTO](ctx, c, http.MethodPost, "/posts", req)
}

func (c *Client) GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error) {
	return do[*dto.PostDTO](ctx, c, http.MethodGet, "/posts/"+id(postID), nil)
}

func (c *Client) TogglePostLike(ctx context.Context, postID uint64) (bool, error) {
	res, err := do[dto.LikeToggleDTO](ctx, c, http.MethodPost, "/posts/"+id(postID)+"/like", nil)
	return res.Liked, err
}

func (c *Client) PostStats(ctx context.Context, postID uint64) (*dto.PostStatsDTO, error) {
	return do[*dto.PostStatsDTO](ctx, c, http.MethodGet, "/posts/"+id(postID)+"/stats", nil)
}

// CreateComment parentID 为 0 时发表一级评论
func (c *Client) CreateComment(ctx context.Context, postID uint64, content string, parentID uint64) (*dto.CommentDTO, error) {
	req := &dto.CommentCreateDTO{Content: content}
	if parentID > 0 {
		req.ParentCommentID = &parentID
	}
	return do[*dto.CommentDTO](ctx, c, http.MethodPost, "/posts/"+id(postID)+"/comments", req)
}

func (c *Client) ListComments(ctx context.Context, postID uint64) ([]*dto.CommentDTO, error) {
	return do[[]*dto.CommentDTO](ctx, c, http.MethodGet, "/posts/"+id(postID)+"/comments", nil)
}

func (c *Client) EditComment(ctx context.Context, commentID uint64, content string) error {
	_, err := do[any](ctx, c, http.MethodPut, "/comments/"+id(commentID), &dto.CommentUpdateDTO{Content: content})
	return err
}

func (c *Client) DeleteComment(ctx context.Context, commentID uint64) error {
	_, err := do[any](ctx, c, http.MethodDelete, "/comments/"+id(commentID), nil)
	return err
}

func (c *Client) ToggleCommentLike(ctx context.Context, commentID uint64) (bool, error) {
	res, err := do[dto.LikeToggleDTO](ctx, c, http.MethodPost, "/comments/"+id(commentID)+"/like", nil)
	return res.Liked, err
}

func (c *Client) CommentStats(ctx context.Context, commentID uint64) (*dto.CommentStatsDTO, error) {
	return do[*dto.CommentStatsDTO](ctx, c, http.MethodGet, "/comments/"+id(commentID)+"/stats", nil)
}
