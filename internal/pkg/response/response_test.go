package response

import (
	"Amem/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (int, map[string]any) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrContentEmpty, http.StatusBadRequest},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrParentCommentNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", service.ErrPostCommentNotFound), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, body := render(t, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.EqualValues(t, tc.code, body["code"])
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	_, body := render(t, errors.New("dial tcp 10.0.0.1:3306: i/o timeout"))
	assert.Equal(t, service.UnExpectedError.Error(), body["message"])
	assert.Nil(t, body["data"])
}

func TestUnmarshalTypeError(t *testing.T) {
	var v struct {
		ID uint64 `json:"id"`
	}
	err := json.Unmarshal([]byte(`{"id":"x"}`), &v)
	require.Error(t, err)

	code, body := render(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Json错误", body["message"])
}
