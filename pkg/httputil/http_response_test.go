package httputil_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/limbo/discipline/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenBody struct{}

func (brokenBody) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func TestWriteJSONResponse(t *testing.T) {
	t.Run("encoded body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		httputil.WriteJSONResponse(rr, http.StatusCreated, map[string]int{"overall_score": 80})
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.JSONEq(t, `{"overall_score":80}`, rr.Body.String())
	})
	t.Run("unencodable body becomes internal error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		httputil.WriteJSONResponse(rr, http.StatusOK, brokenBody{})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var resp httputil.ErrorResponse
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
	t.Run("nil body has no content type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		httputil.WriteJSONResponse(rr, http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Header().Get("Content-Type"))
		assert.Zero(t, rr.Body.Len())
	})
}

func TestWriteErrorResponse(t *testing.T) {
	testCases := []struct {
		Desc     string
		Details  error
		Expected string
	}{
		{Desc: "with details", Details: errors.New("date is required"), Expected: `{"code":400,"message":"invalid request","details":"date is required"}`},
		{Desc: "without details", Expected: `{"code":400,"message":"invalid request"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			rr := httptest.NewRecorder()
			httputil.WriteErrorResponse(rr, http.StatusBadRequest, "invalid request", tc.Details)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, tc.Expected, rr.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	t.Run("decoded", func(t *testing.T) {
		require.NoError(t, httputil.DecodeJSON(strings.NewReader(`{"title":"report"}`), &dst))
		assert.Equal(t, "report", dst.Title)
	})
	t.Run("empty body", func(t *testing.T) {
		assert.ErrorIs(t, httputil.DecodeJSON(strings.NewReader(""), &dst), httputil.ErrEmptyBody)
	})
	t.Run("wrong field type", func(t *testing.T) {
		err := httputil.DecodeJSON(strings.NewReader(`{"title": 5}`), &dst)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, httputil.ErrEmptyBody)
	})
}
