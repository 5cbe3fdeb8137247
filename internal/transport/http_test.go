package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/queue"
)

type seen struct {
	method string
	path   string
	raw    string
	query  map[string]string
}

func setupServer(t *testing.T, status int, body string) (*HTTP, *seen) {
	t.Helper()

	s := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		s.path = r.URL.Path
		s.raw = r.URL.RawQuery
		s.query = map[string]string{}
		for k := range r.URL.Query() {
			s.query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	h := NewHTTP(HTTPConfig{BaseURL: srv.URL + "/1/", Key: "k", Token: "tok"}, logger.NewTestLogger())
	return h, s
}

func TestHTTP_Get(t *testing.T) {
	h, s := setupServer(t, http.StatusOK, `{"id":"b1","name":"Roadmap"}`)

	env, err := h.Get(context.Background(), Request{Path: "boards/b1"})
	require.NoError(t, err)
	require.NotNil(t, env)

	assert.Equal(t, http.MethodGet, s.method)
	assert.Equal(t, "/1/boards/b1", s.path)
	assert.Equal(t, "k", s.query["key"])
	assert.Equal(t, "tok", s.query["token"])

	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Data.(json.RawMessage), &got))
	assert.Equal(t, "Roadmap", got["name"])
}

func TestHTTP_PostSendsParams(t *testing.T) {
	h, s := setupServer(t, http.StatusOK, `{"showSidebar":false}`)

	_, err := h.Post(context.Background(), Request{
		Path:   "boards/b1/myPrefs",
		Params: []queue.Param{{Name: "name", Value: "showSidebar"}, {Name: "value", Value: "false"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, s.method)
	assert.Equal(t, "showSidebar", s.query["name"])
	assert.Equal(t, "false", s.query["value"])
}

func TestHTTP_Put(t *testing.T) {
	h, s := setupServer(t, http.StatusOK, `{"id":"c1"}`)

	_, err := h.Put(context.Background(), Request{Path: "cards/c1", Params: []queue.Param{{Name: "closed", Value: "true"}}})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, s.method)
	assert.Equal(t, "true", s.query["closed"])
}

func TestHTTP_WritesKeepParamOrder(t *testing.T) {
	h, s := setupServer(t, http.StatusOK, `{"id":"c1"}`)

	_, err := h.Put(context.Background(), Request{Path: "cards/c1", Params: []queue.Param{
		{Name: "pos", Value: "1"},
		{Name: "idList", Value: "l2"},
		{Name: "closed", Value: "true"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "/1/cards/c1", s.path)
	assert.Equal(t, "pos=1&idList=l2&closed=true&key=k&token=tok", s.raw)

	_, err = h.Post(context.Background(), Request{Path: "boards/b1/myPrefs", Params: []queue.Param{
		{Name: "name", Value: "emailPosition"},
		{Name: "value", Value: "top & bottom"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "name=emailPosition&value=top+%26+bottom&key=k&token=tok", s.raw)
}

func TestHTTP_WriteNotFoundIsNil(t *testing.T) {
	h, _ := setupServer(t, http.StatusNotFound, `{"message":"not found"}`)

	env, err := h.Put(context.Background(), Request{Path: "cards/missing", Params: []queue.Param{{Name: "closed", Value: "true"}}})
	assert.NoError(t, err)
	assert.Nil(t, env)
}

func TestHTTP_NotFoundIsNil(t *testing.T) {
	h, _ := setupServer(t, http.StatusNotFound, `{"message":"not found"}`)

	env, err := h.Get(context.Background(), Request{Path: "cards/missing"})
	assert.NoError(t, err)
	assert.Nil(t, env)
}

func TestHTTP_FailuresAreTransportErrors(t *testing.T) {
	h, _ := setupServer(t, http.StatusInternalServerError, `boom`)

	env, err := h.Put(context.Background(), Request{Path: "cards/c1"})
	assert.Nil(t, env)
	require.Error(t, err)
	assert.True(t, trerr.IsTransportError(err))

	var te *trerr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodPut, te.Method)
	assert.Equal(t, "cards/c1", te.Path)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, err.Error(), "boom")
}

func TestHTTP_Unauthorized(t *testing.T) {
	h, _ := setupServer(t, http.StatusUnauthorized, `invalid token`)

	_, err := h.Get(context.Background(), Request{Path: "boards/b1"})
	var te *trerr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
}

func TestParamValue(t *testing.T) {
	params := []queue.Param{{Name: "name", Value: "showSidebar"}, {Name: "value", Value: "true"}}

	v, ok := ParamValue(params, "value")
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	_, ok = ParamValue(params, "missing")
	assert.False(t, ok)
}
