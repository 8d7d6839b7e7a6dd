package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/model"
)

type seen struct {
	method, path, auth, contentType, requestID string
	body                                       map[string]string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *[]seen) {
	t.Helper()
	var reqs []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{
			method:      r.Method,
			path:        r.URL.Path,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &s.body)
		}
		reqs = append(reqs, s)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestClient_List(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK,
		`[{"_id":"1","title":"Buy milk","description":"2%","__v":0}]`)
	c, err := New(srv.URL, WithToken("tok"))
	require.NoError(t, err)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: "1", Title: "Buy milk", Description: "2%"}}, items)

	require.Len(t, *reqs, 1)
	r := (*reqs)[0]
	assert.Equal(t, http.MethodGet, r.method)
	assert.Equal(t, "/todos", r.path)
	assert.Equal(t, "Bearer tok", r.auth)
	assert.NotEmpty(t, r.requestID)
}

func TestClient_ListKeepsBasePath(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK, `[]`)
	c, err := New(srv.URL + "/api/v1")
	require.NoError(t, err)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "/api/v1/todos", (*reqs)[0].path)
}

func TestClient_Create(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  model.Item
	}{
		{"echoed item", `{"_id":"9","title":"Clean","description":"desk"}`, model.Item{ID: "9", Title: "Clean", Description: "desk"}},
		{"empty body", ``, model.Item{}},
		{"not an item", `created`, model.Item{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, reqs := newServer(t, http.StatusCreated, tc.reply)
			c, err := New(srv.URL)
			require.NoError(t, err)

			got, err := c.Create(context.Background(), "Clean", "desk")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			r := (*reqs)[0]
			assert.Equal(t, http.MethodPost, r.method)
			assert.Equal(t, "/todos", r.path)
			assert.Equal(t, "application/json", r.contentType)
			assert.Equal(t, map[string]string{"title": "Clean", "description": "desk"}, r.body)
			assert.Empty(t, r.auth)
		})
	}
}

func TestClient_UpdateDelete(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL)
	require.NoError(t, err)

	require.NoError(t, c.Update(context.Background(), "abc", "T", "D"))
	require.NoError(t, c.Delete(context.Background(), "abc"))

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.Equal(t, "/todos/abc", (*reqs)[0].path)
	assert.Equal(t, map[string]string{"title": "T", "description": "D"}, (*reqs)[0].body)
	assert.Equal(t, http.MethodDelete, (*reqs)[1].method)
	assert.Equal(t, "/todos/abc", (*reqs)[1].path)
}

func TestClient_StatusIsRequestError(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `oops`)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRequest)

	var re *model.RequestError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "create", re.Op)
	assert.Equal(t, http.StatusInternalServerError, re.Status)

	assert.ErrorIs(t, c.Update(context.Background(), "1", "a", "b"), model.ErrRequest)
	assert.ErrorIs(t, c.Delete(context.Background(), "1"), model.ErrRequest)
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, model.ErrNetwork)
	assert.NotErrorIs(t, err, model.ErrRequest)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, model.ErrNetwork)
}

func TestClient_ListBadJSON(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"not":"a list"}`)
	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.List(context.Background())
	assert.Error(t, err)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("todos.example")
	assert.Error(t, err)
}

func TestClient_ItemIDStaysInCollection(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL)
	require.NoError(t, err)

	for _, id := range []string{"../admin", "..", ".", "a/b", `a\b`, ""} {
		err := c.Delete(context.Background(), id)
		assert.ErrorIs(t, err, model.ErrValidation, "delete %q", id)
		err = c.Update(context.Background(), id, "T", "D")
		assert.ErrorIs(t, err, model.ErrValidation, "update %q", id)
	}
	assert.Empty(t, *reqs, "nothing sent for a bad id")

	require.NoError(t, c.Delete(context.Background(), "a b"))
	require.NoError(t, c.Delete(context.Background(), "a%2Fb"))
	require.NoError(t, c.Delete(context.Background(), "%2e%2e"))
	require.Len(t, *reqs, 3)
	assert.Equal(t, "/todos/a b", (*reqs)[0].path)
	assert.Equal(t, "/todos/a%2Fb", (*reqs)[1].path)
	assert.Equal(t, "/todos/%2e%2e", (*reqs)[2].path)
}
