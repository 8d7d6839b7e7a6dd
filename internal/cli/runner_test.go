package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/model"
)

// backend is a tiny in-memory /todos collection.
type backend struct {
	mu    sync.Mutex
	items []model.Item
	calls []string
	auth  string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.auth = r.Header.Get("Authorization")

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/todos"), "/")
	var in model.Item
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in)
	}
	switch {
	case r.Method == http.MethodGet && id == "":
		_ = json.NewEncoder(w).Encode(b.items)
	case r.Method == http.MethodPost && id == "":
		in.ID = "new"
		b.items = append(b.items, in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	case r.Method == http.MethodPut:
		for i := range b.items {
			if b.items[i].ID == id {
				b.items[i].Title, b.items[i].Description = in.Title, in.Description
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodDelete:
		for i := range b.items {
			if b.items[i].ID == id {
				b.items = append(b.items[:i], b.items[i+1:]...)
				return
			}
		}
		http.NotFound(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func setup(t *testing.T, items ...model.Item) (*backend, Options) {
	t.Helper()
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TODO_TOKEN", "")
	t.Setenv("TODO_LOG_FILE", "")

	b := &backend{items: items}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, Options{APIURL: srv.URL, Theme: "mono"}
}

func withStdin(t *testing.T, s string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(s)
	t.Cleanup(func() { stdin = old })
}

func TestRun_Usage(t *testing.T) {
	_, opt := setup(t)
	assert.Equal(t, 2, Run(nil, opt))
	assert.Equal(t, 0, Run([]string{"help"}, opt))
	assert.Equal(t, 2, Run([]string{"frobnicate"}, opt))
	assert.Equal(t, 2, Run([]string{"add", "only-title"}, opt))
	assert.Equal(t, 2, Run([]string{"edit", "1", "t"}, opt))
	assert.Equal(t, 2, Run([]string{"rm"}, opt))
	assert.Equal(t, 2, Run([]string{"auth"}, opt))
}

func TestRun_AddPrint(t *testing.T) {
	b, opt := setup(t, model.Item{ID: "1", Title: "Buy milk", Description: "2%"})

	assert.Equal(t, 0, Run([]string{"add", "Clean", "desk"}, opt))
	assert.Equal(t, 0, Run([]string{"print"}, opt))
	assert.Equal(t, []string{"POST /todos", "GET /todos"}, b.calls)
	assert.Len(t, b.items, 2)
	assert.Empty(t, b.auth)
}

func TestRun_AddBlankIsUsage(t *testing.T) {
	b, opt := setup(t)
	assert.Equal(t, 2, Run([]string{"add", " ", "desk"}, opt))
	assert.Empty(t, b.calls)
}

func TestRun_Edit(t *testing.T) {
	b, opt := setup(t, model.Item{ID: "1", Title: "Buy milk", Description: "2%"})

	assert.Equal(t, 0, Run([]string{"edit", "1", "Buy bread", "rye"}, opt))
	assert.Equal(t, []model.Item{{ID: "1", Title: "Buy bread", Description: "rye"}}, b.items)

	assert.Equal(t, 1, Run([]string{"edit", "404", "x", "y"}, opt))
}

func TestRun_RemoveAsks(t *testing.T) {
	b, opt := setup(t, model.Item{ID: "1", Title: "Buy milk", Description: "2%"})

	withStdin(t, "n\n")
	assert.Equal(t, 0, Run([]string{"rm", "1"}, opt))
	assert.Empty(t, b.calls)
	assert.Len(t, b.items, 1)

	withStdin(t, "yes\n")
	assert.Equal(t, 0, Run([]string{"rm", "1"}, opt))
	assert.Equal(t, []string{"DELETE /todos/1"}, b.calls)
	assert.Empty(t, b.items)
}

func TestRun_RemoveFailureExitsNonZero(t *testing.T) {
	_, opt := setup(t)
	assert.Equal(t, 1, Run([]string{"rm", "-y", "missing"}, opt))
}

func TestRun_RemoveBadIDSendsNothing(t *testing.T) {
	b, opt := setup(t, model.Item{ID: "1", Title: "Buy milk", Description: "2%"})
	assert.Equal(t, 1, Run([]string{"rm", "-y", "../todos"}, opt))
	assert.Empty(t, b.calls)
	assert.Len(t, b.items, 1)
}

func TestRun_TokenIsSent(t *testing.T) {
	b, opt := setup(t)
	withStdin(t, "secret-token\n")
	require.Equal(t, 0, Run([]string{"auth", "login"}, opt))

	assert.Equal(t, 0, Run([]string{"print"}, opt))
	assert.Equal(t, "Bearer secret-token", b.auth)

	assert.Equal(t, 0, Run([]string{"auth", "status"}, opt))
	assert.Equal(t, 0, Run([]string{"auth", "whoami"}, opt))
	assert.Equal(t, 0, Run([]string{"auth", "logout"}, opt))

	_, err := os.Stat(os.Getenv("HOME") + "/.todo/credentials.json")
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Unreachable(t *testing.T) {
	_, opt := setup(t)
	opt.APIURL = "http://127.0.0.1:1"
	assert.Equal(t, 1, Run([]string{"print"}, opt))
}

// chdirTemp changes into a fresh temp dir for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24).
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
