package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
)

func helperServer(t *testing.T, withRedis bool) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "items.db")
	cfg.Tasks.Delay = 10 * time.Millisecond
	if withRedis {
		mr := miniredis.RunT(t)
		cfg.Redis.Addr = mr.Addr()
	}

	s, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	})
	return s
}

func call(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestItemScenario(t *testing.T) {
	for _, withRedis := range []bool{false, true} {
		t.Run(fmt.Sprintf("redis=%v", withRedis), func(t *testing.T) {
			s := helperServer(t, withRedis)

			steps := []struct {
				method, target, body string
				status               int
				want                 string
			}{
				{http.MethodGet, "/items", "", http.StatusOK, `[]`},
				{http.MethodPost, "/items", `{"name":"Widget","description":"A thing"}`, http.StatusCreated, `{"id":1,"name":"Widget","description":"A thing"}`},
				{http.MethodGet, "/items/1", "", http.StatusOK, `{"id":1,"name":"Widget","description":"A thing"}`},
				{http.MethodGet, "/items", "", http.StatusOK, `[{"id":1,"name":"Widget","description":"A thing"}]`},
				{http.MethodPut, "/items/1", `{"name":"Gadget","description":"Updated"}`, http.StatusOK, `{"id":1,"name":"Gadget","description":"Updated"}`},
				{http.MethodGet, "/items/1", "", http.StatusOK, `{"id":1,"name":"Gadget","description":"Updated"}`},
				{http.MethodDelete, "/items/1", "", http.StatusOK, `{"message":"Item deleted successfully"}`},
				{http.MethodGet, "/items/1", "", http.StatusNotFound, `{"detail":"Item not found"}`},
				{http.MethodGet, "/items", "", http.StatusOK, `[]`},
			}
			for i, st := range steps {
				rec := call(s, st.method, st.target, st.body)
				if rec.Code != st.status {
					t.Fatalf("step %d %s %s: status = %d, want %d (%s)", i, st.method, st.target, rec.Code, st.status, rec.Body.String())
				}
				if got := strings.TrimSpace(rec.Body.String()); got != st.want {
					t.Fatalf("step %d %s %s: body = %s, want %s", i, st.method, st.target, got, st.want)
				}
			}
		})
	}
}

func TestCacheServesRepeatReads(t *testing.T) {
	s := helperServer(t, true)
	call(s, http.MethodPost, "/items", `{"name":"a","description":"b"}`)

	if rec := call(s, http.MethodGet, "/items/1", ""); rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first read X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if rec := call(s, http.MethodGet, "/items/1", ""); rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second read X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	call(s, http.MethodPut, "/items/1", `{"name":"c","description":"d"}`)
	rec := call(s, http.MethodGet, "/items/1", "")
	if rec.Header().Get("X-Cache") != "MISS" || !strings.Contains(rec.Body.String(), `"name":"c"`) {
		t.Fatalf("read after write = %s %s", rec.Header().Get("X-Cache"), rec.Body.String())
	}
}

func TestSystemRoutes(t *testing.T) {
	s := helperServer(t, false)

	cases := []struct {
		method, target string
		status         int
		want           string
	}{
		{http.MethodGet, "/", http.StatusOK, `{"message":"Hello from FastAPI on Vercel!"}`},
		{http.MethodGet, "/cpu-task", http.StatusOK, `{"result":"CPU task finished"}`},
		{http.MethodGet, "/healthz", http.StatusOK, `ok`},
		{http.MethodGet, "/nope", http.StatusNotFound, `{"detail":"Not Found"}`},
		{http.MethodPatch, "/items/1", http.StatusMethodNotAllowed, `{"detail":"Method Not Allowed"}`},
		{http.MethodGet, "/items/abc", http.StatusUnprocessableEntity, `{"detail":[{"loc":["path","id"],"msg":"value is not a valid integer","type":"type_error.integer"}]}`},
	}
	for _, tc := range cases {
		rec := call(s, tc.method, tc.target, "")
		if rec.Code != tc.status {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.target, rec.Code, tc.status)
			continue
		}
		if got := strings.TrimSpace(rec.Body.String()); got != tc.want {
			t.Errorf("%s %s: body = %s, want %s", tc.method, tc.target, got, tc.want)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s %s: missing request id", tc.method, tc.target)
		}
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s := helperServer(t, false)

	const n = 20
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := call(s, http.MethodPost, "/items", fmt.Sprintf(`{"name":"n%d","description":"d"}`, i))
			if rec.Code != http.StatusCreated {
				t.Errorf("create %d: status = %d (%s)", i, rec.Code, rec.Body.String())
				return
			}
			var out struct {
				ID int64 `json:"id"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			ids <- out.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d ids, want %d", len(seen), n)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(call(s, http.MethodGet, "/items", "").Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != n {
		t.Fatalf("list has %d items, want %d", len(list), n)
	}
}
