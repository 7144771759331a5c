package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/sharedcode/feedbench"
	"github.com/sharedcode/feedbench/redis"
	"github.com/sharedcode/feedbench/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	s := miniredis.RunT(t)
	a := redis.NewAdapter(redis.OpenConnection(redis.Options{Address: s.Addr()}), feedbench.Push)
	t.Cleanup(func() { a.Close() })
	registry := NewRegistry()
	if err := NewAPI(repository.New(a, repository.DefaultOptions())).Register(registry); err != nil {
		t.Fatalf("Register failed, details: %v", err)
	}
	return NewRouter(registry)
}

func call(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostAndReadTimeline(t *testing.T) {
	t.Setenv(EnvMode, "DEV")
	router := newServer(t)

	if w := call(t, router, http.MethodPost, "/api/v1/follows", `{"follower":1,"followee":2}`); w.Code != http.StatusCreated {
		t.Fatalf("follow got %d: %s", w.Code, w.Body)
	}
	body := `[
		{"author":2,"text":"first","timestamp":"2024-05-01T10:00:00Z"},
		{"author":2,"text":"second","timestamp":"2024-05-01T10:01:00Z"},
		{"author":2,"text":"third","timestamp":"2024-05-01T10:02:00Z"}
	]`
	if w := call(t, router, http.MethodPost, "/api/v1/tweets/batch", body); w.Code != http.StatusCreated {
		t.Fatalf("batch post got %d: %s", w.Code, w.Body)
	}
	if w := call(t, router, http.MethodPost, "/api/v1/tweets", `{"author":2,"text":"now"}`); w.Code != http.StatusCreated {
		t.Fatalf("post got %d: %s", w.Code, w.Body)
	}

	w := call(t, router, http.MethodGet, "/api/v1/users/1/timeline?limit=2&offset=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("timeline got %d: %s", w.Code, w.Body)
	}
	var tweets []feedbench.Tweet
	if err := json.Unmarshal(w.Body.Bytes(), &tweets); err != nil {
		t.Fatal(err)
	}
	if len(tweets) != 2 || tweets[0].Text != "third" || tweets[1].Text != "second" {
		t.Errorf("got %+v, want third then second", tweets)
	}

	w = call(t, router, http.MethodGet, "/api/v1/users/2/tweets", "")
	if err := json.Unmarshal(w.Body.Bytes(), &tweets); err != nil || len(tweets) != 4 || tweets[0].Text != "now" {
		t.Errorf("user tweets got %+v, %v", tweets, err)
	}
}

func TestFollowEdges(t *testing.T) {
	t.Setenv(EnvMode, "DEV")
	router := newServer(t)
	body := `[{"follower":1,"followee":9},{"follower":2,"followee":9},{"follower":1,"followee":8}]`
	if w := call(t, router, http.MethodPost, "/api/v1/follows/batch", body); w.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", w.Code, w.Body)
	}
	var ids []feedbench.UserID
	w := call(t, router, http.MethodGet, "/api/v1/users/9/followers", "")
	if err := json.Unmarshal(w.Body.Bytes(), &ids); err != nil || len(ids) != 2 {
		t.Errorf("followers got %v, %v", ids, err)
	}
	w = call(t, router, http.MethodGet, "/api/v1/users/1/followees?limit=1", "")
	if err := json.Unmarshal(w.Body.Bytes(), &ids); err != nil || len(ids) != 1 {
		t.Errorf("followees got %v, %v", ids, err)
	}
}

func TestBadRequests(t *testing.T) {
	t.Setenv(EnvMode, "DEV")
	router := newServer(t)
	long := strings.Repeat("x", feedbench.MaxTweetLength+1)
	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/v1/users/abc/timeline", ""},
		{http.MethodGet, "/api/v1/users/1/timeline?limit=ten", ""},
		{http.MethodGet, "/api/v1/users/1/tweets?offset=x", ""},
		{http.MethodPost, "/api/v1/tweets", `{"text":"no author"}`},
		{http.MethodPost, "/api/v1/tweets", `{"author":1,"text":"` + long + `"}`},
		{http.MethodPost, "/api/v1/follows", `not json`},
		{http.MethodPost, "/api/v1/follows", `{"follower":1}`},
		{http.MethodPost, "/api/v1/follows/batch", `[{"follower":1,"followee":2},{"followee":3}]`},
		{http.MethodPost, "/api/v1/tweets/batch", `[{"author":1,"text":"ok"},{"text":"orphan"}]`},
	}
	for _, c := range cases {
		if w := call(t, router, c.method, c.path, c.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s %s got %d, want 400", c.method, c.path, w.Code)
		}
	}
}

func TestUserZeroIsAccepted(t *testing.T) {
	t.Setenv(EnvMode, "DEV")
	router := newServer(t)
	if w := call(t, router, http.MethodPost, "/api/v1/follows", `{"follower":0,"followee":2}`); w.Code != http.StatusCreated {
		t.Fatalf("follow from user 0 got %d: %s", w.Code, w.Body)
	}
	if w := call(t, router, http.MethodPost, "/api/v1/tweets", `{"author":0,"text":"zero"}`); w.Code != http.StatusCreated {
		t.Fatalf("tweet by user 0 got %d: %s", w.Code, w.Body)
	}
	var ids []feedbench.UserID
	w := call(t, router, http.MethodGet, "/api/v1/users/2/followers", "")
	if err := json.Unmarshal(w.Body.Bytes(), &ids); err != nil || len(ids) != 1 || ids[0] != 0 {
		t.Errorf("followers got %v, %v; want [0]", ids, err)
	}
	var tweets []feedbench.Tweet
	w = call(t, router, http.MethodGet, "/api/v1/users/0/tweets", "")
	if err := json.Unmarshal(w.Body.Bytes(), &tweets); err != nil || len(tweets) != 1 || tweets[0].Author != 0 {
		t.Errorf("user 0 tweets got %+v, %v", tweets, err)
	}
}

func TestTokenRequired(t *testing.T) {
	t.Setenv(EnvMode, "QA")
	t.Setenv(EnvQAToken, "letmein")
	router := newServer(t)

	if w := call(t, router, http.MethodGet, "/api/v1/users/1/timeline", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token got %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/timeline", nil)
	req.Header.Set("Authorization", "Bearer letmein")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("QA token got %d, want 200", w.Code)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	h := func(*gin.Context) {}
	if err := r.RegisterMethod(GET, "/x", h); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterMethod(GET, "/x", h); err == nil {
		t.Error("duplicate method registered")
	}
	if err := r.RegisterMethod(POST, "/x", h); err != nil {
		t.Errorf("POST on the same path rejected: %v", err)
	}
	if err := r.RegisterMethod(Unknown, "/y", h); err == nil {
		t.Error("unknown verb registered")
	}
	if got := r.RestMethods(); len(got) != 2 || got[0].Verb != GET {
		t.Errorf("got %+v", got)
	}
}
