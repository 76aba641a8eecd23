package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/config"
	"github.com/static-hub/static-hub/internal/server"
	"github.com/static-hub/static-hub/internal/static"
)

type diagnosticsFixture struct {
	app   *fiber.App
	store cache.Store
}

func newDiagnosticsFixture(t *testing.T) *diagnosticsFixture {
	t.Helper()

	registry, err := server.NewMountRegistry(&config.Config{
		Global: config.GlobalConfig{ListenPort: 8080},
		Mounts: []config.MountConfig{
			{
				Name:        "assets",
				Prefix:      "/assets/",
				Roots:       []string{"/srv/assets"},
				MaxAge:      config.DefaultMaxAgeMillis,
				Cache:       config.CacheFlag{Enabled: true},
				CachePrefix: "assets",
			},
		},
	})
	if err != nil {
		t.Fatalf("NewMountRegistry 返回错误: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := cache.NewMemoryStore()
	handler := static.NewHandler(store, logger)

	app := fiber.New()
	RegisterDiagnostics(app, registry, handler, store)
	return &diagnosticsFixture{app: app, store: store}
}

func (f *diagnosticsFixture) request(t *testing.T, method, target string) *http.Response {
	t.Helper()
	resp, err := f.app.Test(httptest.NewRequest(method, target, nil))
	if err != nil {
		t.Fatalf("app.Test 返回错误: %v", err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("解析响应 JSON 失败: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	fixture := newDiagnosticsFixture(t)

	resp := fixture.request(t, http.MethodGet, "/-/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("期望 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Status != "ok" {
		t.Fatalf("健康状态不符: %s", payload.Status)
	}
	if payload.Version == "" {
		t.Fatalf("版本信息不应为空")
	}
}

func TestMountsEndpoint(t *testing.T) {
	fixture := newDiagnosticsFixture(t)

	resp := fixture.request(t, http.MethodGet, "/-/mounts")
	var payload struct {
		Mounts []struct {
			Name      string   `json:"name"`
			Prefix    string   `json:"prefix"`
			Roots     []string `json:"roots"`
			CacheMode string   `json:"cache_mode"`
		} `json:"mounts"`
	}
	decodeJSON(t, resp, &payload)

	if len(payload.Mounts) != 1 {
		t.Fatalf("期望一个挂载, got %d", len(payload.Mounts))
	}
	mount := payload.Mounts[0]
	if mount.Name != "assets" || mount.Prefix != "/assets" {
		t.Fatalf("挂载信息不符: %+v", mount)
	}
	if len(mount.Roots) != 1 || mount.Roots[0] != "/srv/assets" {
		t.Fatalf("根目录不符: %v", mount.Roots)
	}
	if mount.CacheMode != "cached" {
		t.Fatalf("缓存模式不符: %s", mount.CacheMode)
	}
}

func TestCacheEndpointListsKeys(t *testing.T) {
	fixture := newDiagnosticsFixture(t)
	fixture.store.Set("assets/b.txt", cache.Entry{Body: []byte("b")})
	fixture.store.Set("assets/a.txt", cache.Entry{Body: []byte("a")})

	resp := fixture.request(t, http.MethodGet, "/-/cache")
	var payload struct {
		Entries int      `json:"entries"`
		Keys    []string `json:"keys"`
	}
	decodeJSON(t, resp, &payload)

	if payload.Entries != 2 {
		t.Fatalf("条目数不符: %d", payload.Entries)
	}
	if len(payload.Keys) != 2 || payload.Keys[0] != "assets/a.txt" || payload.Keys[1] != "assets/b.txt" {
		t.Fatalf("键列表应排序输出: %v", payload.Keys)
	}
}

func TestCacheDeleteSingleKey(t *testing.T) {
	fixture := newDiagnosticsFixture(t)
	fixture.store.Set("assets/a.txt", cache.Entry{Body: []byte("a")})
	fixture.store.Set("assets/b.txt", cache.Entry{Body: []byte("b")})

	resp := fixture.request(t, http.MethodDelete, "/-/cache?key=/a.txt&prefix=assets")
	var payload struct {
		Cleared string `json:"cleared"`
	}
	decodeJSON(t, resp, &payload)

	if payload.Cleared != "assets/a.txt" {
		t.Fatalf("失效键不符: %s", payload.Cleared)
	}
	if _, ok := fixture.store.Get("assets/a.txt"); ok {
		t.Fatalf("目标条目应被删除")
	}
	if _, ok := fixture.store.Get("assets/b.txt"); !ok {
		t.Fatalf("其它条目不应受影响")
	}
}

func TestCacheDeleteWithoutKeyClearsAll(t *testing.T) {
	fixture := newDiagnosticsFixture(t)
	fixture.store.Set("assets/a.txt", cache.Entry{Body: []byte("a")})
	fixture.store.Set("assets/b.txt", cache.Entry{Body: []byte("b")})

	resp := fixture.request(t, http.MethodDelete, "/-/cache")
	var payload struct {
		Cleared string `json:"cleared"`
	}
	decodeJSON(t, resp, &payload)

	if payload.Cleared != "all" {
		t.Fatalf("全量清空应返回 all, got %s", payload.Cleared)
	}
	if fixture.store.Len() != 0 {
		t.Fatalf("缓存应被清空, len=%d", fixture.store.Len())
	}
}
