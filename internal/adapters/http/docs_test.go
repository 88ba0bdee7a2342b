package http_test

import (
	"io"
	"strings"
	"testing"
)

func TestDocs_JSONPointsAtServingHost(t *testing.T) {
	app := setupApp(makeDeps(t, nil, nil))

	resp := do(t, app, "GET", "/docs/openapi.json", nil)
	expectStatus(t, resp, 200)

	doc := decode[struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]any `json:"paths"`
	}](t, resp)

	if doc.Info.Title != "Evoteli Map API" {
		t.Errorf("title = %q", doc.Info.Title)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "http://example.com" {
		t.Errorf("servers = %+v, want the request host only", doc.Servers)
	}
	if _, ok := doc.Paths["/v1/map/state"]; !ok {
		t.Error("map state path missing from served document")
	}
}

func TestDocs_YAMLAndUI(t *testing.T) {
	app := setupApp(makeDeps(t, nil, nil))

	resp := do(t, app, "GET", "/docs/openapi.yaml", nil)
	expectStatus(t, resp, 200)
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "openapi:") {
		t.Errorf("unexpected yaml head: %.40s", body)
	}

	resp = do(t, app, "GET", "/docs", nil)
	expectStatus(t, resp, 200)
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "X-Session-ID") {
		t.Error("docs UI does not forward the session header")
	}
}
