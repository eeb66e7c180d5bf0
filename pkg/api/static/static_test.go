package static

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = `<!doctype html>
<html>
<head>
  <title> Investor Dashboard </title>
  <link rel="icon" href="/favicon.ico">
  <link rel="stylesheet" href="/assets/index.css">
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <script type="module" src="/assets/index.js"></script>
</head>
<body><div id="root"></div><img src="data:image/png;base64,AAAA"></body>
</html>`

func bundle() fstest.MapFS {
	return fstest.MapFS{
		"index.html":          {Data: []byte(indexHTML)},
		"assets/index.js":     {Data: []byte("console.log('app')")},
		"assets/index.css":    {Data: []byte("body{}")},
		"stakeholders.csv":    {Data: []byte("Name\nAcme\n")},
		"assets/nested/.keep": {Data: []byte("")},
	}
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestHandler_ClientRoutesGetIndex(t *testing.T) {
	h := NewFSHandler(bundle(), nil)

	rootRes, root := get(t, h, "/")
	require.Equal(t, http.StatusOK, rootRes.StatusCode)
	assert.Equal(t, indexHTML, root)

	for _, route := range []string{"/platform-partners", "/market-analysis", "/dealer-metrics?tab=nada", "/assets", "/assets/nested"} {
		res, body := get(t, h, route)
		assert.Equal(t, http.StatusOK, res.StatusCode, route)
		assert.Equal(t, root, body, route)
	}
}

func TestHandler_ServesFiles(t *testing.T) {
	h := NewFSHandler(bundle(), nil)

	res, body := get(t, h, "/assets/index.js")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "console.log('app')", body)

	res, body = get(t, h, "/stakeholders.csv")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Name\nAcme\n", body)
}

func TestHandler_TraversalStaysInBundle(t *testing.T) {
	h := NewFSHandler(bundle(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../../etc/passwd"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, indexHTML, rec.Body.String())
}

func TestHandler_RejectsWrites(t *testing.T) {
	h := NewFSHandler(bundle(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_NoIndex(t *testing.T) {
	h := NewFSHandler(fstest.MapFS{}, nil)
	res, _ := get(t, h, "/anything")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestInspect(t *testing.T) {
	fsys := bundle()
	report, err := Inspect(fsys)
	require.NoError(t, err)

	assert.Equal(t, "Investor Dashboard", report.Title)
	assert.Equal(t, []string{"assets/index.css", "assets/index.js", "favicon.ico"}, report.Assets)
	assert.Equal(t, []string{"favicon.ico"}, report.Missing)

	_, err = Inspect(fstest.MapFS{})
	assert.Error(t, err)
}
