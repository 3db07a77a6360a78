package fixture

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(New(Options{Quiet: true}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, url string) string {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return string(body)
}

func postForm(t *testing.T, c *http.Client, u string, form url.Values) string {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestAuthFlow(t *testing.T) {
	srv, c := newClient(t)

	body := postForm(t, c, srv.URL+"/login", url.Values{
		"username": {SeededUsername},
		"password": {SeededPassword},
	})
	assert.Contains(t, body, NoticeLoggedIn)
	assert.Contains(t, body, `id="secure-title"`)
	assert.Contains(t, body, SeededUsername)

	// flash is one-shot
	body = get(t, c, srv.URL+"/secure")
	assert.NotContains(t, body, NoticeLoggedIn)

	body = get(t, c, srv.URL+"/logout")
	assert.Contains(t, body, NoticeLoggedOut)
	assert.Contains(t, body, `id="login-button"`)

	body = get(t, c, srv.URL+"/secure")
	assert.Contains(t, body, NoticeMustLogin)
	assert.NotContains(t, body, `id="secure-title"`)
}

func TestLoginRejections(t *testing.T) {
	srv, c := newClient(t)

	body := postForm(t, c, srv.URL+"/login", url.Values{
		"username": {"nobody"},
		"password": {"x"},
	})
	assert.Contains(t, body, NoticeBadUsername)

	body = postForm(t, c, srv.URL+"/login", url.Values{
		"username": {SeededUsername},
		"password": {"wrong"},
	})
	assert.Contains(t, body, NoticeBadPassword)
}

func TestRegisterThenLogin(t *testing.T) {
	srv, c := newClient(t)

	body := postForm(t, c, srv.URL+"/register", url.Values{
		"username": {"fresh-user"},
		"password": {"pw"},
		"confirm":  {"pw"},
	})
	assert.Contains(t, body, NoticeRegistered)

	body = postForm(t, c, srv.URL+"/login", url.Values{
		"username": {"fresh-user"},
		"password": {"pw"},
	})
	assert.Contains(t, body, NoticeLoggedIn)
}

func TestRegisterValidation(t *testing.T) {
	srv, c := newClient(t)

	body := postForm(t, c, srv.URL+"/register", url.Values{
		"username": {"mismatch"},
		"password": {"a"},
		"confirm":  {"b"},
	})
	assert.Contains(t, body, "Passwords do not match.")

	body = postForm(t, c, srv.URL+"/register", url.Values{
		"username": {SeededUsername},
		"password": {"pw"},
		"confirm":  {"pw"},
	})
	assert.Contains(t, body, "already taken")

	body = postForm(t, c, srv.URL+"/register", url.Values{
		"username": {""},
		"password": {""},
		"confirm":  {""},
	})
	assert.Contains(t, body, "required")
}

func TestDownload(t *testing.T) {
	srv, c := newClient(t)

	body := get(t, c, srv.URL+"/download")
	assert.Contains(t, body, `id="downloads"`)
	assert.Contains(t, body, ">sample.txt<")
	assert.Contains(t, body, ">report.csv<")

	resp, err := c.Get(srv.URL + "/download/sample.txt")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, `attachment; filename="sample.txt"`, resp.Header.Get("Content-Disposition"))
	assert.GreaterOrEqual(t, len(data), 64)

	resp, err = c.Get(srv.URL + "/download/missing.bin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSeededFixturesServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.bin"), []byte("payload"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	srv := httptest.NewServer(New(Options{Quiet: true, FixturesDir: dir}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/download/extra.bin")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestUploadEchoesFilename(t *testing.T) {
	srv, c := newClient(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.Post(srv.URL+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), NoticeUploaded)
	assert.Contains(t, string(body), `<div id="uploaded-files">notes.txt</div>`)
}

func TestUploadWithoutFileRejected(t *testing.T) {
	srv, c := newClient(t)

	resp, err := c.Post(srv.URL+"/upload", "multipart/form-data; boundary=x", strings.NewReader("--x--\r\n"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStaticSurfaces(t *testing.T) {
	srv, c := newClient(t)

	tables := get(t, c, srv.URL+"/tables")
	assert.Contains(t, tables, `id="table1"`)
	assert.Contains(t, tables, "<td>Doe</td>")
	assert.Contains(t, tables, "<td>$100.00</td>")
	assert.Contains(t, tables, `id="empty-table"`)

	windows := get(t, c, srv.URL+"/windows")
	assert.Contains(t, windows, `target="_blank"`)

	frame := get(t, c, srv.URL+"/iframe/content")
	assert.Contains(t, frame, "Your content goes here.")

	dragdrop := get(t, c, srv.URL+"/dragdrop")
	assert.Contains(t, dragdrop, `id="column-a"`)
	assert.Contains(t, dragdrop, `id="column-b"`)
}
