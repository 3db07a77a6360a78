//go:build integration

// These tests drive a real headless Chrome against the embedded fixture site:
//
//	go test -tags integration ./internal/infrastructure/browser/rod/...
package rod

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
	"uiprobe/internal/infrastructure/fixture"
	"uiprobe/internal/infrastructure/logger"
)

func newIntegrationSession(t *testing.T) (output.SessionPort, string) {
	t.Helper()

	srv := httptest.NewServer(fixture.New(fixture.Options{Quiet: true}))
	t.Cleanup(srv.Close)

	factory := NewSessionFactory(Config{
		BaseURL:      srv.URL,
		Headless:     true,
		NoSandbox:    true,
		Timeout:      5 * time.Second,
		EventTimeout: 10 * time.Second,
	}, logger.NewNop())

	session, err := factory.NewSession(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session, srv.URL
}

func TestSurface_NavigateAndRead(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/login"))
	assert.Contains(t, surf.CurrentURL(), "/login")

	text, err := surf.Text(ctx, entity.Css("#login-button"))
	require.NoError(t, err)
	assert.Equal(t, "Login", text)

	val, err := surf.Attribute(ctx, entity.Css("#username"), "type")
	require.NoError(t, err)
	assert.Equal(t, "text", val)
}

func TestSurface_LoginJoinsNavigation(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/login"))
	require.NoError(t, surf.Fill(ctx, entity.Css("#username"), fixture.SeededUsername))
	require.NoError(t, surf.Fill(ctx, entity.Css("#password"), fixture.SeededPassword))

	exp, err := surf.Expect(ctx, entity.EventNavigation)
	require.NoError(t, err)
	require.NoError(t, surf.Click(ctx, entity.Css("#login-button")))
	_, err = exp.Wait(ctx)
	require.NoError(t, err)

	assert.Contains(t, surf.CurrentURL(), "/secure")
	flash, err := surf.Text(ctx, entity.Css("#flash"))
	require.NoError(t, err)
	assert.Contains(t, flash, fixture.NoticeLoggedIn)
}

func TestSurface_EnterSubmitsForm(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/login"))
	require.NoError(t, surf.Fill(ctx, entity.Css("#username"), fixture.SeededUsername))
	require.NoError(t, surf.Fill(ctx, entity.Css("#password"), fixture.SeededPassword))

	exp, err := surf.Expect(ctx, entity.EventNavigation)
	require.NoError(t, err)
	require.NoError(t, surf.PressEnter(ctx, entity.Css("#password")))
	_, err = exp.Wait(ctx)
	require.NoError(t, err)

	assert.Contains(t, surf.CurrentURL(), "/secure")
}

func TestSurface_Hover(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/"))
	require.NoError(t, surf.Hover(ctx, entity.CssR("a", "Form Authentication")))
}

func TestSurface_CollectionsAndVisibility(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/download"))

	links := entity.Css("#downloads").Child("a.download-link")
	count, err := surf.Count(ctx, links)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 2)

	texts, err := surf.Texts(ctx, links)
	require.NoError(t, err)
	assert.Contains(t, texts, "sample.txt")

	visible, err := surf.Visible(ctx, entity.Css("#no-such-element"))
	require.NoError(t, err)
	assert.False(t, visible, "absent element reads as not visible, not as an error")
}

func TestSurface_LocateTimeoutIsTyped(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/login"))

	_, err := surf.Text(ctx, entity.Css("#missing"))
	var to *entity.TimeoutError
	require.ErrorAs(t, err, &to)
	assert.Contains(t, to.Op, "#missing")
}

func TestSurface_DownloadEvent(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/download"))

	exp, err := surf.Expect(ctx, entity.EventDownload)
	require.NoError(t, err)
	link := entity.Css("#downloads").ChildR("a.download-link", "^sample.txt$")
	require.NoError(t, surf.Click(ctx, link))

	ev, err := exp.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, ev.Download)
	assert.Equal(t, "sample.txt", ev.Download.SuggestedName)

	fi, err := os.Stat(ev.Download.Path)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}

func TestSession_ResolveOpenedSurface(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/windows"))

	exp, err := surf.Expect(ctx, entity.EventSurfaceOpened)
	require.NoError(t, err)
	require.NoError(t, surf.Click(ctx, entity.Css("#new-window-link")))

	ev, err := exp.Wait(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ev.SurfaceID)

	opened, err := session.Resolve(ctx, ev)
	require.NoError(t, err)

	title, err := opened.Text(ctx, entity.Css("#new-window-title"))
	require.NoError(t, err)
	assert.Equal(t, "New Window", title)
}

func TestSurface_FrameAndScreenshot(t *testing.T) {
	session, _ := newIntegrationSession(t)
	surf := session.Surface()
	ctx := context.Background()

	require.NoError(t, surf.Navigate(ctx, "/iframe"))

	frame, err := surf.Frame(ctx, entity.Css("#content-frame"))
	require.NoError(t, err)
	text, err := frame.Text(ctx, entity.Css("#frame-text"))
	require.NoError(t, err)
	assert.Equal(t, "Your content goes here.", text)

	shot, err := surf.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.NotEmpty(t, shot.Data)
	assert.LessOrEqual(t, shot.Width, 1280)
}
