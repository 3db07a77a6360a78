package pages

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

// fakeSurface records operations in order and emulates the driver's event
// timing: a triggering action fires its event immediately. Only an
// expectation armed before the trigger observes it, so these tests fail if a
// page object ever registers after acting.
type fakeSurface struct {
	ops     []string
	texts   map[string]string
	visible map[string]bool
	url     string

	armed   []*fakeExpectation
	trigger map[string]*entity.AsyncEvent // op -> event fired by that op

	failClick map[string]error
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		texts:     map[string]string{},
		visible:   map[string]bool{},
		trigger:   map[string]*entity.AsyncEvent{},
		failClick: map[string]error{},
	}
}

type fakeExpectation struct {
	kind  entity.EventKind
	ev    *entity.AsyncEvent
	done  bool
	canc  bool
	paths []string
}

func (e *fakeExpectation) Armed() bool { return true }

func (e *fakeExpectation) Wait(ctx context.Context) (*entity.AsyncEvent, error) {
	if e.ev == nil {
		return nil, &entity.TimeoutError{Op: "await " + string(e.kind), Timeout: time.Millisecond, Err: errors.New("event was lost")}
	}
	e.done = true
	return e.ev, nil
}

func (e *fakeExpectation) Cancel() { e.canc = true }

func (f *fakeSurface) record(op string) {
	f.ops = append(f.ops, op)
	if ev, ok := f.trigger[op]; ok {
		// synchronous delivery: only already-armed listeners see it
		for _, exp := range f.armed {
			if exp.kind == ev.Kind && exp.ev == nil {
				exp.ev = ev
			}
		}
	}
}

func (f *fakeSurface) indexOf(op string) int {
	for i, o := range f.ops {
		if o == op {
			return i
		}
	}
	return -1
}

func (f *fakeSurface) Navigate(ctx context.Context, path string) error {
	f.record("navigate:" + path)
	f.url = "http://target" + path
	return nil
}

func (f *fakeSurface) Click(ctx context.Context, loc entity.Locator) error {
	op := "click:" + loc.Path()
	f.record(op)
	return f.failClick[op]
}

func (f *fakeSurface) Fill(ctx context.Context, loc entity.Locator, text string) error {
	f.record(fmt.Sprintf("fill:%s=%s", loc.Path(), text))
	return nil
}

func (f *fakeSurface) Hover(ctx context.Context, loc entity.Locator) error {
	f.record("hover:" + loc.Path())
	return nil
}

func (f *fakeSurface) PressEnter(ctx context.Context, loc entity.Locator) error {
	f.record("enter:" + loc.Path())
	return nil
}

func (f *fakeSurface) SetFiles(ctx context.Context, loc entity.Locator, paths []string) error {
	f.record(fmt.Sprintf("setfiles:%s=%v", loc.Path(), paths))
	return nil
}

func (f *fakeSurface) DragTo(ctx context.Context, from, to entity.Locator) error {
	f.record(fmt.Sprintf("drag:%s->%s", from.Path(), to.Path()))
	return nil
}

func (f *fakeSurface) Text(ctx context.Context, loc entity.Locator) (string, error) {
	if text, ok := f.texts[loc.Path()]; ok {
		return text, nil
	}
	return "", &entity.TimeoutError{Op: "locate " + loc.Path(), Timeout: time.Millisecond, Err: errors.New("not found")}
}

func (f *fakeSurface) Texts(ctx context.Context, loc entity.Locator) ([]string, error) {
	if text, ok := f.texts[loc.Path()]; ok {
		return []string{text}, nil
	}
	return nil, nil
}

func (f *fakeSurface) Count(ctx context.Context, loc entity.Locator) (int, error) {
	if _, ok := f.texts[loc.Path()]; ok {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeSurface) Visible(ctx context.Context, loc entity.Locator) (bool, error) {
	return f.visible[loc.Path()], nil
}

func (f *fakeSurface) Attribute(ctx context.Context, loc entity.Locator, name string) (string, error) {
	return "", nil
}

func (f *fakeSurface) OuterHTML(ctx context.Context, loc entity.Locator) (string, error) {
	return "", nil
}

func (f *fakeSurface) Expect(ctx context.Context, kind entity.EventKind) (output.ExpectationPort, error) {
	f.record("expect:" + string(kind))
	exp := &fakeExpectation{kind: kind}
	f.armed = append(f.armed, exp)
	return exp, nil
}

func (f *fakeSurface) ExpectFileChooser(ctx context.Context, paths []string) (output.ExpectationPort, error) {
	f.record("expect:file-chooser")
	exp := &fakeExpectation{kind: entity.EventFileChooser, paths: paths}
	f.armed = append(f.armed, exp)
	return exp, nil
}

func (f *fakeSurface) Frame(ctx context.Context, loc entity.Locator) (output.SurfacePort, error) {
	f.record("frame:" + loc.Path())
	return f, nil
}

func (f *fakeSurface) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Data: []byte{0xff}, Format: "jpeg"}, nil
}

func (f *fakeSurface) CurrentURL() string { return f.url }

func (f *fakeSurface) Close() error {
	f.record("close")
	return nil
}

type fakeSession struct {
	surface  *fakeSurface
	adopted  []output.SurfacePort
	resolved map[string]*fakeSurface
}

func (s *fakeSession) Surface() output.SurfacePort { return s.surface }
func (s *fakeSession) Adopt(surf output.SurfacePort) {
	s.adopted = append(s.adopted, surf)
}
func (s *fakeSession) Resolve(ctx context.Context, ev *entity.AsyncEvent) (output.SurfacePort, error) {
	surf, ok := s.resolved[ev.SurfaceID]
	if !ok {
		return nil, fmt.Errorf("surface %q not found", ev.SurfaceID)
	}
	s.adopted = append(s.adopted, surf)
	return surf, nil
}
func (s *fakeSession) DownloadDir() string { return "" }
func (s *fakeSession) Close() error        { return nil }

func TestAuthPage_LoginRegistersNavigationBeforeSubmit(t *testing.T) {
	surface := newFakeSurface()
	surface.trigger["click:#login-button"] = &entity.AsyncEvent{Kind: entity.EventNavigation, URL: "/secure"}

	auth := NewAuthPage(surface)
	err := auth.Login(context.Background(), Credentials{Username: "practice", Password: "pw"})
	require.NoError(t, err)

	expectIdx := surface.indexOf("expect:navigation")
	clickIdx := surface.indexOf("click:#login-button")
	require.GreaterOrEqual(t, expectIdx, 0)
	require.GreaterOrEqual(t, clickIdx, 0)
	assert.Less(t, expectIdx, clickIdx, "navigation listener must be armed before the submit click")

	assert.Equal(t, "fill:#username=practice", surface.ops[0])
	assert.Equal(t, "fill:#password=pw", surface.ops[1])
}

func TestAuthPage_RegisterFillsConfirm(t *testing.T) {
	surface := newFakeSurface()
	surface.trigger["click:#register-button"] = &entity.AsyncEvent{Kind: entity.EventNavigation}

	auth := NewAuthPage(surface)
	creds := Credentials{Username: "u1", Password: "p1"}
	require.NoError(t, auth.Register(context.Background(), creds))

	assert.Contains(t, surface.ops, "fill:#confirm=p1")
	assert.Less(t, surface.indexOf("expect:navigation"), surface.indexOf("click:#register-button"))
}

func TestAuthPage_SubmitFailurePropagates(t *testing.T) {
	surface := newFakeSurface()
	boom := errors.New("element detached")
	surface.failClick["click:#login-button"] = boom

	auth := NewAuthPage(surface)
	err := auth.Login(context.Background(), Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, boom)
}

func TestAuthPage_FlashAbsentReadsEmpty(t *testing.T) {
	surface := newFakeSurface()
	auth := NewAuthPage(surface)

	text, err := auth.Flash(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestAuthPage_FlashTrimmed(t *testing.T) {
	surface := newFakeSurface()
	surface.visible["#flash"] = true
	surface.texts["#flash"] = "\n  You logged into a secure area!\n  "

	auth := NewAuthPage(surface)
	text, err := auth.Flash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "You logged into a secure area!", text)
}

func TestFreshCredentials_Unique(t *testing.T) {
	a := FreshCredentials()
	b := FreshCredentials()
	assert.NotEqual(t, a.Username, b.Username)
	assert.NotEmpty(t, a.Password)
}

func TestWindowsPage_OpenNewWindow(t *testing.T) {
	opened := newFakeSurface()
	opened.texts["#new-window-title"] = "New Window"

	surface := newFakeSurface()
	surface.trigger["click:#new-window-link"] = &entity.AsyncEvent{
		Kind:      entity.EventSurfaceOpened,
		SurfaceID: "target-7",
	}
	session := &fakeSession{
		surface:  surface,
		resolved: map[string]*fakeSurface{"target-7": opened},
	}

	windows := NewWindowsPage(session, surface)
	surf, err := windows.OpenNewWindow(context.Background())
	require.NoError(t, err)

	assert.Less(t, surface.indexOf("expect:surface-opened"), surface.indexOf("click:#new-window-link"),
		"surface-opened listener must be armed before the spawning click")
	require.Len(t, session.adopted, 1, "opened surface must be tracked for teardown")

	title, err := windows.NewWindowTitle(context.Background(), surf)
	require.NoError(t, err)
	assert.Equal(t, "New Window", title)
}

func TestTransferPage_DownloadArmsBeforeClick(t *testing.T) {
	surface := newFakeSurface()
	link := "#downloads >> a.download-link~/^sample.txt$/"
	surface.trigger["click:"+link] = &entity.AsyncEvent{
		Kind: entity.EventDownload,
		URL:  "http://target/download/sample.txt",
		Download: &entity.Download{
			SuggestedName: "sample.txt",
			Path:          "/tmp/dl/abc",
			Size:          1536,
		},
	}

	transfer := NewFileTransferPage(surface)
	ev, err := transfer.Download(context.Background(), "sample.txt")
	require.NoError(t, err)

	assert.Less(t, surface.indexOf("expect:download"), surface.indexOf("click:"+link))
	assert.Equal(t, "sample.txt", ev.Download.SuggestedName)
	assert.Contains(t, ev.URL, "/download/")
}

func TestTransferPage_UploadViaChooserOrder(t *testing.T) {
	surface := newFakeSurface()
	surface.trigger["click:#file-upload"] = &entity.AsyncEvent{Kind: entity.EventFileChooser}
	surface.trigger["click:#file-submit"] = &entity.AsyncEvent{Kind: entity.EventNavigation}

	transfer := NewFileTransferPage(surface)
	require.NoError(t, transfer.UploadViaChooser(context.Background(), "/tmp/f.txt"))

	assert.Less(t, surface.indexOf("expect:file-chooser"), surface.indexOf("click:#file-upload"),
		"chooser interception must be armed before the opening click")
}

func TestTransferPage_UploadNoticeTrimmed(t *testing.T) {
	surface := newFakeSurface()
	surface.texts["#upload-result"] = " File Uploaded!\n"

	transfer := NewFileTransferPage(surface)
	notice, err := transfer.UploadNotice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "File Uploaded!", notice)
}

func TestTablesPage_SortClicksHeader(t *testing.T) {
	surface := newFakeSurface()
	tables := NewTablesPage(surface)

	require.NoError(t, tables.SortCustomersBy(context.Background(), 0))
	assert.Contains(t, surface.ops, "click:#table1 >> thead th:nth-of-type(1)")
}

func TestDragDropPage_SlotTextsTrimmed(t *testing.T) {
	surface := newFakeSurface()
	surface.texts["#column-a >> header"] = " A \n"
	surface.texts["#column-b >> header"] = "\tB"

	dnd := NewDragDropPage(surface)
	a, b, err := dnd.SlotTexts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)

	require.NoError(t, dnd.DragAOntoB(context.Background()))
	assert.Contains(t, surface.ops, "drag:#column-a->#column-b")
}

func TestFramesPage_ReadsThroughFrame(t *testing.T) {
	surface := newFakeSurface()
	surface.texts["#frame-text"] = "Your content goes here."

	frames := NewFramesPage(surface)
	text, err := frames.FrameText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Your content goes here.", text)
	assert.Contains(t, surface.ops, "frame:#content-frame")
}
