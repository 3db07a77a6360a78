// Package scenarios holds the concrete flows the suite runs against the
// practice target. Expected notices and paths are the target's observable
// contract; the fixture site implements the same strings.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"uiprobe/internal/adapter/pages"
	"uiprobe/internal/application/port/input"
	"uiprobe/internal/application/service"
	"uiprobe/internal/domain/entity"
)

const (
	noticeRegistered = "You have successfully registered!"
	noticeLoggedIn   = "You logged into a secure area!"
	noticeLoggedOut  = "You logged out of the secure area!"
	noticeMustLogin  = "You must login to view the secure area!"
	noticeUploaded   = "File Uploaded!"

	assertTimeout = 5 * time.Second

	// minimum plausible size for the canned download fixture
	minDownloadBytes = 64
)

// Suite returns every scenario in a stable order.
func Suite(fixturesDir string) []input.Scenario {
	return []input.Scenario{
		AuthRoundTrip(),
		DownloadTransfer(),
		UploadFile(fixturesDir),
		TableExtraction(),
		MultiWindow(),
		IframeContent(),
		DragAndDropSwap(),
	}
}

// AuthRoundTrip: register a unique identity, log in with it, log out again,
// then confirm the protected surface denies direct access afterwards.
func AuthRoundTrip() input.Scenario {
	return input.Scenario{
		Name: "auth round trip",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			auth := pages.NewAuthPage(env.Surface)
			creds := pages.FreshCredentials()

			if err := auth.OpenRegister(ctx); err != nil {
				return err
			}
			if err := auth.Register(ctx, creds); err != nil {
				return err
			}
			if err := flashContains(ctx, auth, noticeRegistered); err != nil {
				return err
			}
			if !auth.AtLogin() {
				return &entity.AssertionFailure{What: "post-register surface", Want: "/login", Got: env.Surface.CurrentURL()}
			}

			if err := auth.Login(ctx, creds); err != nil {
				return err
			}
			if err := flashContains(ctx, auth, noticeLoggedIn); err != nil {
				return err
			}
			atSecure, err := auth.AtSecureArea(ctx)
			if err != nil {
				return err
			}
			if !atSecure {
				return &entity.AssertionFailure{What: "post-login surface", Want: "secure area", Got: env.Surface.CurrentURL()}
			}

			if err := auth.Logout(ctx); err != nil {
				return err
			}
			if err := flashContains(ctx, auth, noticeLoggedOut); err != nil {
				return err
			}
			if !auth.AtLogin() {
				return &entity.AssertionFailure{What: "post-logout surface", Want: "/login", Got: env.Surface.CurrentURL()}
			}

			// Access denial after logout.
			if err := auth.OpenSecure(ctx); err != nil {
				return err
			}
			if err := service.URLContains(ctx, env.Surface, "/login", assertTimeout); err != nil {
				return err
			}
			return flashContains(ctx, auth, noticeMustLogin)
		},
	}
}

// DownloadTransfer: the download subscription is active before the link is
// clicked; the resolved event carries a name, a source URL and a real file.
func DownloadTransfer() input.Scenario {
	return input.Scenario{
		Name: "file download",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			transfer := pages.NewFileTransferPage(env.Surface)
			if err := transfer.OpenDownload(ctx); err != nil {
				return err
			}

			ev, err := transfer.Download(ctx, "sample.txt")
			if err != nil {
				return err
			}
			if ev.Download == nil || ev.Download.SuggestedName == "" {
				return &entity.AssertionFailure{What: "download suggested name", Want: "non-empty", Got: fmt.Sprintf("%+v", ev.Download)}
			}
			if !strings.Contains(ev.URL, "/download/") {
				return &entity.AssertionFailure{What: "download url", Want: "containing /download/", Got: ev.URL}
			}

			fi, err := os.Stat(ev.Download.Path)
			if err != nil {
				return fmt.Errorf("downloaded artifact missing: %w", err)
			}
			if fi.Size() < minDownloadBytes {
				return &entity.AssertionFailure{
					What: "artifact size",
					Want: fmt.Sprintf(">= %d bytes", minDownloadBytes),
					Got:  fmt.Sprintf("%d bytes", fi.Size()),
				}
			}
			return nil
		},
	}
}

// UploadFile: attach a generated file and confirm the target echoes its name.
func UploadFile(fixturesDir string) input.Scenario {
	return input.Scenario{
		Name: "file upload",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			dir := fixturesDir
			if dir == "" {
				dir = os.TempDir()
			}
			path := filepath.Join(dir, "upload-probe.txt")
			if err := os.WriteFile(path, []byte("uiprobe upload fixture\n"), 0o644); err != nil {
				return fmt.Errorf("write upload fixture: %w", err)
			}
			defer os.Remove(path)

			transfer := pages.NewFileTransferPage(env.Surface)
			if err := transfer.OpenUpload(ctx); err != nil {
				return err
			}
			if err := transfer.Upload(ctx, path); err != nil {
				return err
			}

			notice, err := transfer.UploadNotice(ctx)
			if err != nil {
				return err
			}
			if notice != noticeUploaded {
				return &entity.AssertionFailure{What: "upload notice", Want: noticeUploaded, Got: notice}
			}
			name, err := transfer.UploadedName(ctx)
			if err != nil {
				return err
			}
			if name != filepath.Base(path) {
				return &entity.AssertionFailure{What: "uploaded name", Want: filepath.Base(path), Got: name}
			}
			return nil
		},
	}
}

// TableExtraction exercises the collection reader, collecting independent
// failures softly before judging the scenario.
func TableExtraction() input.Scenario {
	return input.Scenario{
		Name: "table extraction",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			tables := pages.NewTablesPage(env.Surface)
			if err := tables.Open(ctx); err != nil {
				return err
			}

			var soft service.Soft

			count, err := tables.Customers().RowCount(ctx)
			if err != nil {
				return err
			}
			if count != 4 {
				soft.Check(&entity.AssertionFailure{What: "customer rows", Want: "4", Got: fmt.Sprint(count)})
			}

			due, found, err := tables.DueOf(ctx, "Doe")
			if err != nil {
				return err
			}
			if !found || due != "$100.00" {
				soft.Check(&entity.AssertionFailure{What: "due of Doe", Want: "$100.00", Got: due})
			}

			missing, err := tables.Customers().Find(ctx, func(cells []string) bool {
				return len(cells) > 0 && cells[0] == "Nobody"
			})
			if err != nil {
				return err
			}
			if missing != service.RowNotFound {
				soft.Check(&entity.AssertionFailure{What: "absent row", Want: "not-found sentinel", Got: fmt.Sprint(missing)})
			}

			empty, err := tables.Empty().RowCount(ctx)
			if err != nil {
				return err
			}
			if empty != 0 {
				soft.Check(&entity.AssertionFailure{What: "empty table rows", Want: "0", Got: fmt.Sprint(empty)})
			}

			// Re-sorting mutates the structure; a row index read before the
			// sort points at different content afterwards, so every read
			// below goes through a fresh snapshot.
			firstBefore, err := tables.Customers().CellText(ctx, 0, 0)
			if err != nil {
				return err
			}
			if firstBefore != "Smith" {
				soft.Check(&entity.AssertionFailure{What: "first row before sort", Want: "Smith", Got: firstBefore})
			}
			if err := tables.SortCustomersBy(ctx, 0); err != nil {
				return err
			}
			firstAfter, err := tables.Customers().CellText(ctx, 0, 0)
			if err != nil {
				return err
			}
			if firstAfter != "Bach" {
				soft.Check(&entity.AssertionFailure{What: "first row after sort", Want: "Bach", Got: firstAfter})
			}

			return soft.Err()
		},
	}
}

// MultiWindow: the surface-opened listener is registered before the click;
// the secondary surface is read and explicitly closed before teardown.
func MultiWindow() input.Scenario {
	return input.Scenario{
		Name: "multi window",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			windows := pages.NewWindowsPage(env.Session, env.Surface)
			if err := windows.Open(ctx); err != nil {
				return err
			}

			opened, err := windows.OpenNewWindow(ctx)
			if err != nil {
				return err
			}
			title, err := windows.NewWindowTitle(ctx, opened)
			if err != nil {
				return err
			}
			if !strings.Contains(title, "New Window") {
				return &entity.AssertionFailure{What: "new window title", Want: "New Window", Got: title}
			}
			return opened.Close()
		},
	}
}

func IframeContent() input.Scenario {
	return input.Scenario{
		Name: "iframe content",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			frames := pages.NewFramesPage(env.Surface)
			if err := frames.Open(ctx); err != nil {
				return err
			}
			text, err := frames.FrameText(ctx)
			if err != nil {
				return err
			}
			if !strings.Contains(text, "Your content goes here.") {
				return &entity.AssertionFailure{What: "frame text", Want: "Your content goes here.", Got: text}
			}
			return nil
		},
	}
}

// DragAndDropSwap probes the target's swap contract: A onto B swaps slot
// content, repeating the same drop changes nothing, the inverse restores the
// original, and a self-drop is a no-op.
func DragAndDropSwap() input.Scenario {
	return input.Scenario{
		Name: "drag and drop swap",
		Run: func(ctx context.Context, env input.ScenarioEnv) error {
			dnd := pages.NewDragDropPage(env.Surface)
			if err := dnd.Open(ctx); err != nil {
				return err
			}

			origA, origB, err := dnd.SlotTexts(ctx)
			if err != nil {
				return err
			}

			expect := func(step, wantA, wantB string) error {
				a, b, err := dnd.SlotTexts(ctx)
				if err != nil {
					return err
				}
				if a != wantA || b != wantB {
					return &entity.AssertionFailure{
						What: step,
						Want: fmt.Sprintf("slots %q/%q", wantA, wantB),
						Got:  fmt.Sprintf("slots %q/%q", a, b),
					}
				}
				return nil
			}

			if err := dnd.DragAOntoB(ctx); err != nil {
				return err
			}
			if err := expect("after A onto B", origB, origA); err != nil {
				return err
			}

			// Identical drop on the already-swapped pair.
			if err := dnd.DragAOntoB(ctx); err != nil {
				return err
			}
			if err := expect("after repeated A onto B", origB, origA); err != nil {
				return err
			}

			// The inverse restores the original pair exactly.
			if err := dnd.DragBOntoA(ctx); err != nil {
				return err
			}
			if err := expect("after B onto A", origA, origB); err != nil {
				return err
			}

			if err := dnd.DragAOntoA(ctx); err != nil {
				return err
			}
			return expect("after self drop", origA, origB)
		},
	}
}

func flashContains(ctx context.Context, auth *pages.AuthPage, want string) error {
	var got string
	err := service.Eventually(ctx, "flash notice", assertTimeout, func(ctx context.Context) (bool, error) {
		text, err := auth.Flash(ctx)
		if err != nil {
			return false, nil // notice may not be rendered yet
		}
		got = text
		return strings.Contains(text, want), nil
	})
	var to *entity.TimeoutError
	if errors.As(err, &to) {
		return &entity.AssertionFailure{What: "flash notice", Want: want, Got: got}
	}
	return err
}
