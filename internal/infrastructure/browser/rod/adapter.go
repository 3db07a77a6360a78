package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

var (
	_ output.SessionFactoryPort = (*SessionFactory)(nil)
	_ output.SessionPort        = (*Session)(nil)
)

var ErrInvalidURL = errors.New("invalid url")

const (
	defaultTimeout      = 10 * time.Second
	defaultEventTimeout = 15 * time.Second
)

type Config struct {
	BaseURL      string
	Headless     bool
	SlowMotion   time.Duration
	Timeout      time.Duration // per locate-and-act
	EventTimeout time.Duration // per async event subscription
	NoSandbox    bool
	DevTools     bool
	Trace        bool
}

func DefaultConfig() Config {
	return Config{
		Headless:     true,
		SlowMotion:   0,
		Timeout:      defaultTimeout,
		EventTimeout: defaultEventTimeout,
		NoSandbox:    false,
		DevTools:     false,
	}
}

// SessionFactory launches one isolated browser per session, so parallel
// scenarios cannot observe each other's surfaces, cookies or events.
type SessionFactory struct {
	cfg Config
	log output.LoggerPort
}

func NewSessionFactory(cfg Config, log output.LoggerPort) *SessionFactory {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.EventTimeout <= 0 {
		cfg.EventTimeout = defaultEventTimeout
	}
	return &SessionFactory{cfg: cfg, log: log}
}

func (f *SessionFactory) NewSession(ctx context.Context) (output.SessionPort, error) {
	l := launcher.New().
		Headless(f.cfg.Headless).
		Devtools(f.cfg.DevTools).
		NoSandbox(f.cfg.NoSandbox).
		Delete("use-mock-keychain")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		Trace(f.cfg.Trace).
		SlowMotion(f.cfg.SlowMotion)

	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	downloadDir, err := os.MkdirTemp("", "uiprobe-downloads-*")
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("create page: %w", err)
	}

	s := &Session{
		cfg:         f.cfg,
		log:         f.log,
		browser:     browser,
		launcher:    l,
		downloadDir: downloadDir,
		opened:      make(map[string]*rod.Page),
	}
	s.primary = newSurface(s, page)
	return s, nil
}

// Session owns one browser process, its primary surface, any secondary
// surfaces opened during the scenario, and the transient download storage.
type Session struct {
	cfg         Config
	log         output.LoggerPort
	browser     *rod.Browser
	launcher    *launcher.Launcher
	downloadDir string
	primary     *Surface

	mu        sync.Mutex
	secondary []output.SurfacePort
	opened    map[string]*rod.Page // surface-opened payloads by target id
	closed    bool
}

func (s *Session) Surface() output.SurfacePort { return s.primary }

func (s *Session) DownloadDir() string { return s.downloadDir }

func (s *Session) Adopt(surf output.SurfacePort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondary = append(s.secondary, surf)
}

func (s *Session) rememberOpened(id string, page *rod.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened[id] = page
}

// Resolve turns a surface-opened event payload into a usable surface,
// adopted for teardown.
func (s *Session) Resolve(ctx context.Context, ev *entity.AsyncEvent) (output.SurfacePort, error) {
	if ev == nil || ev.Kind != entity.EventSurfaceOpened {
		return nil, fmt.Errorf("cannot resolve surface from %v event", ev)
	}

	s.mu.Lock()
	page := s.opened[ev.SurfaceID]
	s.mu.Unlock()

	if page == nil {
		pages, err := s.browser.Pages()
		if err != nil {
			return nil, fmt.Errorf("list surfaces: %w", err)
		}
		for _, p := range pages {
			if string(p.TargetID) == ev.SurfaceID {
				page = p
				break
			}
		}
	}
	if page == nil {
		return nil, fmt.Errorf("surface %q not found", ev.SurfaceID)
	}

	surf := newSurface(s, page.Context(ctx))
	s.Adopt(surf)
	return surf, nil
}

// Close tears the whole session down: secondary surfaces first, then the
// browser and its process. Transient downloads are forfeit here.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	secondary := s.secondary
	s.mu.Unlock()

	for _, surf := range secondary {
		if err := surf.Close(); err != nil && s.log != nil {
			s.log.Warn("failed to close secondary surface", "error", err)
		}
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	if s.downloadDir != "" {
		_ = os.RemoveAll(s.downloadDir)
	}
	return nil
}

// resolveURL joins a relative path onto the configured base address.
func (s *Session) resolveURL(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if _, err := url.Parse(path); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidURL, path)
		}
		return path, nil
	}
	if strings.Contains(path, "://") || strings.HasPrefix(path, "javascript:") {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, path)
	}
	if s.cfg.BaseURL == "" {
		return "", fmt.Errorf("%w: relative path %q without base url", ErrInvalidURL, path)
	}
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: base %q", ErrInvalidURL, s.cfg.BaseURL)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, path)
	}
	return base.ResolveReference(ref).String(), nil
}
