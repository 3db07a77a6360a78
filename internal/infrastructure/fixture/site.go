// Package fixture is a self-contained practice site: a deterministic target
// for driver, page-object and scenario tests. It stands in for the external
// site a real suite would point at.
package fixture

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/google/uuid"
)

const (
	sessionCookie = "uiprobe_session"
	flashCookie   = "uiprobe_flash"
)

type Server struct {
	handler http.Handler

	mu       sync.Mutex
	users    map[string]string // username -> password
	sessions map[string]string // session id -> username
	files    map[string][]byte // downloadable artifacts
}

type Options struct {
	// FixturesDir, when set, seeds the download area with its files.
	FixturesDir string
	// Quiet disables request logging (unit tests).
	Quiet bool
}

func New(opts Options) *Server {
	s := &Server{
		users:    map[string]string{SeededUsername: SeededPassword},
		sessions: make(map[string]string),
		files: map[string][]byte{
			"sample.txt": []byte(strings.Repeat("uiprobe fixture payload\n", 64)),
			"report.csv": []byte("name,points\nalpha,10\nbeta,3\n"),
		},
	}
	s.seedFixtures(opts.FixturesDir)

	r := chi.NewRouter()
	if !opts.Quiet {
		lg := httplog.NewLogger("fixture", httplog.Options{Concise: true})
		r.Use(httplog.RequestLogger(lg))
	}

	r.Get("/", s.handleIndex)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/secure", s.handleSecure)
	r.Get("/logout", s.handleLogout)
	r.Get("/upload", s.handleUploadForm)
	r.Post("/upload", s.handleUpload)
	r.Get("/download", s.handleDownloadList)
	r.Get("/download/{name}", s.handleDownload)
	r.Get("/tables", s.render(tablesTmpl, "Data Tables"))
	r.Get("/windows", s.render(windowsTmpl, "Multiple Windows"))
	r.Get("/windows/new", s.render(newWindowTmpl, "New Window"))
	r.Get("/iframe", s.render(iframeTmpl, "Iframe"))
	r.Get("/iframe/content", s.render(iframeContentTmpl, "Frame Content"))
	r.Get("/dragdrop", s.render(dragdropTmpl, "Drag and Drop"))

	s.handler = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) seedFixtures(dir string) {
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err == nil {
			s.files[e.Name()] = data
		}
	}
}

var (
	indexTmpl         = mustPage(indexBody)
	loginTmpl         = mustPage(loginBody)
	registerTmpl      = mustPage(registerBody)
	secureTmpl        = mustPage(secureBody)
	uploadTmpl        = mustPage(uploadBody)
	uploadedTmpl      = mustPage(uploadedBody)
	downloadTmpl      = mustPage(downloadBody)
	tablesTmpl        = mustPage(tablesBody)
	windowsTmpl       = mustPage(windowsBody)
	newWindowTmpl     = mustPage(newWindowBody)
	iframeTmpl        = mustPage(iframeBody)
	iframeContentTmpl = mustPage(iframeContentBody)
	dragdropTmpl      = mustPage(dragdropBody)
)

func mustPage(body string) *template.Template {
	return template.Must(template.Must(template.New("layout").Parse(layoutHTML)).Parse(body))
}

type pageData struct {
	Title      string
	Flash      string
	FlashClass string
	User       string
	Uploaded   string
	Files      []string
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data pageData) {
	data.Flash, data.FlashClass = takeFlash(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) render(tmpl *template.Template, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, tmpl, pageData{Title: title})
	}
}

func setFlash(w http.ResponseWriter, class, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(class + "|" + msg),
		Path:  "/",
	})
}

func takeFlash(w http.ResponseWriter, r *http.Request) (msg, class string) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", ""
	}
	class, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return raw, ""
	}
	return msg, class
}

func (s *Server) currentUser(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[c.Value]
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, indexTmpl, pageData{Title: "UI Probe Practice Site"})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, loginTmpl, pageData{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	s.mu.Lock()
	stored, known := s.users[username]
	s.mu.Unlock()

	if !known {
		setFlash(w, "error", NoticeBadUsername)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if stored != password {
		setFlash(w, "error", NoticeBadPassword)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = username
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
	setFlash(w, "success", NoticeLoggedIn)
	http.Redirect(w, r, "/secure", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, registerTmpl, pageData{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	fail := func(msg string) {
		setFlash(w, "error", msg)
		http.Redirect(w, r, "/register", http.StatusFound)
	}
	if username == "" || password == "" {
		fail("Username and password are required.")
		return
	}
	if password != confirm {
		fail("Passwords do not match.")
		return
	}

	s.mu.Lock()
	_, taken := s.users[username]
	if !taken {
		s.users[username] = password
	}
	s.mu.Unlock()
	if taken {
		fail("That username is already taken.")
		return
	}

	setFlash(w, "success", NoticeRegistered)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleSecure(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == "" {
		setFlash(w, "error", NoticeMustLogin)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	s.renderPage(w, r, secureTmpl, pageData{Title: "Secure Area", User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	setFlash(w, "success", NoticeLoggedOut)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, uploadTmpl, pageData{Title: "File Upload"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if _, err := io.Copy(io.Discard, file); err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, uploadedTmpl, pageData{
		Title:    "File Uploaded",
		Uploaded: filepath.Base(header.Filename),
	})
}

func (s *Server) handleDownloadList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)
	s.renderPage(w, r, downloadTmpl, pageData{Title: "File Download", Files: names})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	data, ok := s.files[name]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
