package pythontorust

import (
	"context"
	"crypto/subtle"
	"fmt"
	"html"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
)

// Server is the local preview server. It builds the site once, serves
// the output directory, and rebuilds when content or assets change.
// When a preview password is configured, drafts are built too but only
// served to an authenticated session.
type Server struct {
	app     *App
	echo    *echo.Echo
	limiter *loginLimiter
	sites   *siteCache

	mu     sync.RWMutex
	drafts map[string]struct{}
}

// NewServer creates a preview server for the app.
func NewServer(app *App) *Server {
	return &Server{
		app:     app,
		echo:    echo.New(),
		limiter: newLoginLimiter(5, time.Minute),
		sites:   newSiteCache(app.loadSite),
		drafts:  make(map[string]struct{}),
	}
}

// Start performs the initial build, begins watching for changes, and
// serves until the listener fails or the process exits.
func (s *Server) Start(ctx context.Context) error {
	// Build drafts in preview mode; the draft gate keeps them hidden
	// until the session is unlocked.
	if s.app.Config.PreviewPassword != "" {
		s.app.IncludeDrafts = true
	}

	if err := s.rebuild(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	e := s.echo
	e.HideBanner = true
	e.HTTPErrorHandler = s.httpErrorHandler
	s.setupMiddleware()
	s.setupRoutes()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := s.watchTree(watcher, s.app.Config.ContentDir); err != nil {
		return err
	}
	if err := s.watchTree(watcher, s.app.Config.StaticDir); err != nil {
		return err
	}
	go s.watch(ctx, watcher)

	log.Printf("serving %s on http://localhost%s", s.app.Config.OutputDir, s.app.Config.Addr)
	if err := e.Start(s.app.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) setupRoutes() {
	e := s.echo

	if s.app.Config.PreviewPassword != "" {
		e.GET("/preview/", s.handlePreview)
		e.POST("/preview/login/", s.handlePreviewLogin)
		e.POST("/preview/logout/", s.handlePreviewLogout)
	}

	e.Static("/", s.app.Config.OutputDir)
}

// rebuild reloads the site snapshot, renders it, and refreshes the set
// of draft permalinks the gate middleware consults.
func (s *Server) rebuild(ctx context.Context) error {
	s.sites.Invalidate()
	site, err := s.sites.Get()
	if err != nil {
		return err
	}
	res, err := s.app.BuildSite(ctx, site)
	if err != nil {
		return err
	}
	if err := s.app.pruneCache(site); err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts = res.Drafts
	s.mu.Unlock()
	return nil
}

func (s *Server) isDraftPath(p string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.drafts[p]
	return ok
}

// watch rebuilds the site when files under the watched trees change.
// Events are debounced so editors that write multiple times per save
// trigger one rebuild.
func (s *Server) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	const debounce = 500 * time.Millisecond
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("watch %s: %v", event.Name, err)
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				log.Printf("change detected (%s), rebuilding", event.Name)
				if err := s.rebuild(ctx); err != nil {
					log.Printf("rebuild failed: %v", err)
					return
				}
				log.Println("site rebuilt")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// watchTree registers every directory under root with the watcher.
// fsnotify watches are not recursive.
func (s *Server) watchTree(watcher *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
		}
		return nil
	})
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, s.app.Views.NotFound(s.app.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	s.echo.DefaultHTTPErrorHandler(err, c)
}

func (s *Server) handlePreview(c echo.Context) error {
	if !isPreview(c) {
		return c.HTML(http.StatusOK, previewPage("Enter the preview password to see drafts.", "login", nil))
	}
	site, err := s.sites.Get()
	if err != nil {
		return err
	}
	var drafts []*Page
	for _, p := range site.Pages {
		if p.Draft {
			drafts = append(drafts, p)
		}
	}
	return c.HTML(http.StatusOK, previewPage("Draft preview is on.", "logout", drafts))
}

func (s *Server) handlePreviewLogin(c echo.Context) error {
	if !s.limiter.check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(s.app.Config.PreviewPassword)) != 1 {
		s.limiter.record(c.RealIP())
		return c.HTML(http.StatusOK, previewPage("Wrong password.", "login", nil))
	}
	if err := setPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/preview/")
}

func (s *Server) handlePreviewLogout(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/preview/")
}

func previewPage(msg, action string, drafts []*Page) string {
	form := `<form method="POST" action="/preview/login/"><input type="password" name="password"><button>Unlock</button></form>`
	if action == "logout" {
		form = `<form method="POST" action="/preview/logout/"><button>Lock</button></form>`
	}
	var list strings.Builder
	if len(drafts) > 0 {
		list.WriteString("<ul>")
		for _, p := range drafts {
			fmt.Fprintf(&list, `<li><a href="%s">%s</a></li>`,
				html.EscapeString(p.Permalink), html.EscapeString(p.Title))
		}
		list.WriteString("</ul>")
	}
	return `<!DOCTYPE html><html><body><p>` + msg + `</p>` + list.String() + form + `</body></html>`
}
