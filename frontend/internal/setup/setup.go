package setup

import (
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/whimsyboard/whimsy/frontend/internal/apiclient"
	"github.com/whimsyboard/whimsy/frontend/internal/handler"
	"github.com/whimsyboard/whimsy/frontend/internal/imagehost"
	"github.com/whimsyboard/whimsy/frontend/internal/markdown"
	frontend_mw "github.com/whimsyboard/whimsy/frontend/internal/middleware"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	"github.com/whimsyboard/whimsy/shared/config"
	"github.com/whimsyboard/whimsy/shared/logger"
	"github.com/whimsyboard/whimsy/shared/middleware/ratelimiter"
	"github.com/whimsyboard/whimsy/shared/validation"
)

const (
	baseTemplate           = "base.html"
	partialsTemplate       = "partials.html"
	templateReloadInterval = 5 * time.Second
	multipartOverhead      = 1 << 20
)

type Dependencies struct {
	Handler       *handler.Handler
	Auth          *frontend_mw.Auth
	CSRF          frontend_mw.CSRFConfig
	Public        config.Public
	StaticPath    string
	AuthLimiter   *ratelimiter.Limiter
	PageLimiter   *ratelimiter.Limiter
	stopReloader  func()
}

// Close stops background work started by SetupDependencies.
func (d *Dependencies) Close() {
	d.AuthLimiter.Stop()
	d.PageLimiter.Stop()
	if d.stopReloader != nil {
		d.stopReloader()
	}
}

func SetupDependencies(cfg *config.Config, webRoot string) (*Dependencies, error) {
	tmplPath := path.Join(webRoot, "templates")
	templates, err := loadTemplates(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	textProcessor := markdown.New()
	apiClient := apiclient.New(cfg.Public.ApiURL, cfg.Public.RequestTimeout)
	images := imagehost.New(
		cfg.Public.ImageHost.UploadURL,
		cfg.Public.ImageHost.UploadPreset,
		cfg.Public.MaxImageDimension,
		cfg.Public.RequestTimeout,
	)
	sessions := session.New(cfg.Public.SecureCookies, cfg.Public.SessionTTL)

	h := handler.New(templates, cfg.Public, textProcessor, apiClient, images, sessions)

	deps := &Dependencies{
		Handler: h,
		Auth:    frontend_mw.NewAuth(sessions),
		CSRF: frontend_mw.CSRFConfig{
			SecureCookies:    cfg.Public.SecureCookies,
			Key:              cfg.CSRFKey(),
			MaxMultipartSize: validation.CalculateMaxRequestSize(cfg.Public.MaxUploadSize, multipartOverhead),
		},
		Public:        cfg.Public,
		StaticPath:    path.Join(webRoot, "static"),
		AuthLimiter:   ratelimiter.FivePerMinute(),
		PageLimiter:   ratelimiter.PerClientPages(),
	}
	if os.Getenv("ENV") == "development" {
		deps.stopReloader = startTemplateReloader(h, tmplPath)
	}
	return deps, nil
}

func bytesToMB(bytes int64) int64 {
	return bytes / (1024 * 1024)
}

func mimeTypeExtensions(mimeTypes []string) string {
	exts := make([]string, 0, len(mimeTypes))
	for _, mime := range mimeTypes {
		if _, ext, ok := strings.Cut(mime, "/"); ok {
			exts = append(exts, ext)
		}
	}
	return strings.Join(exts, ", ")
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

var funcs = template.FuncMap{
	"dict":               dict,
	"bytesToMB":          bytesToMB,
	"mimeTypeExtensions": mimeTypeExtensions,
	"acceptMimeTypes":    func(mimeTypes []string) string { return strings.Join(mimeTypes, ",") },
}

// loadTemplates parses every page template together with the base layout and
// the shared partials.
func loadTemplates(tmplPath string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	files, err := os.ReadDir(tmplPath)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if filepath.Ext(f.Name()) != ".html" || f.Name() == baseTemplate || f.Name() == partialsTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFiles(
			path.Join(tmplPath, baseTemplate),
			path.Join(tmplPath, f.Name()),
			path.Join(tmplPath, partialsTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", f.Name(), err)
		}
		templates[f.Name()] = tmpl
	}
	return templates, nil
}

func startTemplateReloader(h *handler.Handler, tmplPath string) func() {
	ticker := time.NewTicker(templateReloadInterval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				templates, err := loadTemplates(tmplPath)
				if err != nil {
					logger.Log.Warn("template reload failed", "error", err)
					continue
				}
				h.SetTemplates(templates)
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
