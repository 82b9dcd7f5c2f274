package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/reedfamily/a2sbot/internal/errs"
	"github.com/reedfamily/a2sbot/internal/format"
	"github.com/reedfamily/a2sbot/internal/query"
)

const (
	cardNameWidth   = 20
	cardServerWidth = 30
)

//go:embed templates/status.html.tmpl
var templateFS embed.FS

var statusTmpl = template.Must(template.ParseFS(templateFS, "templates/status.html.tmpl"))

// Renderer fills the status card template and screenshots it with a
// headless browser.
type Renderer struct {
	cfg      Config
	launcher Launcher
	pick     func(n int) int
}

func New(cfg Config, launcher Launcher) *Renderer {
	return &Renderer{
		cfg:      cfg.clone(),
		launcher: launcher,
		pick:     rand.IntN,
	}
}

type playerRow struct {
	Rank     int
	Name     string
	Score    int64
	Duration string
}

type cardView struct {
	TitleFont  template.URL
	TextFont   template.URL
	Background template.URL
	Blur       int
	Overlay    template.CSS
	Accent     template.CSS
	TitleColor template.CSS
	ServerName string
	Address    string
	Ping       string
	Info       query.ServerInfo
	Platform   platformLabel
	Rows       []playerRow
	BotName    string
	Host       string
}

// Background picks one configured source uniformly and resolves it.
func (r *Renderer) Background() string {
	if len(r.cfg.Backgrounds) == 0 {
		return PlaceholderBackground
	}
	src := r.cfg.Backgrounds[r.pick(len(r.cfg.Backgrounds))]
	return resolveBackground(src, r.pick)
}

// HTML builds the complete status card document for snap.
func (r *Renderer) HTML(snap *query.Snapshot) (string, error) {
	view := cardView{
		TitleFont:  assetURL(r.cfg.TitleFont),
		TextFont:   assetURL(r.cfg.TextFont),
		Background: assetURL(r.Background()),
		Blur:       r.cfg.BackgroundBlur,
		Overlay:    template.CSS(cssColor(r.cfg.BackgroundColor)),
		Accent:     template.CSS(RGBAToHex(r.cfg.DashboardColor1)),
		TitleColor: template.CSS(RGBAToHex(r.cfg.DashboardColor2)),
		ServerName: query.Truncate(snap.Info.Name, cardServerWidth),
		Address:    snap.Address.String(),
		Ping:       format.PingMillis(snap.Info),
		Info:       snap.Info,
		Platform:   platformOf(snap.Info.Platform),
		BotName:    r.cfg.BotName,
		Host:       runtime.GOOS + " " + runtime.GOARCH,
	}
	for i, p := range query.SortedPlayers(snap.Players) {
		view.Rows = append(view.Rows, playerRow{
			Rank:     i + 1,
			Name:     p.DisplayName(cardNameWidth),
			Score:    p.Score,
			Duration: format.Duration(p.Duration),
		})
	}

	var buf bytes.Buffer
	if err := statusTmpl.Execute(&buf, view); err != nil {
		return "", errs.Wrap(errs.Rendering, "build status card", err)
	}
	return buf.String(), nil
}

// Render writes the status card for snap to output as a PNG. The HTML source
// is written to a per-render file next to it and removed afterwards.
func (r *Renderer) Render(ctx context.Context, snap *query.Snapshot, output string) error {
	doc, err := r.HTML(snap)
	if err != nil {
		return err
	}

	output, err = filepath.Abs(output)
	if err != nil {
		return errs.Wrap(errs.Rendering, "resolve output path", err)
	}
	htmlPath := cardPath(output)
	if err := os.WriteFile(htmlPath, []byte(doc), 0644); err != nil {
		return errs.Wrap(errs.Rendering, "write status card", err)
	}
	defer os.Remove(htmlPath)

	png, err := r.capture(ctx, fileURL(htmlPath), r.cfg.CardSelector)
	if err != nil {
		return errs.Wrap(errs.Rendering, "screenshot status card", err)
	}
	if err := os.WriteFile(output, png, 0644); err != nil {
		return errs.Wrap(errs.Rendering, "write image", err)
	}
	return nil
}

// RenderURL writes a full-page screenshot of pageURL to output.
func (r *Renderer) RenderURL(ctx context.Context, pageURL, output string) error {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" {
		return errs.Newf(errs.InvalidInput, "invalid url %q", pageURL)
	}

	png, err := r.capture(ctx, u.String(), "")
	if err != nil {
		return errs.Wrap(errs.Rendering, "screenshot "+u.Redacted(), err)
	}
	if err := os.WriteFile(output, png, 0644); err != nil {
		return errs.Wrap(errs.Rendering, "write image", err)
	}
	return nil
}

// cardPath names the HTML source of one render of output.
func cardPath(output string) string {
	base := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	return filepath.Join(filepath.Dir(output), base+"-"+uuid.NewString()+".html")
}

func (r *Renderer) capture(ctx context.Context, pageURL, selector string) ([]byte, error) {
	if r.launcher == nil {
		return nil, fmt.Errorf("no browser launcher configured")
	}
	allocCtx, release, err := r.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer release()
	return screenshot(allocCtx, pageURL, selector, r.cfg.Width, r.cfg.Height)
}

// assetURL turns local paths into file URLs so they load from a document
// opened anywhere on disk. References come from operator configuration.
func assetURL(ref string) template.URL {
	if ref == "" || strings.Contains(ref, "://") {
		return template.URL(ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return template.URL(ref)
	}
	return template.URL(fileURL(abs))
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// cssColor keeps rgba()/hex colors and drops anything else.
func cssColor(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb(") {
		if !strings.ContainsAny(s, ";{}<>") {
			return s
		}
	}
	return RGBAToHex(s)
}
