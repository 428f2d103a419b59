// Package site generates the static blog: index, post and artifact pages, the
// RSS feed and chart images.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/chartimg"
	"github.com/NicoGrassetto/nico-grassetto-blog/internal/charttheme"
	"github.com/NicoGrassetto/nico-grassetto-blog/internal/config"
	"github.com/NicoGrassetto/nico-grassetto-blog/internal/content"
	"github.com/NicoGrassetto/nico-grassetto-blog/internal/feed"
	"github.com/NicoGrassetto/nico-grassetto-blog/internal/markdown"
)

// Report summarizes one build.
type Report struct {
	Files    int
	Bytes    int64
	Warnings []string
}

func (r *Report) add(path string, size int) {
	r.Files++
	r.Bytes += int64(size)
}

// Generator builds the site described by a Config.
type Generator struct {
	cfg    *config.Config
	logger *log.Logger
}

func New(cfg *config.Config, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Build performs a single site generation.
func (g *Generator) Build() (Report, error) {
	var rep Report
	cfg := g.cfg

	th, err := loadTheme(cfg.ThemeFile)
	if err != nil {
		return rep, fmt.Errorf("unable to load theme: %w", err)
	}
	style := template.CSS(th.css())

	posts, warns, err := content.LoadPosts(filepath.Join(cfg.ContentDir, "blog"))
	rep.Warnings = append(rep.Warnings, warns...)
	if err != nil {
		return rep, fmt.Errorf("load blog collection: %w", err)
	}
	artifacts, warns, err := content.LoadArtifacts(filepath.Join(cfg.ContentDir, "artifacts"))
	rep.Warnings = append(rep.Warnings, warns...)
	if err != nil {
		return rep, fmt.Errorf("load artifacts collection: %w", err)
	}

	if err := os.MkdirAll(cfg.PublicDir, 0755); err != nil {
		return rep, err
	}

	conv := markdown.New(markdown.Options{
		Theme: charttheme.Mode(cfg.Theme),
		Fallback: &chartimg.Writer{
			Dir:       filepath.Join(cfg.PublicDir, "charts"),
			URLPrefix: cfg.Path("/charts"),
			Palette:   charttheme.PaletteFor(cfg.Theme),
			OnWrite:   rep.add,
		},
		Logger: g.logger,
	})

	base := layoutData{
		Lang:      cfg.Language,
		Theme:     charttheme.NewResolver(charttheme.Mode(cfg.Theme)).ActiveTheme(),
		SiteTitle: cfg.Title,
		Home:      cfg.Path("/"),
		FeedURL:   cfg.Path("/feed.xml"),
		Style:     style,
	}

	for _, p := range posts {
		r := conv.Render("blog-"+p.Slug, p.Body)
		page := base
		page.Title = p.Title
		page.Description = p.Description
		page.Charts = r.Charts > 0
		data := postData{Post: p, Image: g.assetURL(p.Image), Content: template.HTML(r.HTML)}
		out := filepath.Join(cfg.PublicDir, "blog", p.Slug, "index.html")
		if err := g.writePage(&rep, out, "post", data, page); err != nil {
			return rep, err
		}
	}

	for _, a := range artifacts {
		r := conv.Render("artifacts-"+a.Slug, a.Body)
		page := base
		page.Title = a.Title
		page.Description = a.Description
		page.Charts = r.Charts > 0
		data := artifactData{Artifact: a, Content: template.HTML(r.HTML)}
		out := filepath.Join(cfg.PublicDir, "artifacts", a.Slug, "index.html")
		if err := g.writePage(&rep, out, "artifact", data, page); err != nil {
			return rep, err
		}
	}

	// index.md is optional; without it the index is just the listings
	indexMD, err := os.ReadFile(filepath.Join(cfg.ContentDir, "index.md"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return rep, err
	}
	intro := conv.Render("index", indexMD)
	page := base
	page.Title = cfg.Title
	if t := markdown.Title(indexMD); t != "" {
		page.Title = t
	}
	page.Description = cfg.Description
	page.Charts = intro.Charts > 0
	index := indexData{Base: cfg.Base, Intro: template.HTML(intro.HTML), Posts: posts, Artifacts: artifacts}
	if err := g.writePage(&rep, filepath.Join(cfg.PublicDir, "index.html"), "index", index, page); err != nil {
		return rep, err
	}

	if err := g.writeFeed(&rep, posts); err != nil {
		return rep, err
	}

	if err := g.copyStatic(&rep); err != nil {
		return rep, err
	}

	rep.Warnings = append(rep.Warnings, g.contrastWarnings()...)
	for _, w := range rep.Warnings {
		g.logger.Warn(w)
	}
	return rep, nil
}

func (g *Generator) writePage(rep *Report, path, name string, data any, page layoutData) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	page.Body = template.HTML(body.String())

	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return writeFile(rep, path, out.Bytes())
}

func (g *Generator) writeFeed(rep *Report, posts []content.Post) error {
	var buf bytes.Buffer
	ch := feed.Channel{
		Title:       g.cfg.Title,
		Link:        g.cfg.SiteURL(),
		Description: g.cfg.Description,
		Language:    g.cfg.Language,
	}
	if err := feed.Write(&buf, ch, feed.FromPosts(g.cfg.SiteURL(), posts)); err != nil {
		return err
	}
	return writeFile(rep, filepath.Join(g.cfg.PublicDir, "feed.xml"), buf.Bytes())
}

// copyStatic mirrors the static directory into the output root.
func (g *Generator) copyStatic(rep *Report) error {
	root := g.cfg.StaticDir
	if root == "" {
		return nil
	}
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(rep, filepath.Join(g.cfg.PublicDir, rel), data)
	})
}

func (g *Generator) contrastWarnings() []string {
	if g.cfg.MinContrast <= 0 {
		return nil
	}
	var warns []string
	for _, name := range charttheme.Themes() {
		if low := charttheme.PaletteFor(name).LowContrast(g.cfg.MinContrast); len(low) > 0 {
			warns = append(warns, fmt.Sprintf("%s chart colors below contrast %g: %s",
				name, g.cfg.MinContrast, strings.Join(low, ", ")))
		}
	}
	return warns
}

// assetURL puts site-absolute asset paths under the base path.
func (g *Generator) assetURL(p string) string {
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") {
		return g.cfg.Path(p)
	}
	return p
}

func writeFile(rep *Report, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	rep.add(path, len(data))
	return nil
}
