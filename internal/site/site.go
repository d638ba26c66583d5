// Package site renders the static website from the stored dataset and
// digest artifacts. Pure read-only consumer of the store.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"fintechweekly/internal/models"
	"fintechweekly/internal/store"
)

//go:embed templates
var templateFS embed.FS

type Generator struct {
	store   *store.Store
	siteDir string
	tmpl    *template.Template
	now     func() time.Time
}

func NewGenerator(st *store.Store, siteDir string) (*Generator, error) {
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		// Digest summaries arrive as pre-rendered, trusted HTML.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Generator{store: st, siteDir: siteDir, tmpl: tmpl, now: time.Now}, nil
}

type indexData struct {
	News        *models.Dataset
	Digest      *models.Digest
	Weeks       []string
	CurrentWeek string
	GeneratedAt string
}

type archiveData struct {
	News        *models.Dataset
	Digest      *models.Digest
	Week        string
	GeneratedAt string
}

type weekInfo struct {
	Week       string
	FetchDate  string
	TotalCount int
}

type archivesIndexData struct {
	Weeks       []weekInfo
	GeneratedAt string
}

// Generate writes the index page, one archive page per stored week, the
// archive index and the static assets. A missing dataset aborts; a
// missing digest is tolerated.
func (g *Generator) Generate() error {
	latest, err := g.store.LoadDataset("")
	if err != nil {
		return fmt.Errorf("no news data, run fetch first: %w", err)
	}

	digest, err := g.store.LoadDigest("")
	if err != nil {
		log.Printf("No digest available yet: %v", err)
		digest = nil
	}

	weeks, err := g.store.Weeks()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(g.siteDir, "archives"), 0o755); err != nil {
		return err
	}

	generatedAt := g.now().Format("2006-01-02 15:04")

	err = g.render("index.html", filepath.Join(g.siteDir, "index.html"), indexData{
		News:        latest,
		Digest:      digest,
		Weeks:       weeks,
		CurrentWeek: latest.Week,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		return err
	}

	infos := make([]weekInfo, 0, len(weeks))
	for _, week := range weeks {
		ds, err := g.store.LoadDataset(week)
		if err != nil {
			log.Printf("Skipping archive %s: %v", week, err)
			continue
		}
		weekDigest, err := g.store.LoadDigest(week)
		if err != nil {
			weekDigest = nil
		}

		err = g.render("archive.html", filepath.Join(g.siteDir, "archives", week+".html"), archiveData{
			News:        ds,
			Digest:      weekDigest,
			Week:        week,
			GeneratedAt: generatedAt,
		})
		if err != nil {
			return err
		}

		infos = append(infos, weekInfo{Week: week, FetchDate: ds.FetchDate, TotalCount: ds.TotalCount})
	}

	err = g.render("archives_index.html", filepath.Join(g.siteDir, "archives.html"), archivesIndexData{
		Weeks:       infos,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		return err
	}

	return g.copyStatic()
}

func (g *Generator) render(name, outPath string, data any) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := g.tmpl.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func (g *Generator) copyStatic() error {
	css, err := templateFS.ReadFile("templates/static/style.css")
	if err != nil {
		return err
	}
	staticDir := filepath.Join(g.siteDir, "static")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(staticDir, "style.css"), css, 0o644)
}
