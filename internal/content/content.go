// Package content loads the blog and artifact collections from markdown files
// with YAML front matter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrSchema marks front matter that does not satisfy a collection schema.
var ErrSchema = errors.New("schema violation")

// SchemaError lists everything wrong with one file's front matter.
type SchemaError struct {
	File     string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
}

// Post is an entry of the blog collection.
type Post struct {
	Slug        string    `yaml:"-"`
	Title       string    `yaml:"title"`
	Date        string    `yaml:"date"`
	Image       string    `yaml:"image"`
	Description string    `yaml:"description"`
	Published   time.Time `yaml:"-"`
	Body        []byte    `yaml:"-"`
}

func (p *Post) check() []string {
	problems := required(map[string]string{
		"title":       p.Title,
		"date":        p.Date,
		"image":       p.Image,
		"description": p.Description,
	})
	return append(problems, parseDate(p.Date, &p.Published)...)
}

// Artifact is an entry of the artifacts collection. Demo and GitHub are
// optional links.
type Artifact struct {
	Slug        string    `yaml:"-"`
	Title       string    `yaml:"title"`
	Date        string    `yaml:"date"`
	Description string    `yaml:"description"`
	Demo        string    `yaml:"demo"`
	GitHub      string    `yaml:"github"`
	Published   time.Time `yaml:"-"`
	Body        []byte    `yaml:"-"`
}

func (a *Artifact) check() []string {
	problems := required(map[string]string{
		"title":       a.Title,
		"date":        a.Date,
		"description": a.Description,
	})
	return append(problems, parseDate(a.Date, &a.Published)...)
}

// LoadPosts reads every post in dir, newest first.
func LoadPosts(dir string) ([]Post, []string, error) {
	posts, warns, err := loadDir(dir, func(slug string, meta, body []byte) (Post, []string, error) {
		var p Post
		if err := yaml.Unmarshal(meta, &p); err != nil {
			return p, nil, err
		}
		p.Slug, p.Body = slug, body
		return p, p.check(), nil
	})
	sort.Slice(posts, func(i, j int) bool { return posts[i].Published.After(posts[j].Published) })
	return posts, warns, err
}

// LoadArtifacts reads every artifact in dir, newest first.
func LoadArtifacts(dir string) ([]Artifact, []string, error) {
	arts, warns, err := loadDir(dir, func(slug string, meta, body []byte) (Artifact, []string, error) {
		var a Artifact
		if err := yaml.Unmarshal(meta, &a); err != nil {
			return a, nil, err
		}
		a.Slug, a.Body = slug, body
		return a, a.check(), nil
	})
	sort.Slice(arts, func(i, j int) bool { return arts[i].Published.After(arts[j].Published) })
	return arts, warns, err
}

type parseFunc[T any] func(slug string, meta, body []byte) (T, []string, error)

// loadDir parses each markdown file in dir. A missing directory is an empty
// collection; problems in individual files are joined into one error.
func loadDir[T any](dir string, parse parseFunc[T]) ([]T, []string, error) {
	var out []T
	var warns []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			warns = append(warns, fmt.Sprintf("collection directory %s does not exist", dir))
			return out, warns, nil
		}
		return nil, nil, fmt.Errorf("read collection %s: %w", dir, err)
	}

	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".md" {
			continue
		}
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		meta, body, err := SplitFrontMatter(src)
		if err != nil {
			errs = append(errs, &SchemaError{File: path, Problems: []string{err.Error()}})
			continue
		}
		entry, problems, err := parse(strings.TrimSuffix(name, ".md"), meta, body)
		if err != nil {
			errs = append(errs, &SchemaError{File: path, Problems: []string{"invalid front matter: " + err.Error()}})
			continue
		}
		if len(problems) > 0 {
			errs = append(errs, &SchemaError{File: path, Problems: problems})
			continue
		}
		out = append(out, entry)
	}
	return out, warns, errors.Join(errs...)
}

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body.
func SplitFrontMatter(src []byte) (meta, body []byte, err error) {
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(src, []byte("---\n")) {
		return nil, nil, errors.New("missing front matter")
	}
	rest := src[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		return nil, bytes.TrimPrefix(rest[3:], []byte("\n")), nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, errors.New("unterminated front matter")
	}
	meta = rest[:end+1]
	body = rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return meta, body, nil
}

func required(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, fmt.Sprintf("%s is required", name))
		}
	}
	sort.Strings(missing)
	return missing
}

func parseDate(value string, into *time.Time) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			*into = t
			return nil
		}
	}
	return []string{fmt.Sprintf("date %q is not a recognized date", value)}
}
