// Package content serves the static informational pages.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var pagesYAML []byte

type Section struct {
	Heading string   `yaml:"heading"`
	Body    []string `yaml:"body"`
	Items   []string `yaml:"items"`
}

type Page struct {
	Slug     string    `yaml:"slug"`
	Title    string    `yaml:"title"`
	Updated  string    `yaml:"updated"`
	Intro    string    `yaml:"intro"`
	Sections []Section `yaml:"sections"`
}

type Library struct {
	pages map[string]Page
	order []string
}

// Parse decodes a pages document. Slugs must be unique and non-empty.
func Parse(data []byte) (*Library, error) {
	var doc struct {
		Pages []Page `yaml:"pages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pages: %w", err)
	}

	lib := &Library{pages: make(map[string]Page, len(doc.Pages))}
	for _, p := range doc.Pages {
		if p.Slug == "" || p.Title == "" {
			return nil, fmt.Errorf("page %q is missing a slug or title", p.Title)
		}
		if _, dup := lib.pages[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate page slug %q", p.Slug)
		}
		lib.pages[p.Slug] = p
		lib.order = append(lib.order, p.Slug)
	}
	return lib, nil
}

// Default returns the pages compiled into the binary.
func Default() (*Library, error) {
	return Parse(pagesYAML)
}

func (l *Library) Page(slug string) (Page, bool) {
	p, ok := l.pages[slug]
	return p, ok
}

// Slugs lists pages in document order.
func (l *Library) Slugs() []string {
	return append([]string(nil), l.order...)
}
