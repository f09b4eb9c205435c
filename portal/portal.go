// Package portal holds the static pages of the learning portal and the
// navigation that wraps them.
package portal

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"path"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed content/*.md
var contentFS embed.FS

var ErrPageNotFound = errors.New("page not found")

// NotFoundKey names the page rendered for unknown routes.
const NotFoundKey = "not_found"

// NavItem is one sidebar link.
type NavItem struct {
	Name string
	Href string
}

// Navigation is the fixed sidebar.
var Navigation = []NavItem{
	{Name: "Dashboard", Href: "/dashboard"},
	{Name: "Study Activities", Href: "/study_activities"},
	{Name: "Groups", Href: "/groups"},
	{Name: "Study Sessions", Href: "/study_sessions"},
	{Name: "Vocabulary Generator", Href: "/vocabulary"},
	{Name: "Settings", Href: "/settings"},
}

// Active reports whether the item matches the current request path.
func (n NavItem) Active(current string) bool {
	return n.Href == current
}

// detailPages take an id and map onto the matching list page for navigation.
var detailPages = map[string]string{
	"study_activity": "/study_activities",
	"group":          "/groups",
	"study_session":  "/study_sessions",
}

// Page is a rendered placeholder page.
type Page struct {
	Key   string
	Title string
	Body  template.HTML
}

// Portal renders the embedded markdown pages.
type Portal struct {
	md     goldmark.Markdown
	pages  map[string]string
	titler cases.Caser
}

func New() (*Portal, error) {
	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil, fmt.Errorf("read portal content: %w", err)
	}
	pages := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := contentFS.ReadFile(path.Join("content", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		pages[strings.TrimSuffix(e.Name(), ".md")] = string(data)
	}
	if _, ok := pages[NotFoundKey]; !ok {
		return nil, errors.New("portal content is missing the not_found page")
	}

	return &Portal{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		pages:  pages,
		titler: cases.Title(language.English),
	}, nil
}

// Keys lists every page that can be rendered.
func (p *Portal) Keys() []string {
	keys := make([]string, 0, len(p.pages))
	for k := range p.pages {
		keys = append(keys, k)
	}
	return keys
}

// HasDetail reports whether key is a page addressed by id.
func HasDetail(key string) bool {
	_, ok := detailPages[key]
	return ok
}

// NavPath is the sidebar path a page belongs to.
func NavPath(key string) string {
	if parent, ok := detailPages[key]; ok {
		return parent
	}
	return "/" + key
}

// Render renders the page key. Detail pages need a positive integer id;
// list pages ignore it.
func (p *Portal) Render(key, id string) (Page, error) {
	src, ok := p.pages[key]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrPageNotFound, key)
	}

	title := p.Title(key)
	if HasDetail(key) {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: %s/%s", ErrPageNotFound, key, id)
		}
		id = strconv.FormatInt(n, 10)
		src = strings.ReplaceAll(src, "{id}", id)
		title += " " + id
	}

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(src), &buf); err != nil {
		return Page{}, fmt.Errorf("render %s: %w", key, err)
	}
	return Page{Key: key, Title: title, Body: template.HTML(buf.String())}, nil
}

// Title turns a page key such as study_activities into "Study Activities".
func (p *Portal) Title(key string) string {
	if key == NotFoundKey {
		return "Not Found"
	}
	return p.titler.String(strings.ReplaceAll(key, "_", " "))
}
