// Package site serves the embedded chart page and checks that it carries
// the containers the chart draws into.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// Error constants
var (
	ErrServe          = errors.New("site serve failed")
	ErrMissingAnchors = errors.New("page is missing anchors")
)

// Register attaches the page at / and its assets under /static/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.HandleFunc("GET /{$}", root.HandleRoot)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler serves the chart page.
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile(indexPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("%v: %v", ErrServe, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// VerifyAnchors reports the ids missing from the embedded page.
func VerifyAnchors(ids []string) error {
	page, err := staticFS.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServe, err)
	}
	missing, err := MissingAnchors(bytes.NewReader(page), ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: #%s", ErrMissingAnchors, strings.Join(missing, ", #"))
	}
	return nil
}

// MissingAnchors parses an HTML document and returns the ids, in request
// order, that no element carries.
func MissingAnchors(r io.Reader, ids []string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	present := make(map[string]bool)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" {
					present[a.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var missing []string
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
