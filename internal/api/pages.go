package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mmynk/rollcall/internal/models"
)

// groupSelectID is the id of the group <select> on the index page.
const groupSelectID = "groupSelect"

// Groups returns the options of the index page's group selector in page
// order, placeholder included.
func (c *Client) Groups(ctx context.Context) ([]models.GroupOption, error) {
	resp, err := c.send(ctx, http.MethodGet, PathIndex, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	opts, err := parseGroupOptions(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse group list: %w", err)
	}
	return opts, nil
}

// Entries returns today's logged entries for one person of a group, as
// rendered on the edit page.
func (c *Client) Entries(ctx context.Context, group, personID string) ([]models.Entry, error) {
	q := url.Values{}
	q.Set("group", group)
	q.Set("id", personID)

	resp, err := c.send(ctx, http.MethodGet, PathEdit+"?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	entries, err := parseEntries(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}
	return entries, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

func parseGroupOptions(r io.Reader) ([]models.GroupOption, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var sel *html.Node
	walk(doc, func(n *html.Node) bool {
		if sel != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Select {
			if id, _ := attr(n, "id"); id == groupSelectID {
				sel = n
				return false
			}
		}
		return true
	})
	if sel == nil {
		return nil, fmt.Errorf("no <select id=%q> on page", groupSelectID)
	}

	var opts []models.GroupOption
	walk(sel, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Option {
			return true
		}
		label := textOf(n)
		value, ok := attr(n, "value")
		if !ok {
			value = label
		}
		opts = append(opts, models.GroupOption{ID: value, Label: label})
		return false
	})
	return opts, nil
}

func parseEntries(r io.Reader) ([]models.Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var (
		entries []models.Entry
		bad     error
	)
	walk(doc, func(n *html.Node) bool {
		if bad != nil {
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}
		raw, ok := attr(n, "data-original")
		if !ok {
			return true
		}
		var e models.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			bad = fmt.Errorf("invalid data-original %q: %w", raw, err)
			return false
		}
		entries = append(entries, e)
		return false
	})
	if bad != nil {
		return nil, bad
	}
	return entries, nil
}
