package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ElementID is the id of the script element carrying the task list.
const ElementID = "tasks-data"

// ErrNoTaskData is returned when a page has no #tasks-data element.
var ErrNoTaskData = errors.New("tasks-data element not found")

// ExtractRaw returns the text content of the #tasks-data element of an HTML page.
func ExtractRaw(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	node := findByID(doc, ElementID)
	if node == nil {
		return "", ErrNoTaskData
	}

	var sb strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String(), nil
}

// FromHTML reads the embedded task list from a served page. A page without the
// element, or with malformed JSON in it, degrades to an empty catalog.
func FromHTML(r io.Reader, logger *zap.Logger) *Catalog {
	raw, err := ExtractRaw(r)
	if err != nil {
		logger.Warn("no embedded task data", zap.Error(err))
		return Empty()
	}
	return Load([]byte(raw), logger)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
