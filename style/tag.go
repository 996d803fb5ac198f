package style

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TagMode selects how stylesheet is attached to the document.
type TagMode int

const (
	// TagModeStyle embeds stylesheet as content of <style> element.
	TagModeStyle TagMode = iota
	// TagModeLink references stylesheet from <link> element.
	TagModeLink
)

// Tag renders HTML element carrying stylesheet text. Link mode requires
// cache which provides link target.
func Tag(id, text string, mode TagMode, cache *LinkCache) (string, error) {
	var node *html.Node

	switch mode {
	case TagModeStyle:
		node = &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Style,
			Data:     atom.Style.String(),
			Attr:     attrs(id, html.Attribute{Key: "type", Val: "text/css"}),
		}
		node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	case TagModeLink:
		if cache == nil {
			return "", fmt.Errorf("link cache is required for link tag")
		}
		node = &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Link,
			Data:     atom.Link.String(),
			Attr: attrs(id,
				html.Attribute{Key: "rel", Val: "stylesheet"},
				html.Attribute{Key: "type", Val: "text/css"},
				html.Attribute{Key: "href", Val: cache.Href(text)},
			),
		}
	default:
		return "", fmt.Errorf("unsupported tag mode %d", mode)
	}

	buf := new(bytes.Buffer)
	if err := html.Render(buf, node); err != nil {
		return "", fmt.Errorf("unable to render tag: %w", err)
	}
	return buf.String(), nil
}

func attrs(id string, rest ...html.Attribute) []html.Attribute {
	if id == "" {
		return rest
	}
	return append([]html.Attribute{{Key: "id", Val: id}}, rest...)
}
