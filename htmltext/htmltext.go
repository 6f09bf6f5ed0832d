// Package htmltext translates the text nodes of an HTML fragment, leaving
// markup, attributes, and code untouched. It is used for CMS-sourced content
// blocks where the translatable strings are embedded in markup.
package htmltext

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/drivelane/lingo"
)

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// Translate renders fragment with every translatable text node translated
// into target. Elements carrying data-no-translate are skipped. Top-level
// elements get lang and dir attributes for the target language.
//
// Translation failures degrade per the Translator contract: the original
// text stays in place. An error is returned only when fragment cannot be
// parsed.
func Translate(ctx context.Context, tr *lingo.Translator, fragment string, target lingo.Language) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	if body.Length() == 0 || len(body.Nodes) == 0 {
		return fragment, nil
	}
	root := body.Nodes[0]

	// Collect translatable text nodes in document order.
	var nodes []*html.Node
	var texts []string
	collect(root, &nodes, &texts)

	if len(nodes) > 0 {
		translated := tr.TranslateBatch(ctx, texts, target)
		for i, n := range nodes {
			// Swap only the trimmed portion so surrounding whitespace survives.
			n.Data = strings.Replace(n.Data, texts[i], translated[i], 1)
		}
	}

	setDirection(root, target)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}

	return buf.String(), nil
}

func collect(n *html.Node, nodes *[]*html.Node, texts *[]string) {
	if n.Type == html.ElementNode {
		if IgnoredTags[strings.ToLower(n.Data)] {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key == "data-no-translate" {
				return
			}
		}
	}

	if n.Type == html.TextNode {
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			*nodes = append(*nodes, n)
			*texts = append(*texts, trimmed)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, nodes, texts)
	}
}

// setDirection stamps lang and dir on the fragment's top-level elements.
func setDirection(root *html.Node, target lingo.Language) {
	lang := string(target)
	dir := lingo.GetDirection(lang)

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		setAttr(c, "lang", lang)
		setAttr(c, "dir", dir)
	}
}

func setAttr(n *html.Node, key, value string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
