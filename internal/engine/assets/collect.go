package assets

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// candidateSelector matches every element that may reference a measurable asset.
const candidateSelector = "img, svg, video"

var maskURL = regexp.MustCompile(`--mask-url\s*:\s*url\(\s*["']?([^"')]+?)["']?\s*\)`)

// Node is an element that references an asset. The selection wraps exactly one element,
// which stays owned by the document it came from.
type Node struct {
	Selection *goquery.Selection
	Src       string
}

// Collect returns the asset-bearing elements of doc in document order:
// img[src], svg[src], svg carrying a --mask-url in its style, and video with a src
// attribute or a source[src] child.
func Collect(doc *goquery.Document) []Node {
	var nodes []Node
	doc.Find(candidateSelector).Each(func(_ int, sel *goquery.Selection) {
		if src := sourceOf(sel); src != "" {
			nodes = append(nodes, Node{Selection: sel, Src: src})
		}
	})
	return nodes
}

func sourceOf(sel *goquery.Selection) string {
	if src := strings.TrimSpace(sel.AttrOr("src", "")); src != "" {
		return src
	}

	switch goquery.NodeName(sel) {
	case "svg":
		if m := maskURL.FindStringSubmatch(sel.AttrOr("style", "")); m != nil {
			return strings.TrimSpace(m[1])
		}
	case "video":
		source := sel.ChildrenFiltered("source").First()
		return strings.TrimSpace(source.AttrOr("src", ""))
	}
	return ""
}
