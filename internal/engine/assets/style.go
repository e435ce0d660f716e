package assets

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.trai.ch/sitedims/internal/core/domain"
)

// MergeAspectRatio puts the aspect-ratio declaration for dim in front of style.
// An empty style becomes the bare declaration; otherwise the declaration, one space and the
// remainder, trimmed of whitespace and leading semicolons, are joined. Any aspect-ratio
// declaration already present is dropped first, so merging twice yields the same string.
func MergeAspectRatio(style string, dim domain.Dimension) string {
	decl := dim.AspectRatio()
	rest := strings.TrimSpace(strings.TrimLeftFunc(stripAspectRatio(style), isLeadingSeparator))
	if rest == "" {
		return decl
	}
	return decl + " " + rest
}

func isLeadingSeparator(r rune) bool {
	return r == ';' || unicode.IsSpace(r)
}

func stripAspectRatio(style string) string {
	if !strings.Contains(strings.ToLower(style), "aspect-ratio") {
		return style
	}
	parts := strings.Split(style, ";")
	kept := parts[:0]
	for _, part := range parts {
		name, _, found := strings.Cut(part, ":")
		if found && strings.EqualFold(strings.TrimSpace(name), "aspect-ratio") {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ";")
}

// applyDimension writes width, height and the merged style onto the element.
func applyDimension(sel *goquery.Selection, dim domain.Dimension) {
	sel.SetAttr("width", strconv.Itoa(dim.Width))
	sel.SetAttr("height", strconv.Itoa(dim.Height))
	sel.SetAttr("style", MergeAspectRatio(sel.AttrOr("style", ""), dim))
}
