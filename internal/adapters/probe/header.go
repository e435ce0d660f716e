package probe

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF header support
	_ "image/jpeg" // JPEG header support
	_ "image/png"  // PNG header support
	"io"
	"math"
	"strconv"
	"strings"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/zerr"
	_ "golang.org/x/image/bmp"  // BMP header support
	_ "golang.org/x/image/webp" // WebP header support
	"golang.org/x/net/html/charset"
)

// svgSniffLen bounds how far into an unknown payload we look for an <svg tag.
const svgSniffLen = 1024

// decodeHeader reads the dimensions from data without decoding pixels.
func decodeHeader(kind domain.MediaKind, data []byte) (domain.Dimension, error) {
	if kind == domain.MediaVector || (kind == domain.MediaUnknown && looksLikeSVG(data)) {
		return decodeSVG(data)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Dimension{}, errors.Join(domain.ErrHeaderUndecodable, err)
	}
	dim, err := domain.NewDimension(cfg.Width, cfg.Height)
	if err != nil {
		return domain.Dimension{}, zerr.With(errors.Join(domain.ErrHeaderUndecodable, err), "format", format)
	}
	return dim, nil
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > svgSniffLen {
		head = head[:svgSniffLen]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// decodeSVG reads width and height from the root <svg> element. Lengths must be unitless or px.
// When either is missing the viewBox supplies the size, scaled to keep its aspect ratio
// if the other attribute is present.
func decodeSVG(data []byte) (domain.Dimension, error) {
	root, err := svgRoot(data)
	if err != nil {
		return domain.Dimension{}, errors.Join(domain.ErrHeaderUndecodable, err)
	}

	var width, height, viewBox string
	for _, attr := range root.Attr {
		switch attr.Name.Local {
		case "width":
			width = attr.Value
		case "height":
			height = attr.Value
		case "viewBox":
			viewBox = attr.Value
		}
	}

	w, wok := parseLength(width)
	h, hok := parseLength(height)
	if wok && hok {
		return roundDimension(w, h)
	}

	vw, vh, ok := parseViewBox(viewBox)
	if !ok {
		return domain.Dimension{}, zerr.Wrap(domain.ErrHeaderUndecodable,
			fmt.Sprintf("svg has no usable size (width=%q height=%q viewBox=%q)", width, height, viewBox))
	}

	switch {
	case wok:
		return roundDimension(w, w*vh/vw)
	case hok:
		return roundDimension(h*vw/vh, h)
	default:
		return roundDimension(vw, vh)
	}
}

func svgRoot(data []byte) (xml.StartElement, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, errors.New("no root element")
			}
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "svg" {
				return xml.StartElement{}, fmt.Errorf("root element is <%s>, not <svg>", start.Name.Local)
			}
			return start, nil
		}
	}
}

func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseViewBox(s string) (float64, float64, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, wok := parseLength(fields[2])
	h, hok := parseLength(fields[3])
	return w, h, wok && hok
}

func roundDimension(w, h float64) (domain.Dimension, error) {
	dim, err := domain.NewDimension(int(math.Round(w)), int(math.Round(h)))
	if err != nil {
		return domain.Dimension{}, errors.Join(domain.ErrHeaderUndecodable, err)
	}
	return dim, nil
}
