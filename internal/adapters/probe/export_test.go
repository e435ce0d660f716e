package probe

import "go.trai.ch/sitedims/internal/core/domain"

// ParseProbeOutput exposes the probe output parser for testing.
func ParseProbeOutput(stdout string) (domain.Dimension, error) {
	return parseProbeOutput("ffprobe", []byte(stdout))
}

// DecodeSVG exposes the SVG header decoder for testing.
func DecodeSVG(data string) (domain.Dimension, error) {
	return decodeSVG([]byte(data))
}
