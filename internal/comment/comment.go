// Package comment defines the structured-comment micro-format embedded in
// generated programs:
//
//	# <Tag>;<payload>
//
// Tags name a step kind, a labware type or the protocol metadata ("meta").
// Step and labware payloads are JSON records (see package record); the meta
// payload is "name:author:description" with separators percent-escaped inside
// fields.
package comment

import (
	"errors"
	"strings"
)

// Marker starts every comment line of the generated program.
const Marker = "#"

// MetaTag is the tag of the protocol metadata line.
const MetaTag = "meta"

// Line is one structured comment.
type Line struct {
	Tag     string
	Payload string
}

// String renders the line exactly as it appears in program text.
func (l Line) String() string {
	return Marker + " " + l.Tag + ";" + l.Payload
}

// ParseLine reads a single line of program text. It reports false for lines
// that are not comments. Comments without a ';' yield an empty payload.
func ParseLine(s string) (Line, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, Marker) {
		return Line{}, false
	}
	s = strings.TrimPrefix(s, Marker)
	tag, payload, _ := strings.Cut(s, ";")
	return Line{Tag: strings.TrimSpace(tag), Payload: payload}, true
}

// Meta is the protocol metadata carried on the meta line.
type Meta struct {
	Name        string
	Author      string
	Description string
}

// ErrMalformedMeta is returned when a meta payload lacks one of its fields.
var ErrMalformedMeta = errors.New("malformed meta payload")

var (
	escaper   = strings.NewReplacer("%", "%25", ":", "%3A", ";", "%3B", "\n", "%0A", "\r", "%0D")
	unescaper = strings.NewReplacer("%25", "%", "%3A", ":", "%3B", ";", "%0A", "\n", "%0D", "\r")
)

// EncodeMeta renders m as a meta line.
func EncodeMeta(m Meta) Line {
	fields := []string{escaper.Replace(m.Name), escaper.Replace(m.Author), escaper.Replace(m.Description)}
	return Line{Tag: MetaTag, Payload: strings.Join(fields, ":")}
}

// DecodeMeta reads a meta payload. Unescaped colons past the second one are
// kept in the description, which is how older programs stored them.
func DecodeMeta(payload string) (Meta, error) {
	fields := strings.SplitN(payload, ":", 3)
	if len(fields) != 3 {
		return Meta{}, ErrMalformedMeta
	}
	return Meta{
		Name:        unescaper.Replace(fields[0]),
		Author:      unescaper.Replace(fields[1]),
		Description: unescaper.Replace(fields[2]),
	}, nil
}
