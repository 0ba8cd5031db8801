// Package parser rebuilds a Protocol from the structured comments of a
// generated program. Everything that is not a structured comment is
// ignored, so hand edits to instructions do not affect the result.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/protocol"
	"github.com/specialistvlad/labprotocol/internal/step"
)

// LineError locates a structured comment that could not be reconstructed.
type LineError struct {
	Line int
	Tag  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Tag, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Parse reads text and fails on the first malformed structured comment.
// Comments with unknown tags are skipped.
func Parse(text string) (*protocol.Protocol, error) {
	p, errs := parse(text, true)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return p, nil
}

// ParseLenient reads text, skipping malformed structured comments. It
// returns what could be rebuilt together with the joined LineErrors of the
// skipped lines.
func ParseLenient(text string) (*protocol.Protocol, error) {
	p, errs := parse(text, false)
	return p, errors.Join(errs...)
}

func parse(text string, stopOnError bool) (*protocol.Protocol, []error) {
	p := &protocol.Protocol{}
	var errs []error

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for n := 1; sc.Scan(); n++ {
		line, ok := comment.ParseLine(sc.Text())
		if !ok {
			continue
		}
		if err := apply(p, line); err != nil {
			errs = append(errs, &LineError{Line: n, Tag: line.Tag, Err: err})
			if stopOnError {
				return nil, errs
			}
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, err)
	}
	return p, errs
}

// apply dispatches one structured comment onto p by its tag.
func apply(p *protocol.Protocol, line comment.Line) error {
	switch {
	case line.Tag == comment.MetaTag:
		m, err := comment.DecodeMeta(line.Payload)
		if err != nil {
			return err
		}
		p.Name, p.Author, p.Description = m.Name, m.Author, m.Description
	case labware.IsType(line.Tag):
		l, err := labware.Reconstruct(labware.Type(line.Tag), line.Payload)
		if err != nil {
			return err
		}
		p.Labware = append(p.Labware, l)
	default:
		kind, ok := step.LookupKind(line.Tag)
		if !ok {
			return nil
		}
		s, err := step.Reconstruct(kind, line.Payload)
		if err != nil {
			return err
		}
		p.Steps = append(p.Steps, s)
	}
	return nil
}
