package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/ctxlog"
	"github.com/specialistvlad/labprotocol/internal/hcl"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/parser"
	"github.com/specialistvlad/labprotocol/internal/protocol"
	"github.com/specialistvlad/labprotocol/internal/step"
)

// ErrRoundTrip is returned by Verify when recompiling a program does not
// reproduce its structured comments.
var ErrRoundTrip = errors.New("program does not survive a round trip")

// Import rebuilds the protocol behind a generated program and writes it as
// an HCL source.
func (a *App) Import(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	p, err := a.parseProgram(ctx)
	if err != nil {
		return err
	}

	src, err := hcl.Write(p)
	if err != nil {
		return fmt.Errorf("failed to write protocol source: %w", err)
	}
	if err := a.writeOutput(ctx, src); err != nil {
		return err
	}
	logger.Info("Protocol imported.", summary(p)...)
	return nil
}

// Verify parses a program, compiles the result again and checks that every
// structured comment comes back unchanged and in the same order.
func (a *App) Verify(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	text, err := a.readProgram()
	if err != nil {
		return err
	}
	p, err := parser.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse program: %w", err)
	}
	again, err := a.generator.Compile(p)
	if err != nil {
		return fmt.Errorf("failed to recompile program: %w", err)
	}

	want, got := structuredComments(text), structuredComments(again)
	for i := 0; i < len(want) || i < len(got); i++ {
		switch {
		case i >= len(got):
			return fmt.Errorf("%w: missing %q", ErrRoundTrip, want[i])
		case i >= len(want):
			return fmt.Errorf("%w: unexpected %q", ErrRoundTrip, got[i])
		case want[i] != got[i]:
			return fmt.Errorf("%w: %q became %q", ErrRoundTrip, want[i], got[i])
		}
	}

	logger.Info("Round trip verified.", append(summary(p), "comments", len(want))...)
	fmt.Fprintf(a.outW, "OK: %d structured comments verified\n", len(want))
	return nil
}

func (a *App) parseProgram(ctx context.Context) (*protocol.Protocol, error) {
	logger := ctxlog.FromContext(ctx)

	text, err := a.readProgram()
	if err != nil {
		return nil, err
	}
	if !a.config.Lenient {
		p, err := parser.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse program: %w", err)
		}
		return p, nil
	}

	p, err := parser.ParseLenient(text)
	if err != nil {
		var skipped []error
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			skipped = joined.Unwrap()
		} else {
			skipped = []error{err}
		}
		for _, e := range skipped {
			logger.Warn("Skipped structured comment.", "error", e)
		}
	}
	return p, nil
}

// structuredComments returns the comment lines of text whose tag the parser
// understands, normalized to their canonical form.
func structuredComments(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line, ok := comment.ParseLine(raw)
		if !ok {
			continue
		}
		_, isStep := step.LookupKind(line.Tag)
		if line.Tag == comment.MetaTag || labware.IsType(line.Tag) || isStep {
			out = append(out, line.String())
		}
	}
	return out
}
