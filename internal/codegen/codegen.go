// Package codegen compiles a Protocol into an Opentrons Python program.
//
// The program carries a structured comment for the metadata, for every
// labware and for every step, which is what package parser reads back.
package codegen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/protocol"
	"github.com/specialistvlad/labprotocol/internal/step"
)

// EndMarker terminates the body of the generated run function.
const EndMarker = "#end"

const indent = "    "

// ErrInvalidModule is returned when the laser module is not a dotted Python
// module path.
var ErrInvalidModule = errors.New("invalid laser module")

var modulePath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidModule reports whether name can follow `from` in a Python import.
func ValidModule(name string) bool {
	return modulePath.MatchString(name)
}

// Options selects the robot hardware the program targets.
type Options struct {
	Pipette     string
	Mount       string
	APILevel    string
	LaserModule string
}

// DefaultOptions returns the single-channel gen2 setup the lab runs.
func DefaultOptions() Options {
	return Options{
		Pipette:     "p300_single_gen2",
		Mount:       "right",
		APILevel:    "2.8",
		LaserModule: "ondine_laser_control",
	}
}

// Generator turns protocols into program text. It holds no state between
// calls and is safe for concurrent use.
type Generator struct {
	opts Options
}

// New returns a Generator. Empty option fields fall back to DefaultOptions.
func New(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Pipette == "" {
		opts.Pipette = def.Pipette
	}
	if opts.Mount == "" {
		opts.Mount = def.Mount
	}
	if opts.APILevel == "" {
		opts.APILevel = def.APILevel
	}
	if opts.LaserModule == "" {
		opts.LaserModule = def.LaserModule
	}
	return &Generator{opts: opts}
}

// Compile renders p with DefaultOptions.
func Compile(p *protocol.Protocol) (string, error) {
	return New(DefaultOptions()).Compile(p)
}

// Compile renders p. Labware and steps appear exactly in slice order.
func (g *Generator) Compile(p *protocol.Protocol) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	steps := p.Executable()
	hasLaser := p.HasLaser()
	if hasLaser && !ValidModule(g.opts.LaserModule) {
		return "", fmt.Errorf("%w: %q", ErrInvalidModule, g.opts.LaserModule)
	}

	var b strings.Builder
	b.WriteString("from opentrons import protocol_api\n")
	if hasLaser {
		fmt.Fprintf(&b, "from %s import laser\n", g.opts.LaserModule)
	}
	b.WriteString("\n")
	b.WriteString(comment.EncodeMeta(p.Meta()).String() + "\n")
	b.WriteString("\n")
	b.WriteString("metadata = {\n")
	fmt.Fprintf(&b, "%s'protocolName': %s,\n", indent, pyString(p.Name))
	fmt.Fprintf(&b, "%s'author': %s,\n", indent, pyString(p.Author))
	fmt.Fprintf(&b, "%s'description': %s,\n", indent, pyString(p.Description))
	fmt.Fprintf(&b, "%s'apiLevel': %s\n", indent, pyString(g.opts.APILevel))
	b.WriteString("}\n")
	b.WriteString("\n\n")
	b.WriteString("def run(protocol: protocol_api.ProtocolContext):\n")

	for _, l := range p.Labware {
		line, err := l.Annotation()
		if err != nil {
			return "", fmt.Errorf("labware %s: %w", l.Ref(), err)
		}
		writeBlock(&b, line.String()+"\n"+l.Declaration())
	}
	if len(p.Labware) > 0 {
		b.WriteString("\n")
	}

	racks := p.TipRacks()
	names := make([]string, len(racks))
	for i, r := range racks {
		names[i] = r.Name()
	}
	writeBlock(&b, fmt.Sprintf("pipette = protocol.load_instrument(%s, %s, tip_racks=[%s])",
		pyString(g.opts.Pipette), pyString(g.opts.Mount), strings.Join(names, ", ")))
	b.WriteString("\n")

	if hasLaser {
		writeBlock(&b, "laserController = laser.Controller(protocol=protocol)")
		b.WriteString("\n")
	}

	for i, s := range steps {
		text, err := s.Emit(step.Neighbors{Before: steps[:i], After: steps[i+1:]})
		if err != nil {
			return "", fmt.Errorf("step %d (%s): %w", i+1, s.Kind(), err)
		}
		writeBlock(&b, text)
		b.WriteString("\n")
	}

	writeBlock(&b, EndMarker)
	return b.String(), nil
}

// writeBlock writes every line of text indented into the run function body.
func writeBlock(b *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			b.WriteString(indent)
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
}

var pyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// pyString renders s as a single-quoted Python string literal.
func pyString(s string) string {
	return "'" + pyEscaper.Replace(s) + "'"
}
