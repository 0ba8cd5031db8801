package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/labprotocol/internal/ctxlog"
	"github.com/specialistvlad/labprotocol/internal/fsutil"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/protocol"
	"github.com/specialistvlad/labprotocol/internal/record"
	"github.com/specialistvlad/labprotocol/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file extension searched for in directories.
const Extension = ".hcl"

// Loader reads protocol sources from files and directories.
type Loader struct{}

// NewLoader creates a new HCL protocol loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every source file found under paths and assembles one
// protocol from them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*protocol.Protocol, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var root fileRoot
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var part fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &part)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		root.Protocols = append(root.Protocols, part.Protocols...)
		root.Labware = append(root.Labware, part.Labware...)
		root.Steps = append(root.Steps, part.Steps...)
	}

	return l.assemble(ctx, &root)
}

// Parse reads a single in-memory source. filename only labels diagnostics.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*protocol.Protocol, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL source %s: %w", filename, diags)
	}
	return l.assemble(ctx, &root)
}

func (l *Loader) assemble(ctx context.Context, root *fileRoot) (*protocol.Protocol, error) {
	logger := ctxlog.FromContext(ctx)
	p := &protocol.Protocol{}

	meta, diags := findUniqueProtocol(root.Protocols)
	if diags.HasErrors() {
		return nil, diags
	}
	if meta != nil {
		p.Name, p.Author, p.Description = meta.Name, meta.Author, meta.Description
	} else {
		logger.Warn("No protocol block found, metadata left empty.")
	}

	labels := make(map[string]*labware.Labware, len(root.Labware))
	ranges := make(map[string]hcl.Range, len(root.Labware))
	for _, block := range root.Labware {
		if prev, ok := ranges[block.Label]; ok {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Duplicate labware label",
				Detail:   fmt.Sprintf("Labware %q was already declared at %s.", block.Label, prev),
				Subject:  block.DeclRange.Ptr(),
			}}
		}
		lw, err := labware.New(labware.Type(block.Type), block.Slot)
		if err != nil {
			return nil, fmt.Errorf("%s: labware %q: %w", block.DeclRange, block.Label, err)
		}
		labels[block.Label] = lw
		ranges[block.Label] = block.DeclRange
		p.Labware = append(p.Labware, lw)
		logger.Debug("Declared labware.", "label", block.Label, "type", block.Type, "slot", block.Slot)
	}

	evalCtx, err := newEvalContext(labels)
	if err != nil {
		return nil, err
	}

	for _, block := range root.Steps {
		s, err := l.decodeStep(block, evalCtx)
		if err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, s)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "labware", len(p.Labware), "steps", len(p.Steps))
	return p, nil
}

func (l *Loader) decodeStep(block *stepBlock, evalCtx *hcl.EvalContext) (step.Step, error) {
	kind, ok := step.LookupKind(block.Kind)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown step kind",
			Detail:   fmt.Sprintf("%q is not a step kind; expected one of %v.", block.Kind, step.Kinds()),
			Subject:  block.DeclRange.Ptr(),
		}}
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]cty.Value, len(attrs))
	for _, name := range names {
		v, diags := attrs[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		values[name] = v
	}

	s, err := step.Decode(kind, record.Attributes(values))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", block.DeclRange, err)
	}
	return s, nil
}
