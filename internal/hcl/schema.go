package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is the top-level schema of one source file.
type fileRoot struct {
	Protocols []*protocolBlock `hcl:"protocol,block"`
	Labware   []*labwareBlock  `hcl:"labware,block"`
	Steps     []*stepBlock     `hcl:"step,block"`
}

type protocolBlock struct {
	Name        string    `hcl:"name,optional"`
	Author      string    `hcl:"author,optional"`
	Description string    `hcl:"description,optional"`
	DeclRange   hcl.Range `hcl:",def_range"`
}

type labwareBlock struct {
	Label     string    `hcl:"label,label"`
	Type      string    `hcl:"type"`
	Slot      int       `hcl:"slot"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// stepBlock keeps its body undecoded: the attribute set depends on the kind
// and is only known once labware variables are in scope.
type stepBlock struct {
	Kind      string    `hcl:"kind,label"`
	Body      hcl.Body  `hcl:",remain"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// findUniqueProtocol returns the single protocol block across all files, or
// nil if there is none.
func findUniqueProtocol(blocks []*protocolBlock) (*protocolBlock, hcl.Diagnostics) {
	var found *protocolBlock
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"protocol\" block",
				Detail:   "Only one \"protocol\" block is allowed; the first one is at " + found.DeclRange.String() + ".",
				Subject:  block.DeclRange.Ptr(),
			})
			continue
		}
		found = block
	}

	return found, diags
}
