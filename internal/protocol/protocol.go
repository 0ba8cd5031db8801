// Package protocol holds the Protocol aggregate: metadata, labware and the
// ordered steps handed to the code generator as one snapshot.
package protocol

import (
	"fmt"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/step"
)

// Protocol is the unit compiled into a program. Slice order is execution
// order for Steps and declaration order for Labware.
type Protocol struct {
	Name        string
	Author      string
	Description string
	Labware     []*labware.Labware
	Steps       []step.Step
}

// SlotConflictError reports two labware placed in the same deck slot.
// Labware names derive from (type, slot), so a shared slot makes program
// text ambiguous.
type SlotConflictError struct {
	Slot   int
	First  labware.Type
	Second labware.Type
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("deck slot %d holds both %s and %s", e.Slot, e.First, e.Second)
}

// Validate checks the invariants the generator relies on.
func (p *Protocol) Validate() error {
	seen := make(map[int]labware.Type, len(p.Labware))
	for i, l := range p.Labware {
		if l == nil {
			return fmt.Errorf("labware %d is nil", i)
		}
		if prev, ok := seen[l.Slot()]; ok {
			return &SlotConflictError{Slot: l.Slot(), First: prev, Second: l.Type()}
		}
		seen[l.Slot()] = l.Type()
	}
	for i, s := range p.Steps {
		if s == nil {
			return fmt.Errorf("step %d is nil", i)
		}
	}
	return nil
}

// Meta returns the metadata carried on the meta line.
func (p *Protocol) Meta() comment.Meta {
	return comment.Meta{Name: p.Name, Author: p.Author, Description: p.Description}
}

// TipRacks returns the labware holding tips, in declaration order.
func (p *Protocol) TipRacks() []*labware.Labware {
	var out []*labware.Labware
	for _, l := range p.Labware {
		if l.IsTipRack() {
			out = append(out, l)
		}
	}
	return out
}

// Executable returns the steps that produce instructions, dropping
// placeholders so they never separate two adjacent steps.
func (p *Protocol) Executable() []step.Step {
	out := make([]step.Step, 0, len(p.Steps))
	for _, s := range p.Steps {
		if !step.IsPlaceholder(s) {
			out = append(out, s)
		}
	}
	return out
}

// HasLaser reports whether any step fires the laser.
func (p *Protocol) HasLaser() bool {
	for _, s := range p.Steps {
		if s.Kind() == step.KindLaser {
			return true
		}
	}
	return false
}

// StepIndex returns the position of the step with id, or -1.
func (p *Protocol) StepIndex(id string) int {
	for i, s := range p.Steps {
		if s.StepID() == id {
			return i
		}
	}
	return -1
}
