// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Labware, a single container placed in a deck slot, and
// the deterministic derivation of everything the program needs from it.
//
// Why derive instead of store?
//
// The program name of a labware (e.g. `the_96_well_plate_in_1`) and its well
// grid are pure functions of (Type, slot). Keeping them derived means the
// structured comment only has to carry the slot, and a parser rebuilding a
// labware from that comment obtains an instance indistinguishable from the
// one that was compiled.
package labware

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/record"
)

// Deck slots. Slot 12 holds the fixed trash.
const (
	MinSlot   = 1
	MaxSlot   = 11
	TrashSlot = 12
)

var (
	ErrUnknownType     = errors.New("unknown labware type")
	ErrInvalidSlot     = errors.New("invalid deck slot")
	ErrUnknownWell     = errors.New("unknown well")
	ErrHeightUndefined = errors.New("well height is not defined for labware type")
)

// Labware is one container occupying one deck slot.
type Labware struct {
	def   *Definition
	slot  int
	wells []Well
}

// New places a labware of type t in slot.
func New(t Type, slot int) (*Labware, error) {
	def, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	if slot < MinSlot || slot > MaxSlot {
		return nil, fmt.Errorf("%w: %d (labware slots are %d..%d, %d is the trash)", ErrInvalidSlot, slot, MinSlot, MaxSlot, TrashSlot)
	}

	l := &Labware{def: def, slot: slot}
	if def.WellBearing() {
		ref := l.Ref()
		l.wells = make([]Well, 0, def.Rows*def.Columns)
		for row := 0; row < def.Rows; row++ {
			for col := 1; col <= def.Columns; col++ {
				l.wells = append(l.wells, Well{
					Labware:  ref,
					Location: string(rowLetters[row]) + strconv.Itoa(col),
				})
			}
		}
	}
	return l, nil
}

// MustNew is like New but panics on error. It is meant for fixtures.
func MustNew(t Type, slot int) *Labware {
	l, err := New(t, slot)
	if err != nil {
		panic(err)
	}
	return l
}

// Type returns the labware type.
func (l *Labware) Type() Type { return l.def.Type }

// Slot returns the deck slot.
func (l *Labware) Slot() int { return l.slot }

// Definition returns the catalogue entry of the labware type.
func (l *Labware) Definition() *Definition { return l.def }

// Ref returns the identity of the labware.
func (l *Labware) Ref() Ref { return Ref{Type: l.def.Type, Slot: l.slot} }

// Name returns the program variable name of the labware.
func (l *Labware) Name() string { return l.Ref().Name() }

// IsTipRack reports whether the labware holds tips rather than wells.
func (l *Labware) IsTipRack() bool { return !l.def.WellBearing() }

// Wells returns the well grid in row-major order (A1, A2, ..., B1, ...).
// Tip racks have none.
func (l *Labware) Wells() []Well {
	out := make([]Well, len(l.wells))
	copy(out, l.wells)
	return out
}

// Well returns the well at location, e.g. "C4".
func (l *Labware) Well(location string) (Well, error) {
	for _, w := range l.wells {
		if w.Location == location {
			return w, nil
		}
	}
	return Well{}, fmt.Errorf("%w %q in %s", ErrUnknownWell, location, l.Name())
}

// Declaration renders the program statement loading the labware.
func (l *Labware) Declaration() string {
	return fmt.Sprintf("%s = protocol.load_labware('%s', %d)", l.Name(), l.def.LoadName, l.slot)
}

// labwareRecord is the structured-comment payload of a labware.
type labwareRecord struct {
	Slot int `cty:"slot"`
}

// Annotation returns the structured comment that reconstructs the labware.
func (l *Labware) Annotation() (comment.Line, error) {
	payload, err := record.Encode(labwareRecord{Slot: l.slot})
	if err != nil {
		return comment.Line{}, err
	}
	return comment.Line{Tag: string(l.def.Type), Payload: payload}, nil
}

// Reconstruct rebuilds a labware of type t from the payload of its
// structured comment.
func Reconstruct(t Type, payload string) (*Labware, error) {
	var rec labwareRecord
	if err := record.JSON(payload).Decode(&rec); err != nil {
		return nil, fmt.Errorf("labware %s: %w", t, err)
	}
	return New(t, rec.Slot)
}

// Ref identifies a labware instance by the pair (Type, slot), which is unique
// within one protocol.
type Ref struct {
	Type Type
	Slot int
}

// Name returns the program variable name derived from the reference.
func (r Ref) Name() string {
	def, err := Lookup(r.Type)
	if err != nil {
		return fmt.Sprintf("unknown_labware_in_%d", r.Slot)
	}
	return fmt.Sprintf(def.NameFormat, r.Slot)
}

// String implements fmt.Stringer.
func (r Ref) String() string {
	return fmt.Sprintf("%s@%d", r.Type, r.Slot)
}
