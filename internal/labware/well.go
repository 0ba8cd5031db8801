// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Well and its plain-data form used inside step records.
package labware

import (
	"fmt"
)

// Well is one addressable position inside a labware. Two wells are equal
// when they belong to the same (Type, slot) and share the location string.
type Well struct {
	Labware  Ref
	Location string
}

// IsZero reports whether w is the zero Well, i.e. no well at all.
func (w Well) IsZero() bool {
	return w == Well{}
}

// Expr renders the program expression addressing the well.
func (w Well) Expr() string {
	return fmt.Sprintf("%s['%s']", w.Labware.Name(), w.Location)
}

// String implements fmt.Stringer.
func (w Well) String() string {
	return fmt.Sprintf("%s:%s", w.Labware, w.Location)
}

// Diameter returns the diameter of the well in millimetres.
func (w Well) Diameter() (float64, error) {
	def, err := Lookup(w.Labware.Type)
	if err != nil {
		return 0, err
	}
	return def.Diameter, nil
}

// Height returns the rated height of the well in millimetres. Types with no
// single meaningful height return ErrHeightUndefined.
func (w Well) Height() (float64, error) {
	def, err := Lookup(w.Labware.Type)
	if err != nil {
		return 0, err
	}
	if !def.HasHeight {
		return 0, fmt.Errorf("%w %s", ErrHeightUndefined, def.Type)
	}
	return def.Height, nil
}

// Record is the plain-data form of a well reference as it crosses the
// program text boundary.
type Record struct {
	WellPlateType  string `cty:"wellPlateType"`
	Slot           int    `cty:"slot"`
	LocationString string `cty:"locationString"`
}

// Record returns the plain-data form of w.
func (w Well) Record() Record {
	return Record{
		WellPlateType:  string(w.Labware.Type),
		Slot:           w.Labware.Slot,
		LocationString: w.Location,
	}
}

// Resolve rebuilds the labware named by the record through the geometry
// model and returns its matching well.
func (r Record) Resolve() (Well, error) {
	l, err := New(Type(r.WellPlateType), r.Slot)
	if err != nil {
		return Well{}, err
	}
	if l.IsTipRack() {
		return Well{}, fmt.Errorf("%w: %s has no wells", ErrUnknownWell, l.Name())
	}
	return l.Well(r.LocationString)
}
