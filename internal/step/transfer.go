// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the two liquid transfers, Transfer and Plate, and the
// folding of neighboring Mix steps into them.
package step

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/volume"
)

// Transfer moves Volume µL from one well to another in a single pipette
// command.
type Transfer struct {
	Ident
	From            labware.Well
	To              labware.Well
	Volume          float64
	Sterility       Sterility
	TouchTip        bool
	BlowOut         bool
	BlowoutLocation BlowoutLocation
}

// NewTransfer validates t, fills defaulted policies and assigns an identity.
func NewTransfer(t Transfer) (*Transfer, error) {
	if t.From.IsZero() || t.To.IsZero() {
		return nil, invalid("transfer needs a source and a destination well")
	}
	if !positive(t.Volume) {
		return nil, invalid("transfer volume must be positive and finite, got %s", num(t.Volume))
	}
	if t.Sterility == "" {
		t.Sterility = SterilityOnce
	}
	if !t.Sterility.valid() {
		return nil, invalid("unknown sterility %q", t.Sterility)
	}
	if t.BlowoutLocation == "" {
		t.BlowoutLocation = BlowoutTrash
	}
	if !t.BlowoutLocation.valid() {
		return nil, invalid("unknown blowout location %q", t.BlowoutLocation)
	}
	t.ID = NewID()
	return &t, nil
}

type transferRecord struct {
	From            labware.Record `cty:"from"`
	To              labware.Record `cty:"to"`
	Volume          float64        `cty:"volume"`
	Sterility       string         `cty:"sterility"`
	TouchTip        bool           `cty:"touchTip"`
	BlowOut         bool           `cty:"blowOut"`
	BlowoutLocation string         `cty:"blowoutLocation"`
}

func (t *Transfer) Kind() Kind { return KindTransfer }

func (t *Transfer) Flow() volume.Flow {
	from, to := t.From, t.To
	return volume.Flow{Source: &from, Destination: &to, Volume: t.Volume}
}

func (t *Transfer) Record() any {
	return transferRecord{
		From:            t.From.Record(),
		To:              t.To.Record(),
		Volume:          t.Volume,
		Sterility:       string(t.Sterility),
		TouchTip:        t.TouchTip,
		BlowOut:         t.BlowOut,
		BlowoutLocation: string(t.BlowoutLocation),
	}
}

func (t *Transfer) Annotation() (comment.Line, error) { return annotate(t.Kind(), t.Record()) }

func (t *Transfer) Emit(n Neighbors) (string, error) {
	args := []string{
		num(t.Volume),
		t.From.Expr(),
		t.To.Expr(),
		fmt.Sprintf("new_tip='%s'", t.Sterility),
	}
	if t.TouchTip {
		args = append(args, "touch_tip="+pyBool(true))
	}
	if t.BlowOut {
		args = append(args, "blow_out="+pyBool(true), fmt.Sprintf("blowout_location='%s'", t.BlowoutLocation))
	}
	args = append(args, mixClauses(n, t.From, t.To)...)
	return render(t, "pipette.transfer("+strings.Join(args, ", ")+")")
}

func (t *Transfer) endpoints() (labware.Well, labware.Well) { return t.From, t.To }

func (t *Transfer) withID(id string) Step {
	c := *t
	c.ID = id
	return &c
}

// Plate dispenses onto agar: the destination is addressed at HeightOfAgar
// millimetres above the well bottom.
type Plate struct {
	Ident
	From         labware.Well
	To           labware.Well
	Volume       float64
	HeightOfAgar float64
	Sterility    Sterility
}

// NewPlate validates p, fills defaulted policies and assigns an identity.
func NewPlate(p Plate) (*Plate, error) {
	if p.From.IsZero() || p.To.IsZero() {
		return nil, invalid("plate needs a source and a destination well")
	}
	if !positive(p.Volume) {
		return nil, invalid("plate volume must be positive and finite, got %s", num(p.Volume))
	}
	if !nonNegative(p.HeightOfAgar) {
		return nil, invalid("height of agar must be finite and not negative, got %s", num(p.HeightOfAgar))
	}
	if p.Sterility == "" {
		p.Sterility = SterilityOnce
	}
	if !p.Sterility.valid() {
		return nil, invalid("unknown sterility %q", p.Sterility)
	}
	p.ID = NewID()
	return &p, nil
}

type plateRecord struct {
	From         labware.Record `cty:"from"`
	To           labware.Record `cty:"to"`
	Volume       float64        `cty:"volume"`
	HeightOfAgar float64        `cty:"heightOfAgar"`
	Sterility    string         `cty:"sterility"`
}

func (p *Plate) Kind() Kind { return KindPlate }

func (p *Plate) Flow() volume.Flow {
	from, to := p.From, p.To
	return volume.Flow{Source: &from, Destination: &to, Volume: p.Volume}
}

func (p *Plate) Record() any {
	return plateRecord{
		From:         p.From.Record(),
		To:           p.To.Record(),
		Volume:       p.Volume,
		HeightOfAgar: p.HeightOfAgar,
		Sterility:    string(p.Sterility),
	}
}

func (p *Plate) Annotation() (comment.Line, error) { return annotate(p.Kind(), p.Record()) }

func (p *Plate) Emit(n Neighbors) (string, error) {
	args := []string{
		num(p.Volume),
		p.From.Expr(),
		fmt.Sprintf("%s.bottom(z=%s)", p.To.Expr(), num(p.HeightOfAgar)),
		fmt.Sprintf("new_tip='%s'", p.Sterility),
	}
	args = append(args, mixClauses(n, p.From, p.To)...)
	return render(p, "pipette.transfer("+strings.Join(args, ", ")+")")
}

func (p *Plate) endpoints() (labware.Well, labware.Well) { return p.From, p.To }

func (p *Plate) withID(id string) Step {
	c := *p
	c.ID = id
	return &c
}

// transferring is implemented by the steps that absorb adjacent mixes.
type transferring interface {
	endpoints() (from, to labware.Well)
}

// mixClauses returns the mix_before and mix_after arguments for a transfer
// between from and to.
func mixClauses(n Neighbors, from, to labware.Well) []string {
	var out []string
	if m, ok := n.Prev().(*Mix); ok && m.From == from {
		out = append(out, fmt.Sprintf("mix_before=(%d, %s)", m.Times, num(m.Volume)))
	}
	if m, ok := n.Next().(*Mix); ok && m.From == to {
		out = append(out, fmt.Sprintf("mix_after=(%d, %s)", m.Times, num(m.Volume)))
	}
	return out
}
