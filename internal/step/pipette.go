// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the single-action pipette steps: Aspirate, Dispense and
// Mix. Tip handling between them depends on the adjacent step.
package step

import (
	"fmt"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/volume"
)

const (
	pickUpTip = "pipette.pick_up_tip()"
	dropTip   = "pipette.drop_tip()"
)

// Aspirate draws Volume µL from a well into the current tip.
type Aspirate struct {
	Ident
	From   labware.Well
	Volume float64
}

// NewAspirate validates a and assigns an identity.
func NewAspirate(a Aspirate) (*Aspirate, error) {
	if a.From.IsZero() {
		return nil, invalid("aspirate needs a source well")
	}
	if !positive(a.Volume) {
		return nil, invalid("aspirate volume must be positive and finite, got %s", num(a.Volume))
	}
	a.ID = NewID()
	return &a, nil
}

type aspirateRecord struct {
	From   labware.Record `cty:"from"`
	Volume float64        `cty:"volume"`
}

func (a *Aspirate) Kind() Kind { return KindAspirate }

func (a *Aspirate) Flow() volume.Flow {
	from := a.From
	return volume.Flow{Source: &from, Volume: a.Volume}
}

func (a *Aspirate) Record() any {
	return aspirateRecord{From: a.From.Record(), Volume: a.Volume}
}

func (a *Aspirate) Annotation() (comment.Line, error) { return annotate(a.Kind(), a.Record()) }

// Emit picks up a tip unless a Mix on the same well just left one mounted.
func (a *Aspirate) Emit(n Neighbors) (string, error) {
	var lines []string
	if m, ok := n.Prev().(*Mix); !ok || m.From != a.From {
		lines = append(lines, pickUpTip)
	}
	lines = append(lines, fmt.Sprintf("pipette.aspirate(%s, %s)", num(a.Volume), a.From.Expr()))
	return render(a, lines...)
}

func (a *Aspirate) withID(id string) Step {
	c := *a
	c.ID = id
	return &c
}

// Dispense empties Volume µL from the current tip into a well and discards
// the tip.
type Dispense struct {
	Ident
	To     labware.Well
	Volume float64
}

// NewDispense validates d and assigns an identity.
func NewDispense(d Dispense) (*Dispense, error) {
	if d.To.IsZero() {
		return nil, invalid("dispense needs a destination well")
	}
	if !positive(d.Volume) {
		return nil, invalid("dispense volume must be positive and finite, got %s", num(d.Volume))
	}
	d.ID = NewID()
	return &d, nil
}

type dispenseRecord struct {
	To     labware.Record `cty:"to"`
	Volume float64        `cty:"volume"`
}

func (d *Dispense) Kind() Kind { return KindDispense }

func (d *Dispense) Flow() volume.Flow {
	to := d.To
	return volume.Flow{Destination: &to, Volume: d.Volume}
}

func (d *Dispense) Record() any {
	return dispenseRecord{To: d.To.Record(), Volume: d.Volume}
}

func (d *Dispense) Annotation() (comment.Line, error) { return annotate(d.Kind(), d.Record()) }

func (d *Dispense) Emit(Neighbors) (string, error) {
	return render(d, fmt.Sprintf("pipette.dispense(%s, %s)", num(d.Volume), d.To.Expr()), dropTip)
}

func (d *Dispense) withID(id string) Step {
	c := *d
	c.ID = id
	return &c
}

// Mix aspirates and dispenses Volume µL in the same well Times times. It
// moves no liquid between wells.
type Mix struct {
	Ident
	From   labware.Well
	Times  int
	Volume float64
}

// NewMix validates m and assigns an identity.
func NewMix(m Mix) (*Mix, error) {
	if m.From.IsZero() {
		return nil, invalid("mix needs a well")
	}
	if m.Times < 1 {
		return nil, invalid("mix repetitions must be at least 1, got %d", m.Times)
	}
	if !positive(m.Volume) {
		return nil, invalid("mix volume must be positive and finite, got %s", num(m.Volume))
	}
	m.ID = NewID()
	return &m, nil
}

type mixRecord struct {
	From   labware.Record `cty:"from"`
	Times  int            `cty:"times"`
	Volume float64        `cty:"volume"`
}

func (m *Mix) Kind() Kind { return KindMix }

func (m *Mix) Flow() volume.Flow { return volume.Flow{} }

func (m *Mix) Record() any {
	return mixRecord{From: m.From.Record(), Times: m.Times, Volume: m.Volume}
}

func (m *Mix) Annotation() (comment.Line, error) { return annotate(m.Kind(), m.Record()) }

// Emit renders only the comment when an adjacent transfer absorbs the mix.
// Otherwise the mix runs on its own tip, which stays mounted when the next
// step aspirates from the same well.
func (m *Mix) Emit(n Neighbors) (string, error) {
	if m.absorbed(n) {
		return render(m)
	}
	lines := []string{
		pickUpTip,
		fmt.Sprintf("pipette.mix(%d, %s, %s)", m.Times, num(m.Volume), m.From.Expr()),
	}
	if a, ok := n.Next().(*Aspirate); !ok || a.From != m.From {
		lines = append(lines, dropTip)
	}
	return render(m, lines...)
}

func (m *Mix) absorbed(n Neighbors) bool {
	if t, ok := n.Prev().(transferring); ok {
		if _, to := t.endpoints(); to == m.From {
			return true
		}
	}
	if t, ok := n.Next().(transferring); ok {
		if from, _ := t.endpoints(); from == m.From {
			return true
		}
	}
	return false
}

func (m *Mix) withID(id string) Step {
	c := *m
	c.ID = id
	return &c
}
