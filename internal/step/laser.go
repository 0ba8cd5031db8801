// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the steps that move no liquid: Laser, Wait and
// ChangeSpeed.
package step

import (
	"fmt"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/volume"
)

// Laser fires the laser for Duration seconds at the liquid surface of a well.
type Laser struct {
	Ident
	Location labware.Well
	Duration float64
}

// NewLaser validates l and assigns an identity.
func NewLaser(l Laser) (*Laser, error) {
	if l.Location.IsZero() {
		return nil, invalid("laser needs a target well")
	}
	if !positive(l.Duration) {
		return nil, invalid("laser duration must be positive and finite, got %s", num(l.Duration))
	}
	l.ID = NewID()
	return &l, nil
}

type laserRecord struct {
	Location labware.Record `cty:"location"`
	Duration float64        `cty:"duration"`
}

func (l *Laser) Kind() Kind { return KindLaser }

func (l *Laser) Flow() volume.Flow { return volume.Flow{} }

func (l *Laser) Record() any {
	return laserRecord{Location: l.Location.Record(), Duration: l.Duration}
}

func (l *Laser) Annotation() (comment.Line, error) { return annotate(l.Kind(), l.Record()) }

// Emit positions the laser at the liquid height left by every earlier step.
func (l *Laser) Emit(n Neighbors) (string, error) {
	offset, err := volume.HeightAboveWellBottom(l.Location, n.Before)
	if err != nil {
		return "", fmt.Errorf("laser at %s: %w", l.Location, err)
	}
	return render(l,
		fmt.Sprintf("laserController.move_to(%s, offset=%s)", l.Location.Expr(), num(offset)),
		fmt.Sprintf("laserController.fire(duration=%s)", num(l.Duration)),
	)
}

func (l *Laser) withID(id string) Step {
	c := *l
	c.ID = id
	return &c
}

// Wait pauses the robot for Duration seconds.
type Wait struct {
	Ident
	Duration float64
}

// NewWait validates w and assigns an identity.
func NewWait(w Wait) (*Wait, error) {
	if !positive(w.Duration) {
		return nil, invalid("wait duration must be positive and finite, got %s", num(w.Duration))
	}
	w.ID = NewID()
	return &w, nil
}

type waitRecord struct {
	Duration float64 `cty:"duration"`
}

func (w *Wait) Kind() Kind { return KindWait }
func (w *Wait) Flow() volume.Flow { return volume.Flow{} }
func (w *Wait) Record() any { return waitRecord{Duration: w.Duration} }
func (w *Wait) Annotation() (comment.Line, error) { return annotate(w.Kind(), w.Record()) }

func (w *Wait) Emit(Neighbors) (string, error) {
	return render(w, fmt.Sprintf("protocol.delay(seconds=%s)", num(w.Duration)))
}

func (w *Wait) withID(id string) Step {
	c := *w
	c.ID = id
	return &c
}

// ChangeSpeed sets the pipette flow rates, in µL/s, for aspirate, dispense
// and blow out, in that order.
type ChangeSpeed struct {
	Ident
	Speeds [3]float64
}

// NewChangeSpeed validates c and assigns an identity.
func NewChangeSpeed(c ChangeSpeed) (*ChangeSpeed, error) {
	for i, s := range c.Speeds {
		if !positive(s) {
			return nil, invalid("flow rate %d must be positive and finite, got %s", i, num(s))
		}
	}
	c.ID = NewID()
	return &c, nil
}

type changeSpeedRecord struct {
	Speeds []float64 `cty:"speeds"`
}

func (c *ChangeSpeed) Kind() Kind { return KindChangeSpeed }
func (c *ChangeSpeed) Flow() volume.Flow { return volume.Flow{} }

func (c *ChangeSpeed) Record() any {
	return changeSpeedRecord{Speeds: append([]float64(nil), c.Speeds[:]...)}
}

func (c *ChangeSpeed) Annotation() (comment.Line, error) { return annotate(c.Kind(), c.Record()) }

func (c *ChangeSpeed) Emit(Neighbors) (string, error) {
	return render(c,
		"pipette.flow_rate.aspirate = "+num(c.Speeds[0]),
		"pipette.flow_rate.dispense = "+num(c.Speeds[1]),
		"pipette.flow_rate.blow_out = "+num(c.Speeds[2]),
	)
}

func (c *ChangeSpeed) withID(id string) Step {
	cp := *c
	cp.ID = id
	return &cp
}
