// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Step interface shared by every variant together with
// identity, neighbor context and the policy enums.
package step

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/specialistvlad/labprotocol/internal/record"
	"github.com/specialistvlad/labprotocol/internal/volume"
)

// Kind names a step variant. The string value is also its comment tag.
type Kind string

const (
	KindTransfer    Kind = "TRANSFER"
	KindAspirate    Kind = "ASPIRATE"
	KindDispense    Kind = "DISPENSE"
	KindMix         Kind = "MIX"
	KindLaser       Kind = "LASER"
	KindWait        Kind = "WAIT"
	KindPlate       Kind = "PLATE"
	KindChangeSpeed Kind = "CHANGESPEED"
	KindPlaceholder Kind = "PLACEHOLDER"
)

// ErrInvalidStep is returned by constructors for incomplete or out of range
// fields.
var ErrInvalidStep = errors.New("invalid step")

// Step is one operation of a protocol.
type Step interface {
	volume.Mover

	// StepID returns the identity assigned at creation.
	StepID() string
	Kind() Kind
	// Emit renders the structured comment followed by the instructions of
	// the step.
	Emit(n Neighbors) (string, error)
	// Annotation returns the structured comment of the step.
	Annotation() (comment.Line, error)
	// Record returns the plain-data form of the step.
	Record() any

	withID(id string) Step
}

// Ident carries the identity of a step. It is stable across edits and is
// not part of the generated program.
type Ident struct {
	ID string
}

// StepID implements Step.
func (i Ident) StepID() string { return i.ID }

// NewID returns a fresh step identity.
func NewID() string {
	return uuid.NewString()
}

// Copy duplicates s under a fresh identity.
func Copy(s Step) Step {
	return s.withID(NewID())
}

// Neighbors is the read-only view a step gets of the protocol around it.
type Neighbors struct {
	// Before holds every step preceding this one, in order.
	Before []Step
	// After holds every step following this one, in order.
	After []Step
}

// Prev returns the step directly before, or nil.
func (n Neighbors) Prev() Step {
	if len(n.Before) == 0 {
		return nil
	}
	return n.Before[len(n.Before)-1]
}

// Next returns the step directly after, or nil.
func (n Neighbors) Next() Step {
	if len(n.After) == 0 {
		return nil
	}
	return n.After[0]
}

// Sterility is the tip change policy of a transfer.
type Sterility string

const (
	SterilityOnce   Sterility = "once"
	SterilityAlways Sterility = "always"
	SterilityNever  Sterility = "never"
)

func (s Sterility) valid() bool {
	switch s {
	case SterilityOnce, SterilityAlways, SterilityNever:
		return true
	}
	return false
}

// BlowoutLocation is where excess liquid is expelled.
type BlowoutLocation string

const (
	BlowoutSourceWell      BlowoutLocation = "source well"
	BlowoutDestinationWell BlowoutLocation = "destination well"
	BlowoutTrash           BlowoutLocation = "trash"
)

func (b BlowoutLocation) valid() bool {
	switch b {
	case BlowoutSourceWell, BlowoutDestinationWell, BlowoutTrash:
		return true
	}
	return false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidStep, fmt.Sprintf(format, args...))
}

// positive reports whether v is a finite number above zero. NaN fails.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// annotate builds the structured comment of kind carrying rec.
func annotate(kind Kind, rec any) (comment.Line, error) {
	payload, err := record.Encode(rec)
	if err != nil {
		return comment.Line{}, fmt.Errorf("%s: %w", kind, err)
	}
	return comment.Line{Tag: string(kind), Payload: payload}, nil
}

// render joins the structured comment of s with its instruction lines.
func render(s Step, instructions ...string) (string, error) {
	line, err := s.Annotation()
	if err != nil {
		return "", err
	}
	return strings.Join(append([]string{line.String()}, instructions...), "\n"), nil
}

// num formats a number the shortest way that reads back identically.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// pyBool formats a Python boolean literal.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// placeholder stands for "no step selected". It emits nothing.
type placeholder struct {
	Ident
}

// Placeholder returns the sentinel step used while nothing is selected.
func Placeholder() Step {
	return &placeholder{Ident: Ident{ID: NewID()}}
}

// IsPlaceholder reports whether s is the placeholder sentinel.
func IsPlaceholder(s Step) bool {
	_, ok := s.(*placeholder)
	return ok
}

func (p *placeholder) Kind() Kind { return KindPlaceholder }
func (p *placeholder) Flow() volume.Flow { return volume.Flow{} }
func (p *placeholder) Emit(Neighbors) (string, error) { return "", nil }
func (p *placeholder) Annotation() (comment.Line, error) { return comment.Line{Tag: string(KindPlaceholder)}, nil }
func (p *placeholder) Record() any { return struct{}{} }

func (p *placeholder) withID(id string) Step {
	c := *p
	c.ID = id
	return &c
}
