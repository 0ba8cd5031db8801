// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file turns records back into steps. The same decoders serve the
// structured comments of a generated program and the step blocks of an HCL
// source, which differ only in their record.Source.
package step

import (
	"fmt"

	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/record"
	"github.com/zclconf/go-cty/cty"
)

type decoder func(src record.Source) (Step, error)

// kinds lists the decodable variants in the order they are documented.
var kinds = []Kind{
	KindTransfer,
	KindAspirate,
	KindDispense,
	KindMix,
	KindLaser,
	KindWait,
	KindPlate,
	KindChangeSpeed,
}

var decoders = map[Kind]decoder{
	KindTransfer:    decodeTransfer,
	KindAspirate:    decodeAspirate,
	KindDispense:    decodeDispense,
	KindMix:         decodeMix,
	KindLaser:       decodeLaser,
	KindWait:        decodeWait,
	KindPlate:       decodePlate,
	KindChangeSpeed: decodeChangeSpeed,
}

// Kinds returns every decodable step kind.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// LookupKind maps a comment tag or block label to its step kind. The
// placeholder is not decodable and is never found.
func LookupKind(tag string) (Kind, bool) {
	k := Kind(tag)
	_, ok := decoders[k]
	return k, ok
}

// Decode builds a step of kind from src.
func Decode(kind Kind, src record.Source) (Step, error) {
	dec, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown step kind %q", kind)
	}
	s, err := dec(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return s, nil
}

// Reconstruct builds a step of kind from the payload of its structured
// comment.
func Reconstruct(kind Kind, payload string) (Step, error) {
	return Decode(kind, record.JSON(payload))
}

// Value returns the record of s as a cty object.
func Value(s Step) (cty.Value, error) {
	return record.Value(s.Record())
}

func resolve(recs ...labware.Record) ([]labware.Well, error) {
	wells := make([]labware.Well, len(recs))
	for i, r := range recs {
		w, err := r.Resolve()
		if err != nil {
			return nil, err
		}
		wells[i] = w
	}
	return wells, nil
}

func decodeTransfer(src record.Source) (Step, error) {
	rec := transferRecord{
		Sterility:       string(SterilityOnce),
		BlowoutLocation: string(BlowoutTrash),
	}
	if err := src.Decode(&rec, "from", "to", "volume"); err != nil {
		return nil, err
	}
	wells, err := resolve(rec.From, rec.To)
	if err != nil {
		return nil, err
	}
	return NewTransfer(Transfer{
		From:            wells[0],
		To:              wells[1],
		Volume:          rec.Volume,
		Sterility:       Sterility(rec.Sterility),
		TouchTip:        rec.TouchTip,
		BlowOut:         rec.BlowOut,
		BlowoutLocation: BlowoutLocation(rec.BlowoutLocation),
	})
}

func decodePlate(src record.Source) (Step, error) {
	rec := plateRecord{Sterility: string(SterilityOnce)}
	if err := src.Decode(&rec, "from", "to", "volume"); err != nil {
		return nil, err
	}
	wells, err := resolve(rec.From, rec.To)
	if err != nil {
		return nil, err
	}
	return NewPlate(Plate{
		From:         wells[0],
		To:           wells[1],
		Volume:       rec.Volume,
		HeightOfAgar: rec.HeightOfAgar,
		Sterility:    Sterility(rec.Sterility),
	})
}

func decodeAspirate(src record.Source) (Step, error) {
	var rec aspirateRecord
	if err := src.Decode(&rec, "from", "volume"); err != nil {
		return nil, err
	}
	from, err := rec.From.Resolve()
	if err != nil {
		return nil, err
	}
	return NewAspirate(Aspirate{From: from, Volume: rec.Volume})
}

func decodeDispense(src record.Source) (Step, error) {
	var rec dispenseRecord
	if err := src.Decode(&rec, "to", "volume"); err != nil {
		return nil, err
	}
	to, err := rec.To.Resolve()
	if err != nil {
		return nil, err
	}
	return NewDispense(Dispense{To: to, Volume: rec.Volume})
}

func decodeMix(src record.Source) (Step, error) {
	rec := mixRecord{Times: 1}
	if err := src.Decode(&rec, "from", "volume"); err != nil {
		return nil, err
	}
	from, err := rec.From.Resolve()
	if err != nil {
		return nil, err
	}
	return NewMix(Mix{From: from, Times: rec.Times, Volume: rec.Volume})
}

func decodeLaser(src record.Source) (Step, error) {
	var rec laserRecord
	if err := src.Decode(&rec, "location", "duration"); err != nil {
		return nil, err
	}
	loc, err := rec.Location.Resolve()
	if err != nil {
		return nil, err
	}
	return NewLaser(Laser{Location: loc, Duration: rec.Duration})
}

func decodeWait(src record.Source) (Step, error) {
	var rec waitRecord
	if err := src.Decode(&rec, "duration"); err != nil {
		return nil, err
	}
	return NewWait(Wait{Duration: rec.Duration})
}

func decodeChangeSpeed(src record.Source) (Step, error) {
	var rec changeSpeedRecord
	if err := src.Decode(&rec, "speeds"); err != nil {
		return nil, err
	}
	if len(rec.Speeds) != 3 {
		return nil, invalid("expected 3 flow rates (aspirate, dispense, blow out), got %d", len(rec.Speeds))
	}
	var c ChangeSpeed
	copy(c.Speeds[:], rec.Speeds)
	return NewChangeSpeed(c)
}
