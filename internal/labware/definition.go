// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the labware catalogue. Dimensions are in millimetres and
// come from the manufacturer datasheets behind each Opentrons load name.
package labware

import (
	"fmt"
	"sort"
)

// Type names a labware kind. The string value is also the tag used for the
// kind in structured comments.
type Type string

const (
	OpentronsTipRack      Type = "OpentronsTipRack"
	WellPlate6            Type = "WellPlate6"
	WellPlate12           Type = "WellPlate12"
	WellPlate24           Type = "WellPlate24"
	WellPlate48           Type = "WellPlate48"
	WellPlate96           Type = "WellPlate96"
	Reservoir12           Type = "Reservoir12"
	TubeRack15Falcon15    Type = "TubeRack15Falcon15"
	TubeRack24Eppendorf15 Type = "TubeRack24Eppendorf15"
	FalconPetriDish90mm   Type = "FalconPetriDish90mm"
)

// rowLetters is the alphabet prefix wells are addressed with.
const rowLetters = "ABCDEFGHIJKLMNOP"

// Definition describes the fixed properties of one labware Type.
type Definition struct {
	Type     Type
	LoadName string
	// NameFormat is a fmt pattern taking the slot number.
	NameFormat string
	// Rows and Columns are zero for labware without wells.
	Rows    int
	Columns int
	// Diameter and Height of a single well.
	Diameter  float64
	Height    float64
	HasHeight bool
}

// WellBearing reports whether the definition exposes a grid of wells.
func (d *Definition) WellBearing() bool {
	return d.Rows > 0 && d.Columns > 0
}

var definitions = map[Type]*Definition{
	OpentronsTipRack: {
		Type:       OpentronsTipRack,
		LoadName:   "opentrons_96_tiprack_300ul",
		NameFormat: "the_tip_rack_in_%d",
	},
	WellPlate6: {
		Type:       WellPlate6,
		LoadName:   "corning_6_wellplate_16.8ml_flat",
		NameFormat: "the_6_well_plate_in_%d",
		Rows:       2,
		Columns:    3,
		Diameter:   35.43,
		Height:     17.4,
		HasHeight:  true,
	},
	WellPlate12: {
		Type:       WellPlate12,
		LoadName:   "corning_12_wellplate_6.9ml_flat",
		NameFormat: "the_12_well_plate_in_%d",
		Rows:       3,
		Columns:    4,
		Diameter:   22.73,
		Height:     17.53,
		HasHeight:  true,
	},
	WellPlate24: {
		Type:       WellPlate24,
		LoadName:   "corning_24_wellplate_3.4ml_flat",
		NameFormat: "the_24_well_plate_in_%d",
		Rows:       4,
		Columns:    6,
		Diameter:   16.26,
		Height:     17.4,
		HasHeight:  true,
	},
	WellPlate48: {
		Type:       WellPlate48,
		LoadName:   "corning_48_wellplate_1.6ml_flat",
		NameFormat: "the_48_well_plate_in_%d",
		Rows:       6,
		Columns:    8,
		Diameter:   11.56,
		Height:     17.4,
		HasHeight:  true,
	},
	WellPlate96: {
		Type:       WellPlate96,
		LoadName:   "corning_96_wellplate_360ul_flat",
		NameFormat: "the_96_well_plate_in_%d",
		Rows:       8,
		Columns:    12,
		Diameter:   6.86,
		Height:     10.67,
		HasHeight:  true,
	},
	Reservoir12: {
		Type:       Reservoir12,
		LoadName:   "usascientific_12_reservoir_22ml",
		NameFormat: "the_12_reservoir_in_%d",
		Rows:       1,
		Columns:    12,
		Diameter:   8.33,
	},
	TubeRack15Falcon15: {
		Type:       TubeRack15Falcon15,
		LoadName:   "opentrons_15_tuberack_falcon_15ml_conical",
		NameFormat: "the_15_tube_rack_in_%d",
		Rows:       3,
		Columns:    5,
		Diameter:   14.9,
	},
	TubeRack24Eppendorf15: {
		Type:       TubeRack24Eppendorf15,
		LoadName:   "opentrons_24_tuberack_eppendorf_1.5ml_safelock_snapcap",
		NameFormat: "the_24_tube_rack_in_%d",
		Rows:       4,
		Columns:    6,
		Diameter:   8.69,
	},
	FalconPetriDish90mm: {
		Type:       FalconPetriDish90mm,
		LoadName:   "falcon_petri_dish_90mm",
		NameFormat: "the_petri_dish_in_%d",
		Rows:       1,
		Columns:    1,
		Diameter:   86.0,
		Height:     14.2,
		HasHeight:  true,
	},
}

// Lookup returns the definition registered for t.
func Lookup(t Type) (*Definition, error) {
	def, ok := definitions[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	return def, nil
}

// IsType reports whether s names a known labware type.
func IsType(s string) bool {
	_, ok := definitions[Type(s)]
	return ok
}

// Types returns every known labware type in lexical order.
func Types() []Type {
	types := make([]Type, 0, len(definitions))
	for t := range definitions {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
