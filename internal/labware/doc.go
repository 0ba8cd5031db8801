// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package labware is the geometry model of the deck: the catalogue of
// supported containers, the instances placed in deck slots, and the wells
// addressable inside them.
//
// # Core Concepts
//
//   - Type: a closed set of container kinds (tip racks, well plates,
//     reservoirs, tube racks, petri dishes). Every Type maps to a Definition
//     holding its load name, grid and physical dimensions.
//
//   - Labware: one Type placed in one numbered slot. Its program name is
//     derived from the pair (Type, slot) and never stored, which is what lets
//     a parsed program rebuild exactly the same instance.
//
//   - Well: a value object naming a location (e.g. "C4") inside one Labware.
//     Wells compare with == and stay valid after the program text boundary
//     because they carry the owning (Type, slot) pair, not a pointer.
//
// Why fail on height?
//
// Tube racks and reservoirs have no single meaningful height. The height is
// only read by laser positioning, where a made-up default would silently move
// the laser to the wrong place, so reading it returns ErrHeightUndefined.
package labware
