// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package step is the model of the operations a protocol is made of.
//
// # Core Concepts
//
//   - Step: a closed set of variants (Transfer, Plate, Aspirate, Dispense,
//     Mix, Laser, Wait, ChangeSpeed, plus an unexported placeholder). Each
//     variant carries only the fields of its kind.
//
//   - Emit: every variant renders its own program text: first its structured
//     comment, then its instructions. It is given read-only Neighbors, the
//     steps before and after it, and never looks further than the adjacent
//     step, except Laser, which replays all earlier steps through the volume
//     tracker.
//
//   - Record: the plain-data form of a step. It is the payload of the
//     structured comment and the schema of a `step` block in HCL sources.
//     Decode turns a record back into a step, resolving wells through the
//     labware geometry model.
//
// Why do adjacent steps interact?
//
// A Mix right before a Transfer from the same well, or right after a Transfer
// into the same well, is physically part of that transfer. The Transfer folds
// the mix into its own instruction and the Mix then emits nothing but its
// comment, so the liquid is mixed once while both steps stay distinct entries
// of the model and survive a round trip.
package step
