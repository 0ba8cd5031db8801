package hcl

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/protocol"
	"github.com/specialistvlad/labprotocol/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func must[S any](s S, err error) S {
	if err != nil {
		panic(err)
	}
	return s
}

func TestWrite_RoundTrip(t *testing.T) {
	plate := labware.MustNew(labware.WellPlate96, 1)
	rack := labware.MustNew(labware.OpentronsTipRack, 2)
	res := labware.MustNew(labware.Reservoir12, 3)
	w := func(l *labware.Labware, loc string) labware.Well { return must(l.Well(loc)) }
	// A well on labware that is not declared is written through well().
	stray := must(labware.MustNew(labware.WellPlate6, 9).Well("B3"))

	want := &protocol.Protocol{
		Name:        "Round \"trip\"",
		Author:      "lab",
		Description: "multi\nline",
		Labware:     []*labware.Labware{plate, rack, res},
		Steps: []step.Step{
			must(step.NewTransfer(step.Transfer{From: w(res, "A1"), To: w(plate, "A1"), Volume: 120.5, TouchTip: true, BlowOut: true, BlowoutLocation: step.BlowoutSourceWell})),
			must(step.NewMix(step.Mix{From: w(plate, "A1"), Times: 2, Volume: 60})),
			must(step.NewAspirate(step.Aspirate{From: w(plate, "A1"), Volume: 30})),
			must(step.NewDispense(step.Dispense{To: stray, Volume: 30})),
			must(step.NewLaser(step.Laser{Location: w(plate, "A1"), Duration: 0.25})),
			must(step.NewWait(step.Wait{Duration: 10})),
			must(step.NewChangeSpeed(step.ChangeSpeed{Speeds: [3]float64{46.43, 46.43, 92.86}})),
		},
	}

	src, err := Write(want)
	require.NoError(t, err)
	assert.Contains(t, string(src), `labware "the_96_well_plate_in_1" {`)
	assert.Contains(t, string(src), "the_96_well_plate_in_1.A1")
	assert.Contains(t, string(src), `well("WellPlate6", 9, "B3")`)

	got, err := NewLoader().Parse(context.Background(), src, "roundtrip.hcl")
	require.NoError(t, err, "source:\n%s", src)

	opts := cmp.Options{
		cmpopts.IgnoreTypes(step.Ident{}),
		cmp.Comparer(func(a, b *labware.Labware) bool { return a.Ref() == b.Ref() }),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\nsource:\n%s", diff, src)
	}
}

func TestWrite_SkipsPlaceholders(t *testing.T) {
	src, err := Write(&protocol.Protocol{Steps: []step.Step{step.Placeholder()}})
	require.NoError(t, err)
	assert.NotContains(t, string(src), "step")
}

func TestWrite_SlotConflict(t *testing.T) {
	_, err := Write(&protocol.Protocol{Labware: []*labware.Labware{
		labware.MustNew(labware.WellPlate96, 5),
		labware.MustNew(labware.WellPlate96, 5),
	}})
	var conflict *protocol.SlotConflictError
	require.ErrorAs(t, err, &conflict)
}
