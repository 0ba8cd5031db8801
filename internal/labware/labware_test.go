package labware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WellGrid(t *testing.T) {
	testCases := []struct {
		name      string
		typ       Type
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{name: "96 well plate", typ: WellPlate96, wantCount: 96, wantFirst: "A1", wantLast: "H12"},
		{name: "6 well plate", typ: WellPlate6, wantCount: 6, wantFirst: "A1", wantLast: "B3"},
		{name: "reservoir", typ: Reservoir12, wantCount: 12, wantFirst: "A1", wantLast: "A12"},
		{name: "falcon tube rack", typ: TubeRack15Falcon15, wantCount: 15, wantFirst: "A1", wantLast: "C5"},
		{name: "petri dish", typ: FalconPetriDish90mm, wantCount: 1, wantFirst: "A1", wantLast: "A1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.typ, 3)
			require.NoError(t, err)

			wells := l.Wells()
			require.Len(t, wells, tc.wantCount)
			assert.Equal(t, tc.wantFirst, wells[0].Location)
			assert.Equal(t, tc.wantLast, wells[len(wells)-1].Location)
			for _, w := range wells {
				assert.Equal(t, l.Ref(), w.Labware)
			}
		})
	}
}

func TestNew_RowMajorOrder(t *testing.T) {
	l := MustNew(WellPlate12, 1)
	var got []string
	for _, w := range l.Wells() {
		got = append(got, w.Location)
	}
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "B1", "B2", "B3", "B4", "C1", "C2", "C3", "C4"}, got)
}

func TestNew_TipRackHasNoWells(t *testing.T) {
	l, err := New(OpentronsTipRack, 2)
	require.NoError(t, err)
	assert.True(t, l.IsTipRack())
	assert.Empty(t, l.Wells())
	assert.Equal(t, "the_tip_rack_in_2", l.Name())

	_, err = l.Well("A1")
	require.ErrorIs(t, err, ErrUnknownWell)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Type("Bucket"), 1)
	require.ErrorIs(t, err, ErrUnknownType)

	for _, slot := range []int{0, -1, TrashSlot, 13} {
		_, err := New(WellPlate96, slot)
		require.ErrorIs(t, err, ErrInvalidSlot, "slot %d", slot)
	}
}

func TestNames(t *testing.T) {
	testCases := map[Type]string{
		WellPlate96:           "the_96_well_plate_in_4",
		WellPlate24:           "the_24_well_plate_in_4",
		Reservoir12:           "the_12_reservoir_in_4",
		TubeRack24Eppendorf15: "the_24_tube_rack_in_4",
		FalconPetriDish90mm:   "the_petri_dish_in_4",
		OpentronsTipRack:      "the_tip_rack_in_4",
	}
	for typ, want := range testCases {
		assert.Equal(t, want, MustNew(typ, 4).Name())
	}
}

func TestDeclaration(t *testing.T) {
	l := MustNew(WellPlate96, 1)
	assert.Equal(t, "the_96_well_plate_in_1 = protocol.load_labware('corning_96_wellplate_360ul_flat', 1)", l.Declaration())
}

func TestWell_Equality(t *testing.T) {
	a := MustNew(WellPlate96, 1)
	b := MustNew(WellPlate96, 1)
	c := MustNew(WellPlate96, 2)

	wa, err := a.Well("C4")
	require.NoError(t, err)
	wb, err := b.Well("C4")
	require.NoError(t, err)
	wc, err := c.Well("C4")
	require.NoError(t, err)

	assert.Equal(t, wa, wb, "same type, slot and location must be equal")
	assert.NotEqual(t, wa, wc)
	assert.Equal(t, "the_96_well_plate_in_1['C4']", wa.Expr())
}

func TestWell_Height(t *testing.T) {
	plate, err := MustNew(WellPlate96, 1).Well("A1")
	require.NoError(t, err)
	h, err := plate.Height()
	require.NoError(t, err)
	assert.Equal(t, 10.67, h)

	for _, typ := range []Type{Reservoir12, TubeRack15Falcon15, TubeRack24Eppendorf15} {
		w, err := MustNew(typ, 1).Well("A1")
		require.NoError(t, err)

		_, err = w.Height()
		require.ErrorIs(t, err, ErrHeightUndefined, "type %s", typ)

		d, err := w.Diameter()
		require.NoError(t, err)
		assert.Positive(t, d)
	}
}

func TestAnnotationAndReconstruct(t *testing.T) {
	l := MustNew(Reservoir12, 7)
	line, err := l.Annotation()
	require.NoError(t, err)
	assert.Equal(t, "# Reservoir12;{\"slot\":7}", line.String())

	got, err := Reconstruct(Reservoir12, line.Payload)
	require.NoError(t, err)
	assert.Equal(t, l.Ref(), got.Ref())
	assert.Equal(t, l.Wells(), got.Wells())
}

func TestReconstruct_Malformed(t *testing.T) {
	for _, payload := range []string{"", "{", "{}", `{"slot":"x"}`, `{"slot":1,"name":"x"}`, `{"slot":1.5}`} {
		_, err := Reconstruct(WellPlate96, payload)
		require.Error(t, err, "payload %q", payload)
	}
}

func TestRecord_Resolve(t *testing.T) {
	w, err := MustNew(WellPlate48, 5).Well("F8")
	require.NoError(t, err)

	got, err := w.Record().Resolve()
	require.NoError(t, err)
	assert.Equal(t, w, got)

	_, err = Record{WellPlateType: "WellPlate48", Slot: 5, LocationString: "Z99"}.Resolve()
	require.ErrorIs(t, err, ErrUnknownWell)

	_, err = Record{WellPlateType: "OpentronsTipRack", Slot: 5, LocationString: "A1"}.Resolve()
	require.ErrorIs(t, err, ErrUnknownWell)
}
