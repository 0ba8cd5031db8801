package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/record"
	"github.com/specialistvlad/labprotocol/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func parse(t *testing.T, src string) error {
	t.Helper()
	_, err := NewLoader().Parse(context.Background(), []byte(src), "test.hcl")
	return err
}

const plating = `
protocol {
  name        = "Plating"
  author      = "lab"
  description = "spread culture"
}

labware "tubes" {
  type = "TubeRack15Falcon15"
  slot = 3
}

labware "tips" {
  type = "OpentronsTipRack"
  slot = 1
}

step "MIX" {
  from   = tubes.A1
  times  = 3
  volume = 200
}

step "PLATE" {
  from           = tubes.A1
  to             = well("FalconPetriDish90mm", 4, "A1")
  volume         = 100
  heightOfAgar   = 5
}

step "CHANGESPEED" {
  speeds = [50, 60, 70]
}
`

func TestLoader_Parse(t *testing.T) {
	p, err := NewLoader().Parse(context.Background(), []byte(plating), "plating.hcl")
	require.NoError(t, err)

	assert.Equal(t, "Plating", p.Name)
	assert.Equal(t, "lab", p.Author)
	assert.Equal(t, "spread culture", p.Description)

	require.Len(t, p.Labware, 2)
	assert.Equal(t, labware.Ref{Type: labware.TubeRack15Falcon15, Slot: 3}, p.Labware[0].Ref())
	assert.True(t, p.Labware[1].IsTipRack())

	require.Len(t, p.Steps, 3)
	mix := p.Steps[0].(*step.Mix)
	assert.Equal(t, "A1", mix.From.Location)
	assert.Equal(t, 3, mix.Times)

	plate := p.Steps[1].(*step.Plate)
	assert.Equal(t, labware.Ref{Type: labware.FalconPetriDish90mm, Slot: 4}, plate.To.Labware)
	assert.Equal(t, 5.0, plate.HeightOfAgar)
	assert.Equal(t, step.SterilityOnce, plate.Sterility, "omitted optional attributes keep their defaults")

	assert.Equal(t, [3]float64{50, 60, 70}, p.Steps[2].(*step.ChangeSpeed).Speeds)
}

func TestLoader_LoadAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-steps.hcl", `
step "WAIT" {
  duration = 5
}

step "ASPIRATE" {
  from   = plate.B2
  volume = 20
}
`)
	writeFile(t, dir, "00-deck.hcl", `
protocol {
  name = "Split"
}

labware "plate" {
  type = "WellPlate96"
  slot = 2
}
`)
	writeFile(t, dir, "README.md", "not a source")

	p, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "Split", p.Name)
	require.Len(t, p.Labware, 1)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, step.KindWait, p.Steps[0].Kind())
	assert.Equal(t, "B2", p.Steps[1].(*step.Aspirate).From.Location)
}

func TestLoader_LoadErrors(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	require.Error(t, err, "a directory without sources is an error")

	_, err = NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
}

func TestLoader_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr error
	}{
		{
			name: "duplicate protocol block",
			src:  "protocol {}\nprotocol {}\n",
		},
		{
			name: "unknown top-level block",
			src:  "robot {}\n",
		},
		{
			name: "duplicate labware label",
			src: `
labware "p" {
  type = "WellPlate96"
  slot = 1
}
labware "p" {
  type = "WellPlate6"
  slot = 2
}`,
		},
		{
			name:    "unknown labware type",
			src:     "labware \"p\" {\n  type = \"Bucket\"\n  slot = 1\n}\n",
			wantErr: labware.ErrUnknownType,
		},
		{
			name:    "trash slot",
			src:     "labware \"p\" {\n  type = \"WellPlate96\"\n  slot = 12\n}\n",
			wantErr: labware.ErrInvalidSlot,
		},
		{
			name: "slot conflict",
			src: `
labware "a" {
  type = "WellPlate96"
  slot = 1
}
labware "b" {
  type = "Reservoir12"
  slot = 1
}`,
		},
		{
			name: "unknown step kind",
			src:  "step \"SHAKE\" {\n  duration = 1\n}\n",
		},
		{
			name:    "missing required attribute",
			src:     "step \"WAIT\" {}\n",
			wantErr: record.ErrMissingAttribute,
		},
		{
			name:    "unknown attribute",
			src:     "step \"WAIT\" {\n  duration = 1\n  speed = 2\n}\n",
			wantErr: record.ErrUnknownAttribute,
		},
		{
			name: "undeclared labware variable",
			src:  "step \"ASPIRATE\" {\n  from = plate.A1\n  volume = 1\n}\n",
		},
		{
			name: "well outside the grid",
			src:  "labware \"plate\" {\n  type = \"WellPlate6\"\n  slot = 1\n}\nstep \"ASPIRATE\" {\n  from = plate.H12\n  volume = 1\n}\n",
		},
		{
			name: "well function with bad location",
			src:  "step \"ASPIRATE\" {\n  from = well(\"WellPlate6\", 1, \"Z9\")\n  volume = 1\n}\n",
		},
		{
			name:    "invalid value",
			src:     "step \"WAIT\" {\n  duration = -3\n}\n",
			wantErr: step.ErrInvalidStep,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := parse(t, tc.src)
			require.Error(t, err)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
