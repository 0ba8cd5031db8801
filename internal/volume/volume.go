// Package volume tracks the liquid left in a well by replaying the liquid
// movements of earlier steps. Its only consumer is laser positioning, which
// needs the height of the liquid surface above the well bottom.
package volume

import (
	"math"

	"github.com/specialistvlad/labprotocol/internal/labware"
)

// Flow is the liquid movement a step performs. A nil Source or Destination
// means the step takes from or adds to no well on that side.
type Flow struct {
	Source      *labware.Well
	Destination *labware.Well
	Volume      float64
}

// Mover is implemented by anything that moves liquid between wells.
type Mover interface {
	Flow() Flow
}

// NetVolume returns the volume added to well minus the volume taken from it
// across history.
func NetVolume[M Mover](well labware.Well, history []M) float64 {
	var net float64
	for _, m := range history {
		f := m.Flow()
		if f.Destination != nil && *f.Destination == well {
			net += f.Volume
		}
		if f.Source != nil && *f.Source == well {
			net -= f.Volume
		}
	}
	return net
}

// HeightAboveWellBottom returns the liquid height in well after history, in
// millimetres rounded to two decimals, treating the well as a cylinder.
//
// A net volume of exactly zero is read as a full well and yields the rated
// height of the well, so labware without a rated height fails in that case.
// Results are not bounds-checked: they may be negative or exceed the well.
func HeightAboveWellBottom[M Mover](well labware.Well, history []M) (float64, error) {
	net := NetVolume(well, history)
	if net == 0 {
		return well.Height()
	}
	diameter, err := well.Diameter()
	if err != nil {
		return 0, err
	}
	radius := diameter / 2
	height := net / (math.Pi * radius * radius)
	return math.Round(height*100) / 100, nil
}
