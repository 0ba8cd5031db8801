package app

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/specialistvlad/labprotocol/internal/labware"
)

// ListLabware prints the labware catalogue as a table.
func (a *App) ListLabware() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLOAD NAME\tWELLS\tDIAMETER (mm)\tHEIGHT (mm)")
	for _, t := range labware.Types() {
		def, err := labware.Lookup(t)
		if err != nil {
			return err
		}

		wells, diameter, height := "-", "-", "-"
		if def.WellBearing() {
			wells = fmt.Sprintf("%dx%d", def.Rows, def.Columns)
			diameter = strconv.FormatFloat(def.Diameter, 'f', -1, 64)
		}
		if def.HasHeight {
			height = strconv.FormatFloat(def.Height, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", def.Type, def.LoadName, wells, diameter, height)
	}
	return tw.Flush()
}
