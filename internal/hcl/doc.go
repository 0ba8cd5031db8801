// Package hcl reads and writes protocol sources in HCL.
//
// A source declares one optional `protocol` block with the metadata, any
// number of `labware "<label>"` blocks and the ordered `step "<KIND>"`
// blocks:
//
//	protocol {
//	  name   = "Plating"
//	  author = "lab"
//	}
//
//	labware "plate" {
//	  type = "WellPlate96"
//	  slot = 1
//	}
//
//	step "TRANSFER" {
//	  from   = plate.A1
//	  to     = well("WellPlate96", 1, "B1")
//	  volume = 50
//	}
//
// Every labware label is a variable whose attributes are its wells, and the
// well(type, slot, location) function addresses any well directly. Step
// attributes are the fields of the step record; optional ones keep their
// defaults when omitted.
//
// Sources may be split over several files. Labware from every file is in
// scope for every step, and blocks keep file order then position order.
package hcl
