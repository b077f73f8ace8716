// Package modules lists the job kinds compiled into the tilegrid binary.
package modules

import (
	"github.com/specialistvlad/tilegrid/internal/registry"
	"github.com/specialistvlad/tilegrid/modules/coherent"
	"github.com/specialistvlad/tilegrid/modules/matchedfilter"
	"github.com/specialistvlad/tilegrid/modules/splitbank"
	"github.com/specialistvlad/tilegrid/modules/static"
	"github.com/specialistvlad/tilegrid/modules/templatebank"
)

// Core is the definitive list of all built-in job kinds.
var Core = []registry.Module{
	&static.Module{},
	&matchedfilter.Module{},
	&templatebank.Module{},
	&splitbank.Module{},
	&coherent.Module{},
}
