package mapdata

import "math"

// noLower marks maps without a lower radar level.
var noLower = math.Inf(-1)

// defaultTable is the compiled-in calibration for the current map pool.
// Origin is the world coordinate of the radar image's upper-left corner.
var defaultTable = map[string]Projection{
	"ar_baggage": {
		OriginX:       -1316,
		OriginY:       1288,
		Scale:         2.539062,
		Rotate:        true,
		Zoom:          1.3,
		LowerLevelMax: -5.0,
	},
	"ar_shoots": {
		OriginX:       -1368,
		OriginY:       1952,
		Scale:         2.6875,
		LowerLevelMax: noLower,
	},
	"cs_office": {
		OriginX:       -1838,
		OriginY:       1858,
		Scale:         4.1,
		LowerLevelMax: noLower,
	},
	"cs_italy": {
		OriginX:       -2647,
		OriginY:       2592,
		Scale:         4.6,
		Rotate:        true,
		Zoom:          1.5,
		LowerLevelMax: noLower,
	},
	"de_ancient": {
		OriginX:       -2953,
		OriginY:       2164,
		Scale:         5,
		LowerLevelMax: noLower,
	},
	"de_anubis": {
		OriginX:       -2796,
		OriginY:       3328,
		Scale:         5.22,
		LowerLevelMax: noLower,
	},
	"de_dust": {
		OriginX:       -2850,
		OriginY:       4073,
		Scale:         6,
		Rotate:        true,
		Zoom:          1.3,
		LowerLevelMax: noLower,
	},
	"de_dust2": {
		OriginX:       -2476,
		OriginY:       3239,
		Scale:         4.4,
		Rotate:        true,
		Zoom:          1.1,
		LowerLevelMax: noLower,
	},
	"de_inferno": {
		OriginX:       -2087,
		OriginY:       3870,
		Scale:         4.9,
		LowerLevelMax: noLower,
	},
	"de_inferno_s2": {
		OriginX:       -2087,
		OriginY:       3870,
		Scale:         4.9,
		LowerLevelMax: noLower,
	},
	"de_mirage": {
		OriginX:       -3230,
		OriginY:       1713,
		Scale:         5,
		LowerLevelMax: noLower,
	},
	"de_nuke": {
		OriginX:       -3453,
		OriginY:       2887,
		Scale:         7,
		LowerLevelMax: -495.0,
	},
	"de_overpass": {
		OriginX:       -4831,
		OriginY:       1781,
		Scale:         5.2,
		LowerLevelMax: noLower,
	},
	"de_vertigo": {
		OriginX:       -3168,
		OriginY:       1762,
		Scale:         4,
		LowerLevelMax: 11700.0,
	},
}
