package store

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists every struct migrated into the schema.
var DatabaseModels = []interface{}{
	&Match{},
	&PlayerState{},
}

// Match is one recorded match on one map.
type Match struct {
	gorm.Model
	MapName  string `json:"mapName" gorm:"size:64;index"`
	Title    string `json:"title" gorm:"size:255"`
	TickRate float64 `json:"tickRate"`

	States []PlayerState
}

func (*Match) TableName() string {
	return "matches"
}

// PlayerState is one player's sampled state at one tick. Position carries
// x, y and height as a WKB XYZ point.
type PlayerState struct {
	gorm.Model
	MatchID uint `json:"matchId" gorm:"index:idx_playerstate_match_tick"`
	Tick    uint `json:"tick" gorm:"index:idx_playerstate_match_tick"`

	PlayerName string     `json:"playerName" gorm:"size:64"`
	Side       string     `json:"side" gorm:"size:16"` // ct or t
	Position   geom.Point `json:"position"`
	Health     int        `json:"health" gorm:"default:100"`
	Armor      int        `json:"armor" gorm:"default:0"`
	Pitch      float64    `json:"pitch"`
	Yaw        float64    `json:"yaw"`

	Loadout datatypes.JSON `json:"loadout"`
}

func (*PlayerState) TableName() string {
	return "player_states"
}
