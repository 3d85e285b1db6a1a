package core

import "encoding/json"

// Position3D represents a 3D world coordinate in engine units
type Position3D struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
	Z float64 `json:"z"` // height
}

// UnmarshalJSON accepts either an object {"x":..,"y":..,"z":..} or a
// compact [x,y,z] array, which is how extraction pipelines usually dump
// position lists.
func (p *Position3D) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var arr []float64
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) > 0 {
			p.X = arr[0]
		}
		if len(arr) > 1 {
			p.Y = arr[1]
		}
		if len(arr) > 2 {
			p.Z = arr[2]
		}
		return nil
	}
	type plain Position3D
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Position3D(v)
	return nil
}
