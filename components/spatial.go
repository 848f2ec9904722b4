package components

// Position represents an entity's world position.
// Coordinates live in the centered world [-W/2, W/2] x [-H/2, H/2].
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y float32
}

// Waypoint is an exploration target for animals without anything better to do.
type Waypoint struct {
	X, Y             float32 `inspect:"skip"`
	ReachedThreshold float32 `inspect:"label,fmt:%.0f"`
}
