package main

// EntityKind is a closed set of collidable entity categories. Collision
// handlers are registered against unordered pairs of kinds, so adding a
// kind here is the only way to make it participate in dispatch.
type EntityKind uint8

const (
	KindCannon EntityKind = iota
	KindInvader
	KindUFO
	KindBunker
	KindPlayerShot
	KindInvaderShot
)

var kindNames = [...]string{"cannon", "invader", "ufo", "bunker", "pshot", "ishot"}

func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Box is an axis-aligned bounding box in world coordinates.
type Box struct {
	X, Y, W, H float64
}

// Overlaps reports whether two boxes intersect. Touching edges do not
// count, the comparison is strict on both axes.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X &&
		b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

// Collidable is anything the collision system and spatial grid can track.
// Entities remain owned by whatever created them; the grid and the
// collision system hold non-owning references and must be told explicitly
// when an entity goes away.
type Collidable interface {
	EntityID() string
	EntityKind() EntityKind
	IsActive() bool
	Bounds() Box
}
