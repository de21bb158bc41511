package game

import (
	"fmt"
	"math"
)

// BombType selects the trajectory an enemy projectile follows
type BombType uint8

const (
	BombStraight BombType = iota
	BombSine
	BombTracking
	BombPiercing
	BombCluster
	BombClusterFrag
	bombTypeCount
)

var bombTypeNames = [bombTypeCount]string{"STRAIGHT", "SINE", "TRACKING", "PIERCING", "CLUSTER", "CLUSTER_FRAG"}

func (t BombType) String() string {
	if t >= bombTypeCount {
		return fmt.Sprintf("BombType(%d)", uint8(t))
	}
	return bombTypeNames[t]
}

// ShieldImmune reports whether the shield lets this bomb through
func (t BombType) ShieldImmune() bool {
	return t == BombPiercing
}

// Bomb is an enemy-fired projectile
type Bomb struct {
	X, Y    float64
	VX, VY  float64
	Type    BombType
	OriginX float64
	OriginY float64
	Active  bool
}

type trajectoryFunc func(b Bomb, playerX float64) Bomb

var trajectories = [bombTypeCount]trajectoryFunc{
	BombStraight:    advanceLinear,
	BombSine:        advanceSine,
	BombTracking:    advanceTracking,
	BombPiercing:    advanceLinear,
	BombCluster:     advanceLinear,
	BombClusterFrag: advanceFrag,
}

// Advance returns b moved forward by one tick
func Advance(b Bomb, playerX float64) Bomb {
	if !b.Active || b.Type >= bombTypeCount {
		return b
	}
	return trajectories[b.Type](b, playerX)
}

func advanceLinear(b Bomb, _ float64) Bomb {
	b.X += b.VX
	b.Y += b.VY
	return b
}

func advanceSine(b Bomb, _ float64) Bomb {
	b.Y += b.VY
	b.X = b.OriginX + SineAmplitude*math.Sin((b.Y-b.OriginY)*SineFrequency)
	return b
}

// Discrete homing: fixed horizontal step toward the player, clamped so it never overshoots.
func advanceTracking(b Bomb, playerX float64) Bomb {
	b.Y += b.VY
	dx := playerX - b.X
	switch {
	case dx > TrackingStep:
		b.X += TrackingStep
	case dx < -TrackingStep:
		b.X -= TrackingStep
	default:
		b.X = playerX
	}
	return b
}

func advanceFrag(b Bomb, _ float64) Bomb {
	b.VY += FragGravity
	b.X += b.VX
	b.Y += b.VY
	return b
}

// ShouldDetonate reports whether a cluster bomb has reached its trigger height
func ShouldDetonate(b Bomb) bool {
	return b.Active && b.Type == BombCluster && b.Y >= ClusterTriggerY
}

// Detonate splits a cluster bomb into fragments spaced evenly around its last position
func Detonate(b Bomb) []Bomb {
	frags := make([]Bomb, ClusterFragCount)
	step := 2 * math.Pi / ClusterFragCount
	for i := range frags {
		angle := float64(i) * step
		frags[i] = Bomb{
			X:       b.X,
			Y:       b.Y,
			VX:      math.Cos(angle) * ClusterFragSpeed,
			VY:      math.Sin(angle) * ClusterFragSpeed,
			Type:    BombClusterFrag,
			OriginX: b.X,
			OriginY: b.Y,
			Active:  true,
		}
	}
	return frags
}

// NewBomb creates a bomb of type t released at (x, y). Straight and piercing bombs
// are aimed at the player's position at release time.
func NewBomb(t BombType, x, y, playerX, speed float64) Bomb {
	b := Bomb{X: x, Y: y, Type: t, OriginX: x, OriginY: y, Active: true}
	switch t {
	case BombStraight, BombPiercing:
		if t == BombPiercing {
			speed *= PiercingSpeedFactor
		}
		dx, dy := playerX-x, PlayerY-y
		dist := math.Hypot(dx, dy)
		if dist < MinSeparation {
			b.VY = speed
			break
		}
		b.VX = dx / dist * speed
		b.VY = dy / dist * speed
	case BombCluster:
		b.VY = speed * 0.8
	default:
		b.VY = speed
	}
	return b
}

// OffArena reports whether the bomb has left the playable area
func OffArena(b Bomb) bool {
	return b.X < -OffArenaMargin || b.X > ArenaWidth+OffArenaMargin ||
		b.Y < -OffArenaMargin || b.Y > ArenaHeight+OffArenaMargin
}
