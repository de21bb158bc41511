package game

import (
	"math"
	"math/rand"
)

// AnswerEntity is the physical body carrying one answer option
type AnswerEntity struct {
	X, Y        float64 // top-left corner
	VX, VY      float64
	W, H        float64
	OptionIndex int
	Text        string
	IsCorrect   bool
	Active      bool
}

// Center returns the centre point of the body
func (a *AnswerEntity) Center() (float64, float64) {
	return a.X + a.W/2, a.Y + a.H/2
}

// Contains reports whether the point lies inside the bounding box
func (a *AnswerEntity) Contains(x, y float64) bool {
	return x >= a.X && x <= a.X+a.W && y >= a.Y && y <= a.Y+a.H
}

// Projectile is a player-fired shot travelling straight up
type Projectile struct {
	X, Y   float64
	VY     float64
	Active bool
}

// StepAnswers advances every active answer body by one tick: pairwise attraction,
// short-range repulsion, damping, a stall kick, the speed ceiling and bouncing walls.
func StepAnswers(ents []AnswerEntity, diff Difficulty, rng *rand.Rand) {
	maxSpeed := diff.MaxAnswerSpeed
	if maxSpeed <= 0 {
		maxSpeed = DefaultMaxAnswerSpd
	}
	ax := make([]float64, len(ents))
	ay := make([]float64, len(ents))

	for i := range ents {
		if !ents[i].Active {
			continue
		}
		ix, iy := ents[i].Center()
		for j := i + 1; j < len(ents); j++ {
			if !ents[j].Active {
				continue
			}
			jx, jy := ents[j].Center()
			dx, dy := jx-ix, jy-iy
			d := math.Max(math.Hypot(dx, dy), MinSeparation)
			nx, ny := dx/d, dy/d

			f := AttractionK / d
			if d < RepulsionRadius {
				f -= RepulsionK / (d * d)
			}
			ax[i] += nx * f
			ay[i] += ny * f
			ax[j] -= nx * f
			ay[j] -= ny * f
		}
	}

	for i := range ents {
		e := &ents[i]
		if !e.Active {
			continue
		}
		e.VX = (e.VX + ax[i]) * VelocityDamping
		e.VY = (e.VY + ay[i]) * VelocityDamping

		speed := math.Hypot(e.VX, e.VY)
		if speed < MinAnswerSpeed {
			e.VX += (rng.Float64()*2 - 1) * StallKick
			e.VY += (rng.Float64()*2 - 1) * StallKick
			speed = math.Hypot(e.VX, e.VY)
		}
		if speed > maxSpeed {
			scale := maxSpeed / speed
			e.VX *= scale
			e.VY *= scale
		}

		e.X += e.VX
		e.Y += e.VY
		bounce(e)
	}
}

// bounce clamps the body to the arena minus the safe margins and reflects
// the velocity component that hit the wall.
func bounce(e *AnswerEntity) {
	minX, maxX := 0.0, ArenaWidth-e.W
	minY, maxY := SafeMarginTop, ArenaHeight-SafeMarginBottom-e.H

	if e.X < minX {
		e.X = minX
		e.VX = math.Abs(e.VX)
	} else if e.X > maxX {
		e.X = maxX
		e.VX = -math.Abs(e.VX)
	}
	if e.Y < minY {
		e.Y = minY
		e.VY = math.Abs(e.VY)
	} else if e.Y > maxY {
		e.Y = maxY
		e.VY = -math.Abs(e.VY)
	}
}

// StepProjectiles moves player shots and drops the ones that left the arena
func StepProjectiles(ps []Projectile) []Projectile {
	out := ps[:0]
	for _, p := range ps {
		if !p.Active {
			continue
		}
		p.Y += p.VY
		if p.Y < -OffArenaMargin {
			continue
		}
		out = append(out, p)
	}
	return out
}

// StepBombs advances every bomb along its trajectory, detonates clusters that
// reached their trigger height and drops inactive or escaped bombs.
func StepBombs(bombs []Bomb, playerX float64) []Bomb {
	out := make([]Bomb, 0, len(bombs))
	for _, b := range bombs {
		if !b.Active {
			continue
		}
		b = Advance(b, playerX)
		if ShouldDetonate(b) {
			out = append(out, Detonate(b)...)
			continue
		}
		if OffArena(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SpawnBombs rolls a release for every active answer body; the bomb leaves from
// the bottom centre of the body.
func SpawnBombs(ents []AnswerEntity, diff Difficulty, playerX float64, rng *rand.Rand) []Bomb {
	var spawned []Bomb
	if len(diff.BombTypes) == 0 {
		return nil
	}
	for i := range ents {
		e := &ents[i]
		if !e.Active || rng.Float64() >= diff.BombRate {
			continue
		}
		t := diff.BombTypes[rng.Intn(len(diff.BombTypes))]
		spawned = append(spawned, NewBomb(t, e.X+e.W/2, e.Y+e.H, playerX, diff.EnemyBaseSpeed))
	}
	return spawned
}
