package game

import "math"

// Resources is the player's per-session budget. Every mutator clamps, so the
// bounds hold on every path: 0 <= Ammo <= MaxAmmo, 0 <= Shield <= ShieldMax,
// 0 <= Health <= HealthMax, Score >= 0.
type Resources struct {
	Ammo       int
	Shield     float64
	ShieldHeld bool
	Health     float64
	Score      int
}

func NewResources() Resources {
	return Resources{Ammo: MaxAmmo, Shield: ShieldMax, Health: HealthMax}
}

// RefillAmmo resets the ammo pool for a new round
func (r *Resources) RefillAmmo() {
	r.Ammo = MaxAmmo
}

// Fire consumes one round of ammo; false when the pool is empty
func (r *Resources) Fire() bool {
	if r.Ammo <= 0 {
		return false
	}
	r.Ammo--
	return true
}

// TickShield drains energy while the shield is held and recharges it otherwise
func (r *Resources) TickShield(held bool) {
	r.ShieldHeld = held
	if held && r.Shield > 0 {
		r.Shield = math.Max(0, r.Shield-ShieldDrainPerTick)
		return
	}
	if !held {
		r.Shield = math.Min(ShieldMax, r.Shield+ShieldRechargePerTick)
	}
}

// ShieldActive reports whether the shield is currently absorbing bombs
func (r *Resources) ShieldActive() bool {
	return r.ShieldHeld && r.Shield > 0
}

// Fizzle is the cosmetic state of a held shield with no energy left
func (r *Resources) Fizzle() bool {
	return r.ShieldHeld && r.Shield <= 0
}

func (r *Resources) Regen() {
	if r.Health <= 0 {
		return
	}
	r.Health = math.Min(HealthMax, r.Health+HealthRegenPerTick)
}

// Damage subtracts health and reports whether the player is out of health
func (r *Resources) Damage(amount float64) bool {
	r.Health = math.Max(0, r.Health-amount)
	return r.Health <= 0
}

func (r *Resources) AddScore(points int) {
	if points > 0 {
		r.Score += points
	}
}

func (r *Resources) Penalize(points int) {
	r.Score -= points
	if r.Score < 0 {
		r.Score = 0
	}
}
