package game

import (
	"math"
	"testing"
)

func TestResourcesClamp(t *testing.T) {
	tests := []struct {
		name  string
		apply func(r *Resources)
		check func(t *testing.T, r Resources)
	}{
		{
			name: "fire stops at zero ammo",
			apply: func(r *Resources) {
				for i := 0; i < MaxAmmo+2; i++ {
					r.Fire()
				}
			},
			check: func(t *testing.T, r Resources) {
				if r.Ammo != 0 {
					t.Errorf("ammo = %d, want 0", r.Ammo)
				}
			},
		},
		{
			name:  "damage floors health at zero",
			apply: func(r *Resources) { r.Damage(HealthMax * 3) },
			check: func(t *testing.T, r Resources) {
				if r.Health != 0 {
					t.Errorf("health = %f, want 0", r.Health)
				}
			},
		},
		{
			name:  "regen caps at max",
			apply: func(r *Resources) { r.Regen() },
			check: func(t *testing.T, r Resources) {
				if r.Health != HealthMax {
					t.Errorf("health = %f, want %f", r.Health, HealthMax)
				}
			},
		},
		{
			name: "penalty floors score at zero",
			apply: func(r *Resources) {
				r.AddScore(30)
				r.Penalize(100)
			},
			check: func(t *testing.T, r Resources) {
				if r.Score != 0 {
					t.Errorf("score = %d, want 0", r.Score)
				}
			},
		},
		{
			name: "shield drains to zero and fizzles",
			apply: func(r *Resources) {
				for i := 0; i < 500; i++ {
					r.TickShield(true)
				}
			},
			check: func(t *testing.T, r Resources) {
				if r.Shield != 0 {
					t.Errorf("shield = %f, want 0", r.Shield)
				}
				if r.ShieldActive() || !r.Fizzle() {
					t.Errorf("active=%v fizzle=%v, want inactive fizzle", r.ShieldActive(), r.Fizzle())
				}
			},
		},
		{
			name: "shield recharges up to max",
			apply: func(r *Resources) {
				r.Shield = 10
				for i := 0; i < 1000; i++ {
					r.TickShield(false)
				}
			},
			check: func(t *testing.T, r Resources) {
				if r.Shield != ShieldMax {
					t.Errorf("shield = %f, want %f", r.Shield, ShieldMax)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResources()
			tt.apply(&r)
			tt.check(t, r)
		})
	}
}

func TestShieldDrainRate(t *testing.T) {
	r := NewResources()
	r.TickShield(true)
	if math.Abs(r.Shield-(ShieldMax-ShieldDrainPerTick)) > 1e-9 {
		t.Fatalf("shield = %f, want %f", r.Shield, ShieldMax-ShieldDrainPerTick)
	}
	if !r.ShieldActive() {
		t.Fatal("held shield with energy should be active")
	}
	r.TickShield(false)
	if math.Abs(r.Shield-(ShieldMax-ShieldDrainPerTick+ShieldRechargePerTick)) > 1e-9 {
		t.Fatalf("shield = %f after recharge", r.Shield)
	}
}
