package game

import (
	"math"
	"math/rand"
	"testing"
)

func newAnswer(x, y, vx, vy float64) AnswerEntity {
	return AnswerEntity{X: x, Y: y, VX: vx, VY: vy, W: AnswerWidth, H: AnswerHeight, Active: true}
}

func TestStepAnswersStaysInBoundsAndUnderCeiling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	diff := DifficultyFor(3)
	ents := []AnswerEntity{
		newAnswer(0, SafeMarginTop, 5, 5),
		newAnswer(200, 200, -5, 3),
		newAnswer(400, 150, 0, 0),
		newAnswer(600, 300, 4, -4),
	}

	for tick := 0; tick < 2000; tick++ {
		StepAnswers(ents, diff, rng)
		for i, e := range ents {
			if e.X < 0 || e.X > ArenaWidth-e.W {
				t.Fatalf("tick %d: entity %d x=%f out of bounds", tick, i, e.X)
			}
			if e.Y < SafeMarginTop || e.Y > ArenaHeight-SafeMarginBottom-e.H {
				t.Fatalf("tick %d: entity %d y=%f out of bounds", tick, i, e.Y)
			}
			if s := math.Hypot(e.VX, e.VY); s > diff.MaxAnswerSpeed+1e-9 {
				t.Fatalf("tick %d: entity %d speed %f above ceiling %f", tick, i, s, diff.MaxAnswerSpeed)
			}
		}
	}
}

func TestStepAnswersPairForces(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	diff := DifficultyFor(0)

	close := []AnswerEntity{newAnswer(100, 200, 0, 1), newAnswer(150, 200, 0, 1)}
	StepAnswers(close, diff, rng)
	if close[0].VX >= 0 || close[1].VX <= 0 {
		t.Fatalf("close bodies should repel: vx0=%f vx1=%f", close[0].VX, close[1].VX)
	}

	far := []AnswerEntity{newAnswer(0, 200, 0, 1), newAnswer(400, 200, 0, 1)}
	StepAnswers(far, diff, rng)
	if far[0].VX <= 0 || far[1].VX >= 0 {
		t.Fatalf("distant bodies should attract: vx0=%f vx1=%f", far[0].VX, far[1].VX)
	}
}

func TestStepAnswersKicksStalledBody(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ents := []AnswerEntity{newAnswer(300, 200, 0, 0)}
	StepAnswers(ents, DifficultyFor(0), rng)
	if ents[0].VX == 0 && ents[0].VY == 0 {
		t.Fatal("stalled body was not perturbed")
	}
}

func TestBounceReflects(t *testing.T) {
	e := newAnswer(-5, SafeMarginTop-3, -2, -1)
	bounce(&e)
	if e.X != 0 || e.VX <= 0 {
		t.Fatalf("left wall: x=%f vx=%f", e.X, e.VX)
	}
	if e.Y != SafeMarginTop || e.VY <= 0 {
		t.Fatalf("top margin: y=%f vy=%f", e.Y, e.VY)
	}

	e = newAnswer(ArenaWidth, ArenaHeight, 2, 1)
	bounce(&e)
	if e.X != ArenaWidth-e.W || e.VX >= 0 {
		t.Fatalf("right wall: x=%f vx=%f", e.X, e.VX)
	}
	if e.Y != ArenaHeight-SafeMarginBottom-e.H || e.VY >= 0 {
		t.Fatalf("bottom margin: y=%f vy=%f", e.Y, e.VY)
	}
}

func TestStepProjectiles(t *testing.T) {
	ps := []Projectile{
		{X: 10, Y: 100, VY: -ProjectileSpeed, Active: true},
		{X: 10, Y: -OffArenaMargin + 1, VY: -ProjectileSpeed, Active: true},
		{X: 10, Y: 50, VY: -ProjectileSpeed},
	}
	out := StepProjectiles(ps)
	if len(out) != 1 {
		t.Fatalf("projectiles left = %d, want 1", len(out))
	}
	if out[0].Y != 100-ProjectileSpeed {
		t.Fatalf("y = %f, want %f", out[0].Y, 100-ProjectileSpeed)
	}
}

func TestSpawnBombsUsesTierTypes(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	diff := DifficultyFor(0)
	diff.BombRate = 1
	ents := []AnswerEntity{newAnswer(0, 100, 0, 0), newAnswer(300, 100, 0, 0), newAnswer(500, 100, 0, 0)}
	ents[2].Active = false

	bombs := SpawnBombs(ents, diff, 400, rng)
	if len(bombs) != 2 {
		t.Fatalf("bombs = %d, want one per active body", len(bombs))
	}
	for _, b := range bombs {
		if b.Type != BombStraight && b.Type != BombSine {
			t.Fatalf("EASY tier spawned %s", b.Type)
		}
		if b.Y != 100+AnswerHeight {
			t.Fatalf("bomb released at y=%f, want body bottom", b.Y)
		}
	}

	diff.BombRate = 0
	if bombs := SpawnBombs(ents, diff, 400, rng); len(bombs) != 0 {
		t.Fatalf("zero rate spawned %d bombs", len(bombs))
	}
}
