package game

// Timing
const (
	TickHz           = 60
	CountdownSeconds = 3
)

// Arena
const (
	ArenaWidth       = 800.0
	ArenaHeight      = 600.0
	SafeMarginTop    = 60.0  // HUD strip, answers never enter it
	SafeMarginBottom = 170.0 // player lane, answers never enter it
	OffArenaMargin   = 40.0
)

// Player
const (
	PlayerWidth  = 48.0
	PlayerHeight = 24.0
	PlayerY      = ArenaHeight - 40.0 // centre line of the ship
	PlayerSpeed  = 7.0
)

// Answer bodies
const (
	AnswerWidth         = 140.0
	AnswerHeight        = 44.0
	AnswerSpawnSpeed    = 1.2
	AttractionK         = 2.0   // pull ∝ 1/d
	RepulsionK          = 400.0 // push ∝ 1/d², only under RepulsionRadius
	RepulsionRadius     = 170.0
	MinSeparation       = 1.0
	VelocityDamping     = 0.99
	MinAnswerSpeed      = 0.4
	StallKick           = 0.6
	DefaultMaxAnswerSpd = 3.0
)

// Player projectiles
const (
	MaxAmmo         = 3
	ProjectileSpeed = 12.0
)

// Enemy bombs
const (
	BombRadius          = 6.0
	SineAmplitude       = 40.0
	SineFrequency       = 0.05 // radians per pixel of vertical travel
	TrackingStep        = 1.2  // horizontal homing per tick
	PiercingSpeedFactor = 0.6
	ClusterTriggerY     = ArenaHeight - SafeMarginBottom + 40
	ClusterFragCount    = 8
	ClusterFragSpeed    = 3.0
	FragGravity         = 0.08
)

// Shield
const (
	ShieldMax             = 100.0
	ShieldDrainPerTick    = 0.8
	ShieldRechargePerTick = 0.3
	ShieldRadius          = 70.0
)

// Health
const (
	HealthMax          = 100.0
	HealthRegenPerTick = 0.01
	BombDamage         = 10.0
	PiercingDamage     = 20.0
	FragDamage         = 5.0
	WrongHitDamage     = 15.0
	AmmoDepletedDamage = 10.0
)

// Scoring
const (
	BasePoints               = 250
	WrongHitScorePenalty     = 50
	BombHitScorePenalty      = 10
	AmmoDepletedScorePenalty = 25
	PassRatio                = 0.7
	DefaultTotalRounds       = 10
)
