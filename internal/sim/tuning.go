package sim

import (
	"fmt"
	"time"
)

// Tuning holds every numeric knob of the simulation. DefaultTuning reproduces
// the classic arcade values; a YAML file may override any subset of them.
type Tuning struct {
	// --- Arena ---
	TileSize float64 `yaml:"tile_size"` // units per tile edge
	Cols     int     `yaml:"cols"`
	Rows     int     `yaml:"rows"`

	// --- Terrain generation ---
	BrickChance float64 `yaml:"brick_chance"` // per interior cell
	SteelChance float64 `yaml:"steel_chance"` // per interior cell, independent of brick
	MarginTop   int     `yaml:"margin_top"`   // empty rows above the interior
	MarginBot   int     `yaml:"margin_bottom"`
	MarginSide  int     `yaml:"margin_side"`

	// --- Tanks ---
	TankSize       float64       `yaml:"tank_size"`
	TankSpeed      float64       `yaml:"tank_speed"` // units per second
	FastTankSpeed  float64       `yaml:"fast_tank_speed"`
	ArmoredHealth  int           `yaml:"armored_health"`
	FireCooldown   time.Duration `yaml:"fire_cooldown"`
	RapidCooldown  time.Duration `yaml:"rapid_cooldown"`
	RapidDuration  time.Duration `yaml:"rapid_duration"`
	SpawnShield    time.Duration `yaml:"spawn_shield"`
	PickupShield   time.Duration `yaml:"pickup_shield"`
	FreezeDuration time.Duration `yaml:"freeze_duration"`

	// --- Movement resolver ---
	WallMargin      float64 `yaml:"wall_margin"`      // inward shrink against terrain
	TankMargin      float64 `yaml:"tank_margin"`      // inward shrink tank-vs-tank
	GridEpsilon     float64 `yaml:"grid_epsilon"`     // inward shrink on tile-edge tests
	AxisStep        float64 `yaml:"axis_step"`        // partial-move probe increment
	AxisAttempts    int     `yaml:"axis_attempts"`    // partial-move probes per axis
	UnstickStep     float64 `yaml:"unstick_step"`     // ring growth per search pass
	UnstickRadius   float64 `yaml:"unstick_radius"`   // largest ring searched
	AlignSpeedMul   float64 `yaml:"align_speed_mul"`  // corridor alignment rate vs move speed
	AlignMaxOffset  float64 `yaml:"align_max_offset"` // misalignment above this is left alone
	RespawnStep     float64 `yaml:"respawn_step"`
	RespawnMaxShift float64 `yaml:"respawn_max_shift"`

	// --- Projectiles ---
	BulletSize  float64 `yaml:"bullet_size"`
	BulletSpeed float64 `yaml:"bullet_speed"`
	BulletStep  float64 `yaml:"bullet_step"` // max terrain substep per tick

	// --- AI ---
	AIRerollChance   float64       `yaml:"ai_reroll_chance"` // per tick
	AIAttackBaseP    float64       `yaml:"ai_attack_base_p"`
	AIPatrolP        float64       `yaml:"ai_patrol_p"` // remainder is AttackPlayer
	AIRetimeMin      time.Duration `yaml:"ai_retime_min"`
	AIRetimeSpread   time.Duration `yaml:"ai_retime_spread"`
	AIFireChance     float64       `yaml:"ai_fire_chance"` // per tick
	AIObstacleProbe  float64       `yaml:"ai_obstacle_probe"`
	SpawnInterval    time.Duration `yaml:"spawn_interval"`
	WaveStartDelay   time.Duration `yaml:"wave_start_delay"`
	PickupSize       float64       `yaml:"pickup_size"`
	PickupTTL        time.Duration `yaml:"pickup_ttl"`
	PickupDropChance float64       `yaml:"pickup_drop_chance"`

	// --- Session ---
	MaxTick         time.Duration `yaml:"max_tick"` // elapsed time clamp per tick
	SingleLives     int           `yaml:"single_lives"`
	VersusLives     int           `yaml:"versus_lives"`
	SharedLives     int           `yaml:"shared_lives"`
	EnemyKillScore  int           `yaml:"enemy_kill_score"`
	PlayerHitScore  int           `yaml:"player_hit_score"`
	PlayerSpreadCol int           `yaml:"player_spread_cols"` // column offset of P1/P2 from centre
}

// DefaultTuning returns the stock arcade configuration: a 20×15 arena of
// 40-unit tiles.
func DefaultTuning() Tuning {
	return Tuning{
		TileSize: 40,
		Cols:     20,
		Rows:     15,

		BrickChance: 0.20,
		SteelChance: 0.05,
		MarginTop:   2,
		MarginBot:   4,
		MarginSide:  2,

		TankSize:       32,
		TankSpeed:      130,
		FastTankSpeed:  170,
		ArmoredHealth:  3,
		FireCooldown:   600 * time.Millisecond,
		RapidCooldown:  250 * time.Millisecond,
		RapidDuration:  10 * time.Second,
		SpawnShield:    3 * time.Second,
		PickupShield:   10 * time.Second,
		FreezeDuration: 5 * time.Second,

		WallMargin:      6,
		TankMargin:      4,
		GridEpsilon:     0.5,
		AxisStep:        2,
		AxisAttempts:    10,
		UnstickStep:     4,
		UnstickRadius:   20,
		AlignSpeedMul:   1.8,
		AlignMaxOffset:  18,
		RespawnStep:     10,
		RespawnMaxShift: 40,

		BulletSize:  6,
		BulletSpeed: 450,
		BulletStep:  8,

		AIRerollChance:   0.005,
		AIAttackBaseP:    0.70,
		AIPatrolP:        0.20,
		AIRetimeMin:      1500 * time.Millisecond,
		AIRetimeSpread:   2 * time.Second,
		AIFireChance:     0.015,
		AIObstacleProbe:  15,
		SpawnInterval:    2 * time.Second,
		WaveStartDelay:   3 * time.Second,
		PickupSize:       30,
		PickupTTL:        10 * time.Second,
		PickupDropChance: 0.20,

		MaxTick:         100 * time.Millisecond,
		SingleLives:     3,
		VersusLives:     3,
		SharedLives:     6,
		EnemyKillScore:  100,
		PlayerHitScore:  200,
		PlayerSpreadCol: 2,
	}
}

// ArenaWidth is the arena extent along X in world units.
func (t Tuning) ArenaWidth() float64 { return float64(t.Cols) * t.TileSize }

// ArenaHeight is the arena extent along Y in world units.
func (t Tuning) ArenaHeight() float64 { return float64(t.Rows) * t.TileSize }

// Validate reports the first setting that would make the simulation
// meaningless.
func (t Tuning) Validate() error {
	switch {
	case t.TileSize <= 0:
		return fmt.Errorf("tile_size must be positive, got %v", t.TileSize)
	case t.Cols < 5 || t.Rows < 5:
		return fmt.Errorf("arena must be at least 5x5 tiles, got %dx%d", t.Cols, t.Rows)
	case t.TankSize <= 0 || t.TankSize > t.TileSize:
		return fmt.Errorf("tank_size must be in (0, tile_size], got %v", t.TankSize)
	case t.WallMargin*2 >= t.TankSize || t.TankMargin*2 >= t.TankSize:
		return fmt.Errorf("collision margins must leave a positive footprint")
	case t.BrickChance < 0 || t.SteelChance < 0 || t.BrickChance+t.SteelChance > 1:
		return fmt.Errorf("brick_chance + steel_chance must be within [0, 1]")
	case t.AIAttackBaseP < 0 || t.AIPatrolP < 0 || t.AIAttackBaseP+t.AIPatrolP > 1:
		return fmt.Errorf("ai state weights must sum to at most 1")
	case t.BulletSpeed <= 0 || t.BulletStep <= 0:
		return fmt.Errorf("bullet_speed and bullet_step must be positive")
	case t.MaxTick <= 0:
		return fmt.Errorf("max_tick must be positive")
	case t.AxisStep <= 0 || t.UnstickStep <= 0:
		return fmt.Errorf("axis_step and unstick_step must be positive")
	case t.SingleLives <= 0 || t.VersusLives <= 0 || t.SharedLives <= 0:
		return fmt.Errorf("starting lives must be positive")
	}
	return nil
}
