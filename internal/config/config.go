// Package config loads the balance sheet every tunable number in the
// simulation reads from. A default sheet is compiled in; a YAML file next to
// the binary (or an explicit path) overlays it, so tuning a weight never
// means recompiling.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed balance_default.yaml
var defaultBalance []byte

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "configs/balance.yaml"

// Board sizes the battlefield grid.
type Board struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Army is the starting loadout deployed around every king.
type Army struct {
	Pawns   int `yaml:"pawns"`
	Knights int `yaml:"knights"`
	Bishops int `yaml:"bishops"`
	Rooks   int `yaml:"rooks"`
	Queens  int `yaml:"queens"`
}

// Economy covers credits, bounties, and vault cadence.
type Economy struct {
	CreditPerMaterial int `yaml:"credit_per_material"`
	UnitCostPerPoint  int `yaml:"unit_cost_per_point"`
	KingBounty        int `yaml:"king_bounty"`
	VaultBounty       int `yaml:"vault_bounty"`
	VaultIntervalMs   int `yaml:"vault_interval_ms"`
	AdventureVaults   int `yaml:"adventure_vaults"`
	SpawnRadius       int `yaml:"spawn_radius"`
	CoinScatter       int `yaml:"coin_scatter"`
	CoinValue         int `yaml:"coin_value"`
}

// Zombies tunes the horde mode wave pressure.
type Zombies struct {
	WaveIntervalMs int `yaml:"wave_interval_ms"`
	WaveBase       int `yaml:"wave_base"`
	WaveGrowth     int `yaml:"wave_growth"`
	ShambleDelayMs int `yaml:"shamble_delay_ms"`
}

// Diplomacy tunes alliance formation and the opening armistice.
type Diplomacy struct {
	ArmisticeMs          int     `yaml:"armistice_ms"`
	CheckIntervalMs      int     `yaml:"check_interval_ms"`
	ProximityRadius      int     `yaml:"proximity_radius"`
	MaxAllianceSize      int     `yaml:"max_alliance_size"`
	SmallArmyThreshold   int     `yaml:"small_army_threshold"`
	AcceptBase           float64 `yaml:"accept_base"`
	AcceptArmisticeBonus float64 `yaml:"accept_armistice_bonus"`
	AcceptSmallArmyBonus float64 `yaml:"accept_small_army_bonus"`
	AcceptTurtleBonus    float64 `yaml:"accept_turtle_bonus"`
	AcceptAggressorMalus float64 `yaml:"accept_aggressor_malus"`
}

// Director sets the pacing phase thresholds and the anti-boredom levers.
type Director struct {
	HuntAt            int `yaml:"hunt_at"`
	ConvergenceAt     int `yaml:"convergence_at"`
	SuddenDeathAt     int `yaml:"sudden_death_at"`
	SubsidyBelow      int `yaml:"subsidy_below"`
	SubsidyIntervalMs int `yaml:"subsidy_interval_ms"`
	SubsidyCredits    int `yaml:"subsidy_credits"`
	BoredomMs         int `yaml:"boredom_ms"`
}

// AI holds every bot-brain weight and delay. Each field maps one-to-one to a
// term in the move scorer or the think scheduler.
type AI struct {
	DelayEasyMs    int `yaml:"delay_easy_ms"`
	DelayMediumMs  int `yaml:"delay_medium_ms"`
	DelayHardMs    int `yaml:"delay_hard_ms"`
	BotDelayMs     int `yaml:"bot_delay_ms"`
	SandboxDelayMs int `yaml:"sandbox_delay_ms"`
	HumanFloorMs   int `yaml:"human_floor_ms"`
	TravelDistance int `yaml:"travel_distance"`
	VisionRange    int `yaml:"vision_range"`
	ArmyCap        int `yaml:"army_cap"`
	ArmyCapVsHuman int `yaml:"army_cap_vs_human"`
	TightPackSize  int `yaml:"tight_pack_size"`
	StackLimit     int `yaml:"stack_limit"`

	RetargetChance       float64 `yaml:"retarget_chance"`
	TargetDistanceWeight float64 `yaml:"target_distance_weight"`
	HumanTargetBonus     float64 `yaml:"human_target_bonus"`
	WeakTargetWeight     float64 `yaml:"weak_target_weight"`

	MinMoveScore          float64 `yaml:"min_move_score"`
	LocalAlignWeight      float64 `yaml:"local_align_weight"`
	CaptureWeight         float64 `yaml:"capture_weight"`
	TotalWarCaptureFactor float64 `yaml:"total_war_capture_factor"`
	KingCaptureValue      float64 `yaml:"king_capture_value"`
	VaultCaptureValue     float64 `yaml:"vault_capture_value"`
	EasyGreedFactor       float64 `yaml:"easy_greed_factor"`
	ApproachWeight        float64 `yaml:"approach_weight"`
	ThreatPenalty         float64 `yaml:"threat_penalty"`
	ShieldBonus           float64 `yaml:"shield_bonus"`
	StackPenalty          float64 `yaml:"stack_penalty"`
	FlankBonus            float64 `yaml:"flank_bonus"`
	JitterWeight          float64 `yaml:"jitter_weight"`
}

// Balance is the complete tuning sheet.
type Balance struct {
	Board             Board     `yaml:"board"`
	Army              Army      `yaml:"army"`
	Economy           Economy   `yaml:"economy"`
	Zombies           Zombies   `yaml:"zombies"`
	Diplomacy         Diplomacy `yaml:"diplomacy"`
	Director          Director  `yaml:"director"`
	AI                AI        `yaml:"ai"`
	BulletSpeedFactor float64   `yaml:"bullet_speed_factor"`
}

// Default returns the compiled-in balance sheet.
func Default() (*Balance, error) {
	var b Balance
	if err := yaml.Unmarshal(defaultBalance, &b); err != nil {
		return nil, fmt.Errorf("config: parse embedded balance: %w", err)
	}
	return &b, nil
}

// Load returns the default sheet with the YAML file at path overlaid on top.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Balance, error) {
	b, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator-chosen config path
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Balance) validate() error {
	if b.Board.Width < 16 || b.Board.Height < 16 {
		return fmt.Errorf("config: board %dx%d below minimum 16x16", b.Board.Width, b.Board.Height)
	}
	if b.BulletSpeedFactor <= 0 {
		return fmt.Errorf("config: bullet_speed_factor must be positive, got %v", b.BulletSpeedFactor)
	}
	if b.Diplomacy.MaxAllianceSize < 2 {
		return fmt.Errorf("config: max_alliance_size must be at least 2, got %d", b.Diplomacy.MaxAllianceSize)
	}
	if !(b.Director.SuddenDeathAt < b.Director.ConvergenceAt && b.Director.ConvergenceAt < b.Director.HuntAt) {
		return fmt.Errorf("config: director thresholds must descend: hunt %d > convergence %d > sudden death %d",
			b.Director.HuntAt, b.Director.ConvergenceAt, b.Director.SuddenDeathAt)
	}
	return nil
}
