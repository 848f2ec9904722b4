// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ecosim/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Energy     EnergyConfig     `yaml:"energy"`
	Plants     PlantsConfig     `yaml:"plants"`
	Sunlight   SunlightConfig   `yaml:"sunlight"`
	Species    SpeciesSet       `yaml:"species"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Feeding    FeedingConfig    `yaml:"feeding"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
// The world is centered on the origin and spans [-W/2, W/2] x [-H/2, H/2].
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`             // fixed step used by headless runs
	GridCellSize float64 `yaml:"grid_cell_size"` // spatial grid cell edge
}

// PopulationConfig holds seeding and immigration parameters.
type PopulationConfig struct {
	InitialPlants        int     `yaml:"initial_plants"`
	InitialPrey          int     `yaml:"initial_prey"`
	InitialPredators     int     `yaml:"initial_predators"`
	InitialScavengers    int     `yaml:"initial_scavengers"`
	MaxPlants            int     `yaml:"max_plants"`
	ImmigrationThreshold int     `yaml:"immigration_threshold"` // immigrate when count is below this
	ImmigrationChance    float64 `yaml:"immigration_chance"`    // per second
	ImmigrationMin       int     `yaml:"immigration_min"`
	ImmigrationMax       int     `yaml:"immigration_max"`
}

// EnergyConfig holds the energy economy.
type EnergyConfig struct {
	PlantFromSun        float64 `yaml:"plant_from_sun"`
	PreyFromPlant       float64 `yaml:"prey_from_plant"`
	PredatorFromPrey    float64 `yaml:"predator_from_prey"`
	ScavengerFromCorpse float64 `yaml:"scavenger_from_corpse"`
	CorpseFactor        float64 `yaml:"corpse_factor"` // predator gain from corpses relative to live prey
	MoveCost            float64 `yaml:"move_cost"`     // energy per unit speed per second
}

// PlantsConfig holds plant respawn parameters.
type PlantsConfig struct {
	RespawnRate float64 `yaml:"respawn_rate"` // expected respawns per second at full sunlight
}

// SunlightConfig holds the day/night oscillator.
type SunlightConfig struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	Baseline  float64 `yaml:"baseline"`
}

// Range is a half-open uniform sampling interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpeciesSet holds per-species parameters.
type SpeciesSet struct {
	Plant     SpeciesConfig `yaml:"plant"`
	Prey      SpeciesConfig `yaml:"prey"`
	Predator  SpeciesConfig `yaml:"predator"`
	Scavenger SpeciesConfig `yaml:"scavenger"`
}

// SpeciesConfig holds genome ranges and reproduction parameters for one species.
type SpeciesConfig struct {
	Speed                  Range   `yaml:"speed"`
	Size                   Range   `yaml:"size"`
	Metabolism             Range   `yaml:"metabolism"`
	ReproductionThreshold  Range   `yaml:"reproduction_threshold"`
	Vision                 Range   `yaml:"vision"`
	InitialEnergy          Range   `yaml:"initial_energy"`
	MaxEnergy              float64 `yaml:"max_energy"`               // intake clamp
	OffspringSpread        float64 `yaml:"offspring_spread"`         // offspring offset per axis
	ReproductionRate       float64 `yaml:"reproduction_rate"`        // per tick when eligible
	ReproductionRateSparse float64 `yaml:"reproduction_rate_sparse"` // used below lifecycle.density_threshold
}

// BehaviorConfig holds movement and steering parameters.
type BehaviorConfig struct {
	Steering SteeringConfig `yaml:"steering"`
	Flocking FlockingConfig `yaml:"flocking"`
	Flee     FleeConfig     `yaml:"flee"`
	Forage   ForageConfig   `yaml:"forage"`
	Sprint   SprintConfig   `yaml:"sprint"`
	Stamina  StaminaConfig  `yaml:"stamina"`
	Hunting  HuntingConfig  `yaml:"hunting"`
	Waypoint WaypointConfig `yaml:"waypoint"`
	Aging    AgingConfig    `yaml:"aging"`
}

// SteeringConfig holds velocity smoothing parameters.
type SteeringConfig struct {
	Smoothing     float64 `yaml:"smoothing"`      // lerp factor toward desired velocity
	WanderEpsilon float64 `yaml:"wander_epsilon"` // desired magnitude below which wander kicks in
}

// FlockingConfig holds prey boids parameters.
type FlockingConfig struct {
	Radius           float64 `yaml:"radius"`
	SeparationRadius float64 `yaml:"separation_radius"`
	MinDistance      float64 `yaml:"min_distance"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	CalmWeight       float64 `yaml:"calm_weight"`
	FleeingWeight    float64 `yaml:"fleeing_weight"`
	PanicThreat      float64 `yaml:"panic_threat"` // flocking suppressed at or above this threat
}

// FleeConfig holds predator avoidance parameters.
type FleeConfig struct {
	VisionFactor float64 `yaml:"vision_factor"` // detection distance = vision * factor
	Gain         float64 `yaml:"gain"`
}

// ForageConfig holds prey foraging parameters.
type ForageConfig struct {
	MaxDesire float64 `yaml:"max_desire"` // forage only when desired magnitude is below this
	MaxThreat float64 `yaml:"max_threat"`
	Weight    float64 `yaml:"weight"`
}

// SprintConfig holds prey sprint parameters.
type SprintConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	Drain      float64 `yaml:"drain"` // stamina per second
	MinThreat  float64 `yaml:"min_threat"`
	MinStamina float64 `yaml:"min_stamina"`
	MinEnergy  float64 `yaml:"min_energy"`
}

// StaminaConfig holds prey stamina defaults.
type StaminaConfig struct {
	Max       float64 `yaml:"max"`
	RegenRate float64 `yaml:"regen_rate"`
}

// HuntingConfig holds predator pursuit parameters.
type HuntingConfig struct {
	MaxHunters       int     `yaml:"max_hunters"`
	GiveUpFactor     float64 `yaml:"give_up_factor"` // drop target beyond vision * factor
	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`
}

// WaypointConfig holds exploration waypoint parameters.
type WaypointConfig struct {
	Distance         Range   `yaml:"distance"`
	ReachedThreshold float64 `yaml:"reached_threshold"`
}

// AgingConfig holds the age-based speed decay schedule.
type AgingConfig struct {
	DeclineAge float64 `yaml:"decline_age"` // multiplier starts dropping
	FrailAge   float64 `yaml:"frail_age"`   // multiplier reaches FrailSpeed
	FrailSpeed float64 `yaml:"frail_speed"`
}

// FeedingConfig holds interaction radii and food thresholds.
type FeedingConfig struct {
	PreyRadius      float64 `yaml:"prey_radius"`
	PredatorRadius  float64 `yaml:"predator_radius"`
	ScavengerRadius float64 `yaml:"scavenger_radius"`
	MinPlantEnergy  float64 `yaml:"min_plant_energy"`
	MinCorpseEnergy float64 `yaml:"min_corpse_energy"`
}

// LifecycleConfig holds aging, death and decay parameters.
type LifecycleConfig struct {
	MaxAge           float64  `yaml:"max_age"`
	CorpseDecay      float64  `yaml:"corpse_decay"`      // seconds a corpse persists
	CorpseMinEnergy  float64  `yaml:"corpse_min_energy"` // floor for corpse energy
	DensityThreshold int      `yaml:"density_threshold"` // sparse reproduction rate below this
	Species          []string `yaml:"species"`           // species subject to metabolism and aging
}

// TelemetryConfig holds statistics and output parameters.
type TelemetryConfig struct {
	HistoryInterval     float64 `yaml:"history_interval"` // seconds of simulated time between snapshots
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
	ExtinctionRisk   ExtinctionRiskConfig   `yaml:"extinction_risk"`
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// ExtinctionRiskConfig holds low-population warning parameters.
type ExtinctionRiskConfig struct {
	MaxCount int `yaml:"max_count"` // fires when a species with history drops to this many
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Physics.DT as float32
	WorldW32     float32
	WorldH32     float32
	HalfW32      float32
	HalfH32      float32
	LifecycleSet map[string]bool // lifecycle.species as a set
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults with derived values filled in.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// MustDefault is like Default but panics on error.
func MustDefault() *Config {
	cfg, err := Default()
	if err != nil {
		panic(fmt.Sprintf("config: failed to load defaults: %v", err))
	}
	return cfg
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %g", c.Physics.DT))
	}
	if c.Physics.GridCellSize <= 0 {
		errs = append(errs, fmt.Errorf("physics.grid_cell_size must be positive, got %g", c.Physics.GridCellSize))
	}
	if c.Population.MaxPlants < 0 {
		errs = append(errs, fmt.Errorf("population.max_plants must not be negative, got %d", c.Population.MaxPlants))
	}
	if c.Population.ImmigrationMin > c.Population.ImmigrationMax {
		errs = append(errs, fmt.Errorf("population.immigration_min %d exceeds immigration_max %d",
			c.Population.ImmigrationMin, c.Population.ImmigrationMax))
	}
	if c.Lifecycle.MaxAge <= 0 {
		errs = append(errs, fmt.Errorf("lifecycle.max_age must be positive, got %g", c.Lifecycle.MaxAge))
	}
	if c.Lifecycle.CorpseDecay <= 0 {
		errs = append(errs, fmt.Errorf("lifecycle.corpse_decay must be positive, got %g", c.Lifecycle.CorpseDecay))
	}
	for _, name := range c.Lifecycle.Species {
		if kind, err := components.ParseKind(name); err != nil || kind == components.KindCorpse {
			errs = append(errs, fmt.Errorf("lifecycle.species: unknown species %q", name))
		}
	}
	if c.Telemetry.HistoryInterval <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.history_interval must be positive, got %g", c.Telemetry.HistoryInterval))
	}

	species := map[string]SpeciesConfig{
		"plant":     c.Species.Plant,
		"prey":      c.Species.Prey,
		"predator":  c.Species.Predator,
		"scavenger": c.Species.Scavenger,
	}
	for name, sp := range species {
		for field, r := range map[string]Range{
			"speed":                  sp.Speed,
			"size":                   sp.Size,
			"metabolism":             sp.Metabolism,
			"reproduction_threshold": sp.ReproductionThreshold,
			"vision":                 sp.Vision,
			"initial_energy":         sp.InitialEnergy,
		} {
			if r.Max < r.Min {
				errs = append(errs, fmt.Errorf("species.%s.%s: max %g below min %g", name, field, r.Max, r.Min))
			}
		}
		if sp.MaxEnergy <= 0 {
			errs = append(errs, fmt.Errorf("species.%s.max_energy must be positive, got %g", name, sp.MaxEnergy))
		}
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.HalfW32 = c.Derived.WorldW32 / 2
	c.Derived.HalfH32 = c.Derived.WorldH32 / 2

	c.Derived.LifecycleSet = make(map[string]bool, len(c.Lifecycle.Species))
	for _, name := range c.Lifecycle.Species {
		c.Derived.LifecycleSet[name] = true
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
