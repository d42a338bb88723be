package world

import (
	"os"

	"github.com/kitskub/physics3d/math/lin"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables recognized by a dynamics world, per
// SPEC_FULL.md §4.9.
type Config struct {
	Gravity            [3]float64 `yaml:"gravity"`
	Timestep           float64    `yaml:"timestep"`
	VelocityIterations int        `yaml:"velocity_iterations"`
	PositionIterations int        `yaml:"position_iterations"`
	IsGravityOn        bool       `yaml:"is_gravity_on"`
	IsSleepingAllowed  bool       `yaml:"is_sleeping_allowed"`
	DefaultRestitution float64    `yaml:"default_restitution"`
	DefaultFriction    float64    `yaml:"default_friction"`
	SleepLinearThresh  float64    `yaml:"sleep_linear_threshold"`
	SleepAngularThresh float64    `yaml:"sleep_angular_threshold"`
	SleepTime          float64    `yaml:"sleep_time"`
}

// DefaultConfig returns the reference engine's own tuning: gravity
// (0,-9.81,0), a 1/60s fixed step, 10 velocity and 5 position iterations.
func DefaultConfig() Config {
	return Config{
		Gravity:            [3]float64{0, -9.81, 0},
		Timestep:           1.0 / 60.0,
		VelocityIterations: 10,
		PositionIterations: 5,
		IsGravityOn:        true,
		IsSleepingAllowed:  true,
		DefaultRestitution: 0,
		DefaultFriction:    0.5,
		SleepLinearThresh:  0.05,
		SleepAngularThresh: 0.05,
		SleepTime:          0.5,
	}
}

// LoadConfig reads a YAML scenario preset from path, starting from
// DefaultConfig so an omitted field keeps its default rather than
// zeroing out.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) gravityV3() lin.V3 {
	return lin.V3{X: c.Gravity[0], Y: c.Gravity[1], Z: c.Gravity[2]}
}
