// Package config loads settings from defaults, an optional file, the
// environment, and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/willbeason/tree-armature/pkg/tree"
	"math"
	"strings"
)

// EnvPrefix prefixes environment overrides: tree.max_depth is ARMATURE_TREE_MAX_DEPTH.
const EnvPrefix = "ARMATURE"

type Config struct {
	Tree   TreeConfig   `mapstructure:"tree"`
	Limits LimitsConfig `mapstructure:"limits"`
	Log    LogConfig    `mapstructure:"log"`
	Render RenderConfig `mapstructure:"render"`
	Server ServerConfig `mapstructure:"server"`
}

// TreeConfig is the human-facing form of tree.Parameters. Angles are in degrees.
type TreeConfig struct {
	StartLength        float64 `mapstructure:"start_length" json:"start_length"`
	StartTilt          float64 `mapstructure:"start_tilt" json:"start_tilt"`
	MaxDepth           int     `mapstructure:"max_depth" json:"max_depth"`
	BranchesPerSegment int     `mapstructure:"branches_per_segment" json:"branches_per_segment"`
	LengthIncrement    float64 `mapstructure:"length_increment" json:"length_increment"`
	TiltIncrement      float64 `mapstructure:"tilt_increment" json:"tilt_increment"`
	DebugLabels        bool    `mapstructure:"debug_labels" json:"debug_labels"`
	Parallel           bool    `mapstructure:"parallel" json:"parallel"`
}

type LimitsConfig struct {
	MaxDepth    int `mapstructure:"max_depth"`
	MaxBranches int `mapstructure:"max_branches"`
	MaxSegments int `mapstructure:"max_segments"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RenderConfig struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	Azimuth   float64 `mapstructure:"azimuth"`
	Thickness float64 `mapstructure:"thickness"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Parameters converts the tree settings to generator parameters.
func (c TreeConfig) Parameters() tree.Parameters {
	return tree.Parameters{
		StartLength:        c.StartLength,
		StartTilt:          degToRad(c.StartTilt),
		MaxDepth:           c.MaxDepth,
		BranchesPerSegment: c.BranchesPerSegment,
		LengthIncrement:    c.LengthIncrement,
		TiltIncrement:      degToRad(c.TiltIncrement),
		DebugLabels:        c.DebugLabels,
	}
}

// FromParameters is the inverse of TreeConfig.Parameters.
func FromParameters(p tree.Parameters) TreeConfig {
	return TreeConfig{
		StartLength:        p.StartLength,
		StartTilt:          radToDeg(p.StartTilt),
		MaxDepth:           p.MaxDepth,
		BranchesPerSegment: p.BranchesPerSegment,
		LengthIncrement:    p.LengthIncrement,
		TiltIncrement:      radToDeg(p.TiltIncrement),
		DebugLabels:        p.DebugLabels,
	}
}

func (c LimitsConfig) Limits() tree.Limits {
	return tree.Limits{
		MaxDepth:    c.MaxDepth,
		MaxBranches: c.MaxBranches,
		MaxSegments: c.MaxSegments,
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"start-length":     "tree.start_length",
	"start-tilt":       "tree.start_tilt",
	"depth":            "tree.max_depth",
	"branches":         "tree.branches_per_segment",
	"length-increment": "tree.length_increment",
	"tilt-increment":   "tree.tilt_increment",
	"debug-labels":     "tree.debug_labels",
	"parallel":         "tree.parallel",
	"max-segments":     "limits.max_segments",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"width":            "render.width",
	"height":           "render.height",
	"azimuth":          "render.azimuth",
	"thickness":        "render.thickness",
	"addr":             "server.addr",
}

// Load reads the configuration. path may be empty; its extension picks the
// format. Flags present in flags override everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	t := FromParameters(tree.DefaultParameters())
	v.SetDefault("tree.start_length", t.StartLength)
	v.SetDefault("tree.start_tilt", t.StartTilt)
	v.SetDefault("tree.max_depth", t.MaxDepth)
	v.SetDefault("tree.branches_per_segment", t.BranchesPerSegment)
	v.SetDefault("tree.length_increment", t.LengthIncrement)
	v.SetDefault("tree.tilt_increment", t.TiltIncrement)
	v.SetDefault("tree.debug_labels", false)
	v.SetDefault("tree.parallel", false)

	l := tree.DefaultLimits()
	v.SetDefault("limits.max_depth", l.MaxDepth)
	v.SetDefault("limits.max_branches", l.MaxBranches)
	v.SetDefault("limits.max_segments", l.MaxSegments)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("render.width", 1280)
	v.SetDefault("render.height", 1280)
	v.SetDefault("render.azimuth", 0.0)
	v.SetDefault("render.thickness", 8.0)

	v.SetDefault("server.addr", ":8080")
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
