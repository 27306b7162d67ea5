// Package clothflags binds the cloth definition and run settings to a
// flag.FlagSet so every tool accepts the same options.
package clothflags

import (
	"flag"
	"fmt"
	"math"
	"strconv"
	"strings"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Pin names accepted by -pin.
var pinPredicates = map[string]cloth.PbdPinPredicate{
	"corners": cloth.PbdPinCorners,
	"row":     cloth.PbdPinRow,
	"none":    cloth.PbdPinNone,
}

// Config holds the parsed options. Call Resolve after parsing.
type Config struct {
	EdgeCount  int
	Mass       float64
	Gravity    float64
	Wind       Vec3Value
	Damping    float64
	Iterations int
	Stretch    float64
	Bend       float64
	Pin        string

	Dt    float64
	Ticks int
}

// Vec3Value is a flag.Value for "x,y,z" vectors.
type Vec3Value mgl64.Vec3

func (v *Vec3Value) String() string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

func (v *Vec3Value) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return errors.Errorf("want x,y,z, got %q", s)
	}

	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return errors.Wrapf(err, "component %d", i)
		}
		v[i] = f
	}

	return nil
}

// Bind registers the options on fs with the library defaults.
func Bind(fs *flag.FlagSet) *Config {
	def := cloth.MakePbdClothDef()
	cfg := &Config{}

	fs.IntVar(&cfg.EdgeCount, "edge", def.EdgeCount, "vertices along each side of the grid")
	fs.Float64Var(&cfg.Mass, "mass", def.Mass, "mass of every vertex")
	fs.Float64Var(&cfg.Gravity, "gravity", def.Gravity, "vertical acceleration")
	cfg.Wind = Vec3Value(def.Wind)
	fs.Var(&cfg.Wind, "wind", "constant wind acceleration as x,y,z")
	fs.Float64Var(&cfg.Damping, "damping", def.Tuning.DampingFactor, "rigid-body damping factor in [0,1]")
	fs.IntVar(&cfg.Iterations, "iterations", def.Tuning.Iterations, "solver passes per tick")
	fs.Float64Var(&cfg.Stretch, "stretch", def.Tuning.StretchStiffness, "stretch stiffness in (0,1]")
	fs.Float64Var(&cfg.Bend, "bend", def.Tuning.BendStiffness, "bend stiffness in (0,1]")
	fs.StringVar(&cfg.Pin, "pin", "corners", "pinned vertices: corners, row or none")
	fs.Float64Var(&cfg.Dt, "dt", 1.0/60.0, "time step in seconds")
	fs.IntVar(&cfg.Ticks, "ticks", 600, "number of ticks to simulate")

	return cfg
}

// Resolve validates the options and returns the cloth definition.
func (cfg *Config) Resolve() (cloth.PbdClothDef, error) {
	def := cloth.MakePbdClothDef()

	pinned, ok := pinPredicates[cfg.Pin]
	if !ok {
		return def, errors.Wrapf(cloth.ErrInvalidConfig, "unknown pin mode %q", cfg.Pin)
	}

	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt <= 0 {
		return def, errors.Wrapf(cloth.ErrInvalidTimeStep, "dt must be finite and positive, got %v", cfg.Dt)
	}

	if cfg.Ticks < 0 {
		return def, errors.Wrapf(cloth.ErrInvalidConfig, "ticks must not be negative, got %d", cfg.Ticks)
	}

	def.EdgeCount = cfg.EdgeCount
	def.Mass = cfg.Mass
	def.Gravity = cfg.Gravity
	def.Wind = mgl64.Vec3(cfg.Wind)
	def.Pinned = pinned
	def.Tuning.DampingFactor = cfg.Damping
	def.Tuning.Iterations = cfg.Iterations
	def.Tuning.StretchStiffness = cfg.Stretch
	def.Tuning.BendStiffness = cfg.Bend

	if err := def.Validate(); err != nil {
		return def, err
	}

	return def, nil
}

// Parse is Bind, fs.Parse and Resolve in one call.
func Parse(name string, args []string) (*Config, cloth.PbdClothDef, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg := Bind(fs)

	if err := fs.Parse(args); err != nil {
		return nil, cloth.PbdClothDef{}, err
	}

	def, err := cfg.Resolve()
	if err != nil {
		return nil, def, err
	}

	return cfg, def, nil
}
