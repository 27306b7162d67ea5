package clothflags_test

import (
	"flag"
	"io"
	"testing"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/Alexander-r/cloth.go/internal/clothflags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func TestDefaultsMatchLibrary(t *testing.T) {
	cfg, def, err := clothflags.Parse("test", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := cloth.MakePbdClothDef()
	if def.EdgeCount != want.EdgeCount || def.Mass != want.Mass || def.Gravity != want.Gravity {
		t.Errorf("def = %+v", def)
	}
	if def.Tuning != want.Tuning {
		t.Errorf("tuning = %+v, want %+v", def.Tuning, want.Tuning)
	}
	if def.Wind != (mgl64.Vec3{}) {
		t.Errorf("wind = %v", def.Wind)
	}
	if !def.Pinned(0, 0, def.EdgeCount) || def.Pinned(1, 1, def.EdgeCount) {
		t.Error("default pin mode is not corners")
	}
	if cfg.Dt != 1.0/60.0 {
		t.Errorf("dt = %v", cfg.Dt)
	}
}

func TestParseOverrides(t *testing.T) {
	args := []string{
		"-edge", "7",
		"-mass", "0.5",
		"-gravity", "-1.62",
		"-wind", "1, 0,-0.5",
		"-damping", "0.2",
		"-iterations", "3",
		"-stretch", "0.9",
		"-bend", "0.1",
		"-pin", "row",
		"-dt", "0.02",
		"-ticks", "10",
	}

	cfg, def, err := clothflags.Parse("test", args)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if def.EdgeCount != 7 || def.Mass != 0.5 || def.Gravity != -1.62 {
		t.Errorf("def = %+v", def)
	}
	if def.Wind != (mgl64.Vec3{1, 0, -0.5}) {
		t.Errorf("wind = %v", def.Wind)
	}
	want := cloth.PbdClothTuning{DampingFactor: 0.2, Iterations: 3, StretchStiffness: 0.9, BendStiffness: 0.1}
	if def.Tuning != want {
		t.Errorf("tuning = %+v", def.Tuning)
	}
	if !def.Pinned(0, 3, 7) {
		t.Error("row pin mode does not pin the first row")
	}
	if cfg.Dt != 0.02 || cfg.Ticks != 10 {
		t.Errorf("dt = %v, ticks = %d", cfg.Dt, cfg.Ticks)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		cause error
	}{
		{"pin", []string{"-pin", "edges"}, cloth.ErrInvalidConfig},
		{"edge", []string{"-edge", "0"}, cloth.ErrInvalidConfig},
		{"stiffness", []string{"-stretch", "1.5"}, cloth.ErrInvalidConfig},
		{"damping", []string{"-damping", "-0.1"}, cloth.ErrInvalidConfig},
		{"dt", []string{"-dt", "0"}, cloth.ErrInvalidTimeStep},
		{"nan dt", []string{"-dt", "NaN"}, cloth.ErrInvalidTimeStep},
		{"infinite dt", []string{"-dt", "+Inf"}, cloth.ErrInvalidTimeStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := clothflags.Parse("test", tt.args)
			if errors.Cause(err) != tt.cause {
				t.Errorf("err = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestWindFlagSyntax(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	clothflags.Bind(fs)

	for _, bad := range []string{"1,2", "a,b,c", "1,2,3,4"} {
		if err := fs.Parse([]string{"-wind", bad}); err == nil {
			t.Errorf("wind %q accepted", bad)
		}
	}
}
