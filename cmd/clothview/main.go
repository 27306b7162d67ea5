package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/Alexander-r/cloth.go/internal/clothflags"
	"github.com/Alexander-r/cloth.go/internal/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	screenWidth  = 960
	screenHeight = 720
)

var background = color.RGBA{0x1b, 0x1d, 0x23, 0xff}

type logListener struct{}

func (logListener) DampingSkipped(determinant float64) {
	log.Printf("damping skipped: singular inertia tensor (det=%g)", determinant)
}

func (logListener) StretchSkipped(count int) {
	log.Printf("stretch skipped: %d coincident pairs", count)
}

// Game steps the cloth once per ebiten tick and draws one sphere proxy per
// vertex.
type Game struct {
	cloth  cloth.PbdCloth
	camera render.Camera
	scene  render.Scene

	dt        float64
	wind      mgl64.Vec3
	paused    bool
	windOn    bool
	showLinks bool
	ticks     int
	report    cloth.PbdStepReport
}

func NewGame(def cloth.PbdClothDef, dt float64) (*Game, error) {
	g := &Game{
		cloth:     cloth.MakePbdCloth(),
		camera:    render.FitCamera(def.EdgeCount, screenWidth, screenHeight, 1),
		dt:        dt,
		wind:      def.Wind,
		windOn:    true,
		showLinks: true,
	}

	g.cloth.SetListener(logListener{})
	if err := g.cloth.Create(&def); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.cloth.Reset()
		g.ticks = 0
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.showLinks = !g.showLinks
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.windOn = !g.windOn
		wind := mgl64.Vec3{}
		if g.windOn {
			wind = g.wind
		}
		if err := g.cloth.SetWind(wind); err != nil {
			return err
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		tuning := g.cloth.GetTuning()
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			tuning.Iterations++
		} else if tuning.Iterations > 0 {
			tuning.Iterations--
		}
		if err := g.cloth.SetTuning(tuning); err != nil {
			return err
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camera.Orbit(-0.03, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camera.Orbit(0.03, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camera.Orbit(0, 0.03)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camera.Orbit(0, -0.03)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.camera.Zoom(math.Pow(1.1, dy))
	}

	return nil
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}

	if g.paused {
		return nil
	}

	report, err := g.cloth.Step(g.dt)
	if err != nil {
		return err
	}

	g.report = report
	g.ticks++
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	g.scene.Build(&g.cloth, g.camera, screenWidth, screenHeight)

	if g.showLinks {
		for _, l := range g.scene.Links {
			vector.StrokeLine(screen, float32(l.X1), float32(l.Y1), float32(l.X2), float32(l.Y2), 1, l.Color, true)
		}
	}

	for _, p := range g.scene.Proxies {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius), p.Color, true)
		if g.cloth.GetVertex(p.Index).IsFixed {
			vector.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius)+2, 1.5, color.White, true)
		}
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"tick %d  iterations %d  TPS %.0f\nmax strain %.4f  stretch residual %.2e  bend residual %.2e\ndamping applied %v  skipped stretch %d  skipped bend %d\n[space] pause  [r] reset  [w] wind  [l] links  [i/I] iterations  arrows orbit  wheel zoom",
		g.ticks, g.cloth.GetTuning().Iterations, ebiten.ActualTPS(),
		g.scene.MaxStrain, g.cloth.StretchResidual(), g.cloth.BendResidual(),
		g.report.DampingApplied, g.report.SkippedStretch, g.report.SkippedBend,
	))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	cfg, def, err := clothflags.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "clothview: %v\n", err)
		os.Exit(2)
	}

	game, err := NewGame(def, cfg.Dt)
	if err != nil {
		log.Fatal(err)
	}
	defer game.cloth.Destroy()

	ebiten.SetWindowTitle(fmt.Sprintf("cloth %dx%d", def.EdgeCount, def.EdgeCount))
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetTPS(max(1, int(math.Round(1/cfg.Dt))))

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
