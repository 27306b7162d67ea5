package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/Alexander-r/cloth.go/internal/clothflags"
	"github.com/Alexander-r/cloth.go/internal/render"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 0.5

type logListener struct {
	dampingSkips int
	stretchSkips int
}

func (l *logListener) DampingSkipped(determinant float64) {
	l.dampingSkips++
	log.Printf("damping skipped: singular inertia tensor (det=%g)", determinant)
}

func (l *logListener) StretchSkipped(count int) {
	l.stretchSkips += count
	log.Printf("stretch skipped: %d coincident pairs", count)
}

type Viewer struct {
	screen        tcell.Screen
	width, height int

	cloth    cloth.PbdCloth
	listener *logListener
	camera   render.Camera
	scene    render.Scene

	dt     float64
	wind   mgl64.Vec3
	paused bool
	windOn bool
	ticks  int
	report cloth.PbdStepReport
}

func NewViewer(def cloth.PbdClothDef, dt float64) (*Viewer, error) {
	v := &Viewer{
		cloth:    cloth.MakePbdCloth(),
		listener: &logListener{},
		dt:       dt,
		wind:     def.Wind,
		windOn:   true,
	}

	v.cloth.SetListener(v.listener)
	if err := v.cloth.Create(&def); err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	v.screen = screen
	v.width, v.height = screen.Size()
	v.camera = render.FitCamera(def.EdgeCount, float64(v.width), float64(v.height-1), cellAspect)

	return v, nil
}

func (v *Viewer) handleResize() {
	v.width, v.height = v.screen.Size()
	v.camera = render.FitCamera(v.cloth.GetEdgeCount(), float64(v.width), float64(v.height-1), cellAspect)
	v.screen.Sync()
}

func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.camera.Orbit(-0.1, 0)
		case tcell.KeyRight:
			v.camera.Orbit(0.1, 0)
		case tcell.KeyUp:
			v.camera.Orbit(0, 0.1)
		case tcell.KeyDown:
			v.camera.Orbit(0, -0.1)
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}

	case *tcell.EventResize:
		v.handleResize()
	}

	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'r':
		v.cloth.Reset()
		v.ticks = 0
	case 'w':
		v.windOn = !v.windOn
		wind := mgl64.Vec3{}
		if v.windOn {
			wind = v.wind
		}
		if err := v.cloth.SetWind(wind); err != nil {
			log.Printf("set wind: %v", err)
		}
	case '+', '=':
		v.camera.Zoom(1.1)
	case '-':
		v.camera.Zoom(1 / 1.1)
	case 'i', 'I':
		tuning := v.cloth.GetTuning()
		if r == 'I' {
			tuning.Iterations++
		} else if tuning.Iterations > 0 {
			tuning.Iterations--
		}
		if err := v.cloth.SetTuning(tuning); err != nil {
			log.Printf("set tuning: %v", err)
		}
	}
	return true
}

func (v *Viewer) update() error {
	if v.paused {
		return nil
	}

	report, err := v.cloth.Step(v.dt)
	if err != nil {
		return err
	}

	v.report = report
	v.ticks++
	return nil
}

func styleFor(c colorful.Color) tcell.Style {
	r, g, b := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// drawLine plots a link with Bresenham's algorithm.
func (v *Viewer) drawLine(x1, y1, x2, y2 int, style tcell.Style) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy

	for {
		v.screen.SetContent(x1, y1, '·', nil, style)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (v *Viewer) draw() {
	v.screen.Clear()

	h := v.height - 1
	v.scene.Build(&v.cloth, v.camera, float64(v.width), float64(h))

	for _, l := range v.scene.Links {
		v.drawLine(int(l.X1), int(l.Y1), int(l.X2), int(l.Y2), styleFor(l.Color))
	}

	for _, p := range v.scene.Proxies {
		glyph := 'o'
		if v.cloth.GetVertex(p.Index).IsFixed {
			glyph = '#'
		}
		v.screen.SetContent(int(p.X), int(p.Y), glyph, nil, styleFor(p.Color).Bold(true))
	}

	paused := ""
	if v.paused {
		paused = "  [paused]"
	}

	status := fmt.Sprintf(" tick %d  iter %d  strain %.4f  stretch %.2e  bend %.2e  damping %v  skips %d/%d%s",
		v.ticks,
		v.cloth.GetTuning().Iterations,
		v.scene.MaxStrain,
		v.cloth.StretchResidual(),
		v.cloth.BendResidual(),
		v.report.DampingApplied,
		v.listener.dampingSkips,
		v.listener.stretchSkips,
		paused,
	)
	statusStyle := tcell.StyleDefault.Reverse(true)
	for x := 0; x < v.width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		v.screen.SetContent(x, h, r, nil, statusStyle)
	}

	v.screen.Show()
}

// tickInterval converts dt to a ticker period of at least one nanosecond.
func tickInterval(dt float64) time.Duration {
	d := time.Duration(dt * float64(time.Second))
	if d < time.Nanosecond {
		return time.Nanosecond
	}
	return d
}

func (v *Viewer) run() error {
	ticker := time.NewTicker(tickInterval(v.dt))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !v.handleInput(ev) {
				return nil
			}

		case <-ticker.C:
			if err := v.update(); err != nil {
				return err
			}
			v.draw()
		}
	}
}

func (v *Viewer) cleanup() {
	v.screen.Fini()
	v.cloth.Destroy()
}

func main() {
	cfg, def, err := clothflags.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "clothterm: %v\n", err)
		os.Exit(2)
	}

	// The screen owns the terminal, so diagnostics go to a file or nowhere.
	log.SetOutput(io.Discard)
	if path := os.Getenv("CLOTHTERM_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "clothterm: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	viewer, err := NewViewer(def, cfg.Dt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	runErr := viewer.run()
	viewer.cleanup()

	os.Exit(reportExit(os.Stderr, runErr))
}

// reportExit writes a run error to w, now that the screen no longer owns the
// terminal, and returns the process exit code.
func reportExit(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	log.Printf("step: %v", err)
	fmt.Fprintf(w, "clothterm: %v\n", err)
	return 1
}
