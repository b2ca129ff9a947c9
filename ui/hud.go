package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	State      emotion.State
	Color      emotion.RGB // Current smoothed aura color
	Progress   float32     // Transition progress
	Particles  int
	Tick       int64
	FPS        int32
	Paused     bool
	ScreenSize [2]int32
}

// HUD renders the state panel: a centered sentiment bar, an energy bar, the
// current color, and the keyword list.
type HUD struct {
	renderer *Renderer
	panel    PanelDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		panel:    StatePanel(),
	}
}

// StatePanel describes the emotional state panel.
func StatePanel() PanelDescriptor {
	hud := func(data any) HUDData { return data.(HUDData) }
	return PanelDescriptor{
		ID:     "state",
		Title:  "Aura",
		Anchor: AnchorTopLeft,
		Sections: []SectionDescriptor{
			{
				ID: "emotion",
				Fields: []FieldDescriptor{
					{
						ID:         "emotion",
						Label:      "Emotion",
						Widget:     WidgetText,
						TextGetter: func(d any) string { return hud(d).State.Dominant.String() },
					},
					{
						ID:         "tone",
						Label:      "Tone",
						Widget:     WidgetText,
						TextGetter: func(d any) string { return hud(d).State.SentimentType.String() },
					},
					{
						ID:     "sentiment",
						Label:  "Sentiment",
						Widget: WidgetCenteredBar,
						Range:  CenteredRange(),
						Getter: func(d any) float32 { return hud(d).State.Sentiment },
					},
					{
						ID:     "energy",
						Label:  "Energy",
						Widget: WidgetBar,
						Range:  DefaultRange(),
						Getter: func(d any) float32 { return hud(d).State.Energy },
						ColorGetter: func(d any) rl.Color {
							return toRLColor(hud(d).Color, 255)
						},
					},
					{
						ID:          "color",
						Label:       "Color",
						Widget:      WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color { return toRLColor(hud(d).Color, 255) },
					},
					{
						ID:      "transition",
						Label:   "Transition",
						Widget:  WidgetBar,
						Range:   DefaultRange(),
						Getter:  func(d any) float32 { return hud(d).Progress },
						Visible: func(d any) bool { return hud(d).Progress < 1 },
					},
				},
			},
			{
				ID:      "keywords",
				Title:   "Keywords",
				Visible: func(d any) bool { return len(hud(d).State.Keywords) > 0 },
				Fields: []FieldDescriptor{
					{
						ID:         "keywords",
						Label:      "Recent",
						Widget:     WidgetText,
						TextGetter: func(d any) string { return keywordLine(hud(d).State.Keywords, 4) },
					},
					{
						ID:         "keywords_more",
						Label:      "",
						Widget:     WidgetText,
						Visible:    func(d any) bool { return len(hud(d).State.Keywords) > 4 },
						TextGetter: func(d any) string { return keywordLine(hud(d).State.Keywords[4:], 6) },
					},
				},
			},
			{
				ID: "run",
				Fields: []FieldDescriptor{
					{
						ID:     "particles",
						Label:  "Particles",
						Widget: WidgetText,
						Format: "%.0f",
						Getter: func(d any) float32 { return float32(hud(d).Particles) },
					},
					{
						ID:     "tick",
						Label:  "Tick",
						Widget: WidgetText,
						TextGetter: func(d any) string {
							h := hud(d)
							s := fmt.Sprintf("%d  (%d fps)", h.Tick, h.FPS)
							if h.Paused {
								s += "  PAUSED"
							}
							return s
						},
					},
				},
			},
		},
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) rl.Rectangle {
	return h.renderer.DrawPanelDescriptor(h.panel, data, data.ScreenSize[0], data.ScreenSize[1])
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func keywordLine(kw []string, limit int) string {
	if len(kw) > limit {
		kw = kw[:limit]
	}
	return strings.Join(kw, ", ")
}

func toRLColor(c emotion.RGB, a uint8) rl.Color {
	r, g, b := c.Bytes()
	return rl.Color{R: r, G: g, B: b, A: a}
}

// PerfPanel renders frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Frame: %s  (%.0f fps)", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
