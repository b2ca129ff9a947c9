package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/emotion"
)

// ControlPanel drives the emotional state by hand: sliders for sentiment and
// energy, one button per emotion, and keyword buttons. Changes are written to
// the store either eased (as a classifier result would be) or immediately.
type ControlPanel struct {
	renderer *Renderer
	store    *emotion.Store
	x, y     int32
	width    int32

	emotion   emotion.Emotion
	sentiment float32
	energy    float32
	eased     bool
	keywords  []string
	nextWord  int
}

// keywordPool feeds the "Add keyword" button.
var keywordPool = []string{
	"sunlight", "rain", "thunder", "whisper", "echo", "bloom",
	"static", "tide", "ember", "glass", "hollow", "spark",
}

// NewControlPanel creates a control panel writing to store.
func NewControlPanel(store *emotion.Store, x, y, width int32) *ControlPanel {
	st := store.Snapshot()
	return &ControlPanel{
		renderer:  NewRenderer(),
		store:     store,
		x:         x,
		y:         y,
		width:     width,
		emotion:   st.Dominant,
		sentiment: st.Sentiment,
		energy:    st.Energy,
		eased:     true,
		keywords:  st.Keywords,
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and applies any changes. It returns the bottom Y.
func (c *ControlPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	innerW := float32(c.width - pad*2)

	emotions := emotion.All()
	rows := int32((len(emotions) + 1) / 2)
	height := pad*2 + lh + 4 + // title
		(lh+24)*2 + // two sliders
		rows*26 + 6 + // emotion grid
		26 + 26 + // mode and keyword rows
		c.overlayHeight(overlays)
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x + pad)
	y := c.y + pad
	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += lh + 4

	changed := false

	// Sentiment and energy sliders
	rl.DrawText(fmt.Sprintf("Sentiment %+.2f", c.sentiment), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lh
	if v := gui.SliderBar(rl.Rectangle{X: x + 20, Y: float32(y), Width: innerW - 40, Height: 16}, "-1", "1", c.sentiment, -1, 1); v != c.sentiment {
		c.sentiment = v
		changed = true
	}
	y += 24

	rl.DrawText(fmt.Sprintf("Energy %.2f", c.energy), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lh
	if v := gui.SliderBar(rl.Rectangle{X: x + 20, Y: float32(y), Width: innerW - 40, Height: 16}, "0", "1", c.energy, 0, 1); v != c.energy {
		c.energy = v
		changed = true
	}
	y += 24

	// Emotion grid, two per row
	bw := (innerW - 6) / 2
	for i, e := range emotions {
		col, row := float32(i%2), int32(i/2)
		label := e.String()
		if e == c.emotion {
			label = "> " + label
		}
		bounds := rl.Rectangle{X: x + col*(bw+6), Y: float32(y + row*26), Width: bw, Height: 22}
		if gui.Button(bounds, label) && e != c.emotion {
			c.emotion = e
			changed = true
		}
	}
	y += rows*26 + 6

	// Mode
	c.eased = gui.CheckBox(rl.Rectangle{X: x, Y: float32(y + 3), Width: 14, Height: 14}, "Ease changes", c.eased)
	y += 26

	// Keywords
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: bw, Height: 22}, "Add keyword") {
		c.keywords = append(c.keywords, keywordPool[c.nextWord%len(keywordPool)])
		c.nextWord++
		changed = true
	}
	if gui.Button(rl.Rectangle{X: x + bw + 6, Y: float32(y), Width: bw, Height: 22}, fmt.Sprintf("Clear (%d)", len(c.keywords))) {
		c.keywords = nil
		changed = true
	}
	y += 26

	if changed {
		c.commit()
	}

	return c.drawOverlays(overlays, int32(x), y)
}

// commit writes the panel values to the store.
func (c *ControlPanel) commit() {
	st := emotion.State{
		Dominant:      c.emotion,
		Sentiment:     c.sentiment,
		SentimentType: sentimentType(c.sentiment),
		Energy:        c.energy,
		Keywords:      c.keywords,
	}.Sanitized()
	c.keywords = st.Keywords

	if !c.eased {
		c.store.Set(st)
		return
	}
	energy := float64(st.Energy)
	c.store.Apply(emotion.Analysis{
		Sentiment:       float64(st.Sentiment),
		SentimentType:   st.SentimentType,
		Energy:          &energy,
		Keywords:        st.Keywords,
		DominantEmotion: st.Dominant,
	})
}

func sentimentType(s float32) emotion.SentimentType {
	switch {
	case s > 0.1:
		return emotion.SentimentPositive
	case s < -0.1:
		return emotion.SentimentNegative
	default:
		return emotion.SentimentNeutral
	}
}

func (c *ControlPanel) overlayHeight(overlays *OverlayRegistry) int32 {
	if overlays == nil {
		return 0
	}
	lh := c.renderer.Theme.LineHeight
	n := int32(0)
	for _, cat := range overlays.Categories() {
		n += int32(len(overlays.ByCategory(cat))) + 1
	}
	return n*lh + 4
}

// drawOverlays lists the overlay toggles with their key bindings.
func (c *ControlPanel) drawOverlays(overlays *OverlayRegistry, x, y int32) int32 {
	if overlays == nil {
		return y
	}
	r := c.renderer
	width := c.width - r.Theme.Padding*2
	y += 4
	for _, cat := range overlays.Categories() {
		y = r.DrawSectionHeader(x, y, categoryLabel(cat))
		for _, desc := range overlays.ByCategory(cat) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), width)
			y += r.Theme.LineHeight
		}
	}
	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
