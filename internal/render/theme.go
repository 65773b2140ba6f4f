package render

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Theme is the color palette of the text output.
type Theme struct {
	Primary   lipgloss.Color // Purple - headings
	Secondary lipgloss.Color // Gold/orange - gradient end

	FgBase   lipgloss.Color // Values
	FgMuted  lipgloss.Color // Labels
	FgSubtle lipgloss.Color // Notes such as "(estimated)"

	Success lipgloss.Color
	Warning lipgloss.Color
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Success: lipgloss.Color("#42b883"),
	Warning: lipgloss.Color("#f1a208"),
}

type styles struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Note    lipgloss.Style
	Section lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
}

func (t *Theme) styles() styles {
	return styles{
		Label:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Value:   lipgloss.NewStyle().Foreground(t.FgBase),
		Note:    lipgloss.NewStyle().Foreground(t.FgSubtle).Italic(true),
		Section: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}

// Gradient renders bold text with a horizontal color gradient.
func (t *Theme) Gradient(text string) string {
	if text == "" {
		return ""
	}

	// Split into grapheme clusters for proper unicode handling
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	if len(clusters) == 1 {
		return lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(text)
	}

	colors := blendColors(len(clusters), t.Primary, t.Secondary)

	var b strings.Builder
	for i, cluster := range clusters {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorToHex(colors[i]))).Bold(true)
		b.WriteString(style.Render(cluster))
	}
	return b.String()
}

// blendColors returns a slice of colors blended between from and to.
// Blending is done in HCL color space for perceptually uniform transitions.
func blendColors(size int, from, to lipgloss.Color) []color.Color {
	if size < 2 {
		return []color.Color{lipglossToColor(from)}
	}

	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))

	colors := make([]color.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = c1.BlendHcl(c2, t)
	}
	return colors
}

func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		col, err := colorful.Hex(hex)
		if err == nil {
			return col
		}
	}
	// Fallback for ANSI colors
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

func colorToHex(c color.Color) string {
	if cf, ok := c.(colorful.Color); ok {
		return cf.Hex()
	}
	r, g, b, _ := c.RGBA()
	return colorful.Color{
		R: float64(r) / 65535.0,
		G: float64(g) / 65535.0,
		B: float64(b) / 65535.0,
	}.Hex()
}
