package avg

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

// TextStyle carries the font properties of a text element.
type TextStyle struct {
	FontFamily    string
	FontSize      float64
	FontWeight    string
	FontStyle     string
	LetterSpacing float64
}

// TextLayout is a measured single line of text.
type TextLayout interface {
	sg.TextLayout
	// Baseline is the distance from the top of the layout to the baseline.
	Baseline() float64
}

// TextMeasurer lays out text for text elements.
type TextMeasurer interface {
	Layout(text string, style TextStyle) TextLayout
}

// BasicMeasurer measures text with the fixed 7x13 bitmap face scaled to
// the font size. It is the default measurer and needs no font files.
type BasicMeasurer struct{}

func (BasicMeasurer) Layout(text string, style TextStyle) TextLayout {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	scale := style.FontSize / (float64(metrics.Height) / 64)

	line := strings.ReplaceAll(text, "\n", " ")
	width := float64(font.MeasureString(face, line)) / 64 * scale
	if n := utf8.RuneCountInString(line); n > 0 {
		width += style.LetterSpacing * float64(n)
	}
	return &basicLayout{
		text:     text,
		width:    width,
		height:   style.FontSize,
		baseline: float64(metrics.Ascent) / 64 * scale,
	}
}

type basicLayout struct {
	text     string
	width    float64
	height   float64
	baseline float64
}

func (l *basicLayout) Empty() bool {
	return l.text == ""
}

func (l *basicLayout) Size() graphics.Size {
	if l.text == "" {
		return graphics.Size{}
	}
	return graphics.Size{Width: l.width, Height: l.height}
}

func (l *basicLayout) LineCount() int {
	if l.text == "" {
		return 0
	}
	return 1
}

func (l *basicLayout) LineBounds(sg.Range) graphics.Rect {
	return graphics.RectFromLTWH(0, 0, l.width, l.height)
}

func (l *basicLayout) Text() string {
	return l.text
}

func (l *basicLayout) Baseline() float64 {
	return l.baseline
}
