package avg

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

// converter turns an evaluated property value into its typed form.
type converter func(v any) (any, error)

func asNumber(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		s := strings.TrimSpace(x)
		f, n := strconv.ParseFloat([]byte(s))
		if n == 0 || n != len(s) {
			return nil, fmt.Errorf("expected a number, got %q", x)
		}
		return f, nil
	}
	return nil, fmt.Errorf("expected a number, got %T", v)
}

func asNonNegative(v any) (any, error) {
	f, err := asNumber(v)
	if err != nil {
		return nil, err
	}
	return math.Max(0, f.(float64)), nil
}

func asOpacity(v any) (any, error) {
	f, err := asNumber(v)
	if err != nil {
		return nil, err
	}
	return graphics.Clamp01(f.(float64)), nil
}

func asString(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", nil
	}
	return fmt.Sprint(v), nil
}

func asBool(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return x != "" && x != "false", nil
	case nil:
		return false, nil
	}
	f, err := asNumber(v)
	if err != nil {
		return nil, err
	}
	return f.(float64) != 0, nil
}

func asTransform(v any) (any, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return ParseTransform(s.(string))
}

func asPath(v any) (any, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return ParsePathData(s.(string))
}

func asColor(v any) (graphics.Color, error) {
	switch x := v.(type) {
	case nil:
		return graphics.ColorTransparent, nil
	case string:
		return graphics.ParseColor(x)
	}
	return 0, fmt.Errorf("expected a color, got %T", v)
}

// asNumberArray accepts a list of numbers or a whitespace or comma
// separated string.
func asNumberArray(v any) (any, error) {
	var items []any
	switch x := v.(type) {
	case nil:
		return []float64{}, nil
	case []any:
		items = x
	case string:
		for _, f := range strings.FieldsFunc(x, func(r rune) bool { return r == ',' || r == ' ' }) {
			items = append(items, f)
		}
	default:
		items = []any{x}
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := asNonNegative(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f.(float64))
	}
	return out, nil
}

func asEnum[T ~uint8](names []string) converter {
	return func(v any) (any, error) {
		s, _ := v.(string)
		for i, name := range names {
			if name == s {
				return T(i), nil
			}
		}
		return nil, fmt.Errorf("expected one of %v, got %v", names, v)
	}
}

var (
	asLineCap    = asEnum[sg.LineCap]([]string{"butt", "round", "square"})
	asLineJoin   = asEnum[sg.LineJoin]([]string{"miter", "round", "bevel"})
	asTextAnchor = asEnum[TextAnchor]([]string{"start", "middle", "end"})
)

// TextAnchor aligns text horizontally on its x coordinate.
type TextAnchor uint8

const (
	TextAnchorStart TextAnchor = iota
	TextAnchorMiddle
	TextAnchorEnd
)

// GradientType selects a linear or radial gradient.
type GradientType uint8

const (
	GradientLinear GradientType = iota
	GradientRadial
)

// Gradient is a fill or stroke gradient authored inline on an element.
type Gradient struct {
	Type           GradientType
	Colors         []graphics.Color
	InputRange     []float64
	UseBoundingBox bool
	Spread         sg.SpreadMethod
	X1, Y1, X2, Y2 float64
	CenterX        float64
	CenterY        float64
	Radius         float64
}

// Visible reports whether any stop has a visible color.
func (g *Gradient) Visible() bool {
	for _, c := range g.Colors {
		if !c.Transparent() {
			return true
		}
	}
	return false
}

// asFill accepts a color string or a gradient object and returns a
// graphics.Color or a *Gradient.
func asFill(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return asColor(v)
	}
	return asGradient(m)
}

func asGradient(m map[string]any) (*Gradient, error) {
	g := &Gradient{
		UseBoundingBox: true,
		X2:             1,
		Y2:             1,
		CenterX:        0.5,
		CenterY:        0.5,
		Radius:         0.7071,
	}

	switch m["type"] {
	case "linear":
		g.Type = GradientLinear
	case "radial":
		g.Type = GradientRadial
	default:
		return nil, fmt.Errorf("gradient type must be linear or radial, got %v", m["type"])
	}

	colors, _ := m["colorRange"].([]any)
	if len(colors) < 2 {
		return nil, fmt.Errorf("gradient needs at least two colors")
	}
	for _, c := range colors {
		color, err := asColor(c)
		if err != nil {
			return nil, err
		}
		g.Colors = append(g.Colors, color)
	}

	if raw, ok := m["inputRange"]; ok {
		r, err := asNumberArray(raw)
		if err != nil {
			return nil, err
		}
		g.InputRange = r.([]float64)
		if len(g.InputRange) != len(g.Colors) {
			return nil, fmt.Errorf("gradient inputRange has %d stops for %d colors", len(g.InputRange), len(g.Colors))
		}
		for i, v := range g.InputRange {
			if v > 1 || (i > 0 && v < g.InputRange[i-1]) {
				return nil, fmt.Errorf("gradient inputRange must ascend within [0,1]")
			}
		}
	} else {
		g.InputRange = make([]float64, len(g.Colors))
		for i := range g.InputRange {
			g.InputRange[i] = float64(i) / float64(len(g.Colors)-1)
		}
	}

	switch m["units"] {
	case nil, "boundingBox":
	case "userSpace":
		g.UseBoundingBox = false
	default:
		return nil, fmt.Errorf("gradient units must be boundingBox or userSpace, got %v", m["units"])
	}

	if raw, ok := m["spreadMethod"]; ok {
		spread, err := asEnum[sg.SpreadMethod]([]string{"pad", "reflect", "repeat"})(raw)
		if err != nil {
			return nil, err
		}
		g.Spread = spread.(sg.SpreadMethod)
	}

	for key, field := range map[string]*float64{
		"x1": &g.X1, "y1": &g.Y1, "x2": &g.X2, "y2": &g.Y2,
		"centerX": &g.CenterX, "centerY": &g.CenterY, "radius": &g.Radius,
	} {
		if raw, ok := m[key]; ok {
			f, err := asNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("gradient %s: %w", key, err)
			}
			*field = f.(float64)
		}
	}
	return g, nil
}

// fillVisible reports whether a converted fill draws anything.
func fillVisible(v any) bool {
	switch x := v.(type) {
	case graphics.Color:
		return !x.Transparent()
	case *Gradient:
		return x.Visible()
	}
	return false
}

// newPaint builds the scene graph paint for a converted fill.
func newPaint(fill any, opacity float64, transform graphics.Transform2D) sg.Paint {
	var paint sg.Paint
	switch x := fill.(type) {
	case *Gradient:
		if x.Type == GradientRadial {
			p := sg.NewRadialGradientPaint()
			p.SetCenter(graphics.Offset{X: x.CenterX, Y: x.CenterY})
			p.SetRadius(x.Radius)
			p.SetPoints(x.InputRange)
			p.SetColors(x.Colors)
			p.SetSpreadMethod(x.Spread)
			p.SetUseBoundingBox(x.UseBoundingBox)
			paint = p
		} else {
			p := sg.NewLinearGradientPaint()
			p.SetStart(graphics.Offset{X: x.X1, Y: x.Y1})
			p.SetEnd(graphics.Offset{X: x.X2, Y: x.Y2})
			p.SetPoints(x.InputRange)
			p.SetColors(x.Colors)
			p.SetSpreadMethod(x.Spread)
			p.SetUseBoundingBox(x.UseBoundingBox)
			paint = p
		}
	case graphics.Color:
		paint = sg.NewColorPaint(x)
	default:
		paint = sg.NewColorPaint(graphics.ColorTransparent)
	}
	paint.SetOpacity(opacity)
	paint.SetTransform(transform)
	paint.GetAndClearModified()
	return paint
}

// asFilters converts a list of filter objects. Unknown filter types are
// skipped with a warning.
func asFilters(v any) (any, error) {
	var items []any
	switch x := v.(type) {
	case nil:
		return []sg.Filter{}, nil
	case []any:
		items = x
	case map[string]any:
		items = []any{x}
	default:
		return nil, fmt.Errorf("expected a filter list, got %T", v)
	}

	out := make([]sg.Filter, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a filter object, got %T", item)
		}
		switch m["type"] {
		case "DropShadow":
			f := sg.Filter{Type: sg.FilterDropShadow, Color: graphics.ColorBlack, Radius: 2}
			if raw, ok := m["color"]; ok {
				c, err := asColor(raw)
				if err != nil {
					return nil, err
				}
				f.Color = c
			}
			for key, field := range map[string]*float64{
				"horizontalOffset": &f.HorizontalOffset,
				"verticalOffset":   &f.VerticalOffset,
				"radius":           &f.Radius,
			} {
				if raw, ok := m[key]; ok {
					n, err := asNumber(raw)
					if err != nil {
						return nil, fmt.Errorf("DropShadow %s: %w", key, err)
					}
					*field = n.(float64)
				}
			}
			out = append(out, f)
		case "Noise":
			out = append(out, sg.Filter{Type: sg.FilterNoise})
		default:
			sg.Logger().Warn("avg: unsupported filter", "type", m["type"])
		}
	}
	return out, nil
}
