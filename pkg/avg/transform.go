package avg

import (
	"fmt"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// ParseTransform parses an SVG style transform list such as
// "translate(10 20) rotate(45 5 5) scale(2)". Functions apply right to
// left, so the last one listed acts on points first. The empty string is
// the identity.
func ParseTransform(text string) (graphics.Transform2D, error) {
	result := graphics.IdentityTransform()
	s := newScanner(text)
	for !s.done() {
		name := s.word()
		if name == "" {
			return graphics.IdentityTransform(), fmt.Errorf("expected transform function at offset %d", s.pos)
		}
		if !s.expect('(') {
			return graphics.IdentityTransform(), fmt.Errorf("%s: expected '('", name)
		}
		var args []float64
		for s.atNumber() {
			v, ok := s.number()
			if !ok {
				return graphics.IdentityTransform(), fmt.Errorf("%s: malformed number", name)
			}
			args = append(args, v)
		}
		if !s.expect(')') {
			return graphics.IdentityTransform(), fmt.Errorf("%s: expected ')'", name)
		}

		t, err := transformFunction(name, args)
		if err != nil {
			return graphics.IdentityTransform(), err
		}
		result = result.Mul(t)
	}
	return result, nil
}

func transformFunction(name string, args []float64) (graphics.Transform2D, error) {
	argc := func(allowed ...int) error {
		for _, n := range allowed {
			if len(args) == n {
				return nil
			}
		}
		return fmt.Errorf("%s: unexpected %d arguments", name, len(args))
	}

	switch name {
	case "matrix":
		if err := argc(6); err != nil {
			return graphics.Transform2D{}, err
		}
		return graphics.Transform2D{args[0], args[1], args[2], args[3], args[4], args[5]}, nil
	case "translate":
		if err := argc(1, 2); err != nil {
			return graphics.Transform2D{}, err
		}
		if len(args) == 1 {
			return graphics.TranslateTransform(args[0], 0), nil
		}
		return graphics.TranslateTransform(args[0], args[1]), nil
	case "scale":
		if err := argc(1, 2); err != nil {
			return graphics.Transform2D{}, err
		}
		if len(args) == 1 {
			return graphics.ScaleTransform(args[0], args[0]), nil
		}
		return graphics.ScaleTransform(args[0], args[1]), nil
	case "rotate":
		if err := argc(1, 3); err != nil {
			return graphics.Transform2D{}, err
		}
		if len(args) == 1 {
			return graphics.RotateTransform(args[0]), nil
		}
		return graphics.TranslateTransform(args[1], args[2]).
			Mul(graphics.RotateTransform(args[0])).
			Mul(graphics.TranslateTransform(-args[1], -args[2])), nil
	case "skewX":
		if err := argc(1); err != nil {
			return graphics.Transform2D{}, err
		}
		return graphics.SkewXTransform(args[0]), nil
	case "skewY":
		if err := argc(1); err != nil {
			return graphics.Transform2D{}, err
		}
		return graphics.SkewYTransform(args[0]), nil
	}
	return graphics.Transform2D{}, fmt.Errorf("unknown transform function %q", name)
}

// pivotTransform is the group transform built from its individual
// properties: scale and rotate about the pivot, then translate.
func pivotTransform(translateX, translateY, pivotX, pivotY, rotation, scaleX, scaleY float64) graphics.Transform2D {
	return graphics.TranslateTransform(translateX+pivotX, translateY+pivotY).
		Mul(graphics.RotateTransform(rotation)).
		Mul(graphics.ScaleTransform(scaleX, scaleY)).
		Mul(graphics.TranslateTransform(-pivotX, -pivotY))
}
