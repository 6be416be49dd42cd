package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/vec"
)

const (
	coordSep = ","
	listSep  = "#"
)

// frame converts between world points and stored offsets for one annotation.
type frame struct {
	a      *domain.Annotation
	origin vec.Vec2 // insertion point in local space
}

func newFrame(a *domain.Annotation) frame {
	return frame{a: a, origin: a.InsertionPointOCS()}
}

func (f frame) offset(world vec.Vec2) vec.Vec2 {
	return f.a.ToOCS(world).Sub(f.origin)
}

func (f frame) world(offset vec.Vec2) vec.Vec2 {
	return f.a.ToWorld(offset.Add(f.origin))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func round6(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

func formatPoint(p vec.Vec2) string {
	return formatFloat(p.X) + coordSep + formatFloat(p.Y)
}

func parsePoint(s string) (vec.Vec2, error) {
	xs, ys, ok := strings.Cut(s, coordSep)
	if !ok {
		return vec.Vec2{}, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return vec.Vec2{X: x, Y: y}, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}

// format renders a property value in its stored form.
func (f frame) format(t schema.Type, value any) (string, error) {
	switch t.(type) {
	case *schema.BoolType:
		if v, ok := value.(bool); ok {
			return strconv.FormatBool(v), nil
		}
	case *schema.IntType:
		if v, ok := value.(int); ok {
			return strconv.Itoa(v), nil
		}
	case *schema.FloatType:
		if v, ok := value.(float64); ok {
			return formatFloat(v), nil
		}
	case *schema.StringType, *schema.EnumType, *schema.ScaleType:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case *schema.PointType:
		if v, ok := value.(vec.Vec2); ok {
			return formatPoint(f.offset(v)), nil
		}
	case *schema.PointListType:
		if v, ok := value.([]vec.Vec2); ok {
			parts := make([]string, len(v))
			for i, p := range v {
				parts[i] = formatPoint(f.offset(p))
			}
			return strings.Join(parts, listSep), nil
		}
	case *schema.FloatListType:
		if v, ok := value.([]float64); ok {
			parts := make([]string, len(v))
			for i, x := range v {
				parts[i] = strconv.FormatFloat(round6(x), 'f', -1, 64)
			}
			return strings.Join(parts, listSep), nil
		}
	default:
		return "", fmt.Errorf("unsupported kind %s", t.Name())
	}
	return "", fmt.Errorf("value %T does not match kind %s", value, t.Name())
}

// parse reads a stored value back into the canonical Go type for t.
func (f frame) parse(t schema.Type, s string) (any, error) {
	switch t.(type) {
	case *schema.BoolType:
		return strconv.ParseBool(s)
	case *schema.IntType:
		return strconv.Atoi(s)
	case *schema.FloatType:
		return strconv.ParseFloat(s, 64)
	case *schema.StringType, *schema.EnumType, *schema.ScaleType:
		return s, nil
	case *schema.PointType:
		p, err := parsePoint(s)
		if err != nil {
			return nil, err
		}
		return f.world(p), nil
	case *schema.PointListType:
		parts := splitList(s)
		pts := make([]vec.Vec2, 0, len(parts))
		for _, part := range parts {
			p, err := parsePoint(part)
			if err != nil {
				return nil, err
			}
			pts = append(pts, f.world(p))
		}
		return pts, nil
	case *schema.FloatListType:
		parts := splitList(s)
		vals := make([]float64, 0, len(parts))
		for _, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", t.Name())
}
