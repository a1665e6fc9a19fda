package wallpaper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Vec2 struct {
	X, Y float64
}

// UnmarshalJSON accepts "x y", a single number, [x, y] or {"x":..,"y":..}.
func (v *Vec2) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return v.fromString(s)
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		v.X, v.Y = f, f
		return nil
	}

	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 2 {
			return fmt.Errorf("vec2: want 2 components, got %d", len(arr))
		}
		v.X, v.Y = arr[0], arr[1]
		return nil
	}

	var obj struct {
		X, Y float64
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vec2: %w", err)
	}
	v.X, v.Y = obj.X, obj.Y
	return nil
}

func (v *Vec2) fromString(s string) error {
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		f, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return fmt.Errorf("vec2 %q: %w", s, err)
		}
		v.X, v.Y = f, f
	case 2:
		x, errX := strconv.ParseFloat(parts[0], 64)
		y, errY := strconv.ParseFloat(parts[1], 64)
		if errX != nil || errY != nil {
			return fmt.Errorf("vec2 %q: not numeric", s)
		}
		v.X, v.Y = x, y
	default:
		return fmt.Errorf("vec2 %q: want 2 components", s)
	}
	return nil
}

type Vec3 struct {
	X, Y, Z float64
}

// UnmarshalJSON accepts "x y z", a single number, [x, y, z] or an object.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return v.fromString(s)
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		v.X, v.Y, v.Z = f, f, f
		return nil
	}

	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 3 {
			return fmt.Errorf("vec3: want 3 components, got %d", len(arr))
		}
		v.X, v.Y, v.Z = arr[0], arr[1], arr[2]
		return nil
	}

	var obj struct {
		X, Y, Z float64
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	v.X, v.Y, v.Z = obj.X, obj.Y, obj.Z
	return nil
}

func (v *Vec3) fromString(s string) error {
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		f, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return fmt.Errorf("vec3 %q: %w", s, err)
		}
		v.X, v.Y, v.Z = f, f, f
	case 3:
		var vals [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return fmt.Errorf("vec3 %q: %w", s, err)
			}
			vals[i] = f
		}
		v.X, v.Y, v.Z = vals[0], vals[1], vals[2]
	default:
		return fmt.Errorf("vec3 %q: want 3 components", s)
	}
	return nil
}

// ParseColor reads an "r g b" string with components in [0, 1].
func ParseColor(colorStr string) (float64, float64, float64) {
	colorParts := strings.Fields(colorStr)
	if len(colorParts) < 3 {
		return 0, 0, 0
	}
	red, _ := strconv.ParseFloat(colorParts[0], 64)
	green, _ := strconv.ParseFloat(colorParts[1], 64)
	blue, _ := strconv.ParseFloat(colorParts[2], 64)
	return red, green, blue
}
