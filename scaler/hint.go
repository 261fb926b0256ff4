package scaler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Hint defaults, applied field by field.
const (
	DefaultEpsilon = 0.01
	DefaultXi      = 0.9
	DefaultAlpha   = 0.9
	DefaultGamma   = 0.5
)

// Hyperparameters configures one Controller. Everything except Epsilon is
// fixed for the controller's lifetime; Epsilon decays by Xi every step.
type Hyperparameters struct {
	Alpha   float64 // learning rate, (0, 1]
	Gamma   float64 // discount, [0, 1]
	Epsilon float64 // exploration probability, [0, 1]
	Xi      float64 // exploration decay per step, (0, 1]
	Bounds  SizeBounds
}

// DefaultHyperparameters returns the documented hint defaults over the full size range.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Alpha:   DefaultAlpha,
		Gamma:   DefaultGamma,
		Epsilon: DefaultEpsilon,
		Xi:      DefaultXi,
		Bounds:  FullRange(),
	}
}

// hint keys
const (
	hintEpsilon = "epsilon"
	hintXi      = "xi"
	hintAlpha   = "alpha"
	hintGamma   = "gamma"
	hintMaxSize = "maxResourceSize"
	hintMinSize = "minResourceSize"
)

// ParseHint decodes a per-partition hint. The hint is a JSON or YAML mapping
// with optional keys epsilon, xi, alpha, gamma, maxResourceSize and
// minResourceSize. It never fails: an undecodable hint yields the defaults,
// and each missing or invalid key falls back to its own default.
func ParseHint(raw string) Hyperparameters {
	hp := DefaultHyperparameters()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return hp
	}

	fields, err := decodeHint(raw)
	if err != nil {
		logrus.Debugf("hint %q is not a mapping, using defaults: %v", raw, err)
		return hp
	}
	return hp.withFields(fields)
}

// decodeHint decodes a JSON or YAML mapping into its top-level fields.
// A repeated key keeps its last value, as a JSON decoder would.
func decodeHint(raw string) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("empty document")
	}
	node := doc.Content[0]
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("got %s, want a mapping", node.Tag)
	}
	fields := make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			continue
		}
		var v any
		if err := value.Decode(&v); err != nil {
			logrus.Debugf("hint %s: %v, ignoring", key.Value, err)
			continue
		}
		fields[key.Value] = v
	}
	return fields, nil
}

// withFields overrides h from a decoded hint mapping.
func (h Hyperparameters) withFields(fields map[string]any) Hyperparameters {
	h.Alpha = hintFloat(fields, hintAlpha, h.Alpha, func(v float64) bool { return v > 0 && v <= 1 })
	h.Gamma = hintFloat(fields, hintGamma, h.Gamma, unitInterval)
	h.Epsilon = hintFloat(fields, hintEpsilon, h.Epsilon, unitInterval)
	h.Xi = hintFloat(fields, hintXi, h.Xi, func(v float64) bool { return v > 0 && v <= 1 })

	bounds := h.Bounds
	bounds.Max = hintSize(fields, hintMaxSize, bounds.Max)
	bounds.Min = hintSize(fields, hintMinSize, bounds.Min)
	h.Bounds = validBounds(bounds, h.Bounds)
	return h
}

// WithBounds overrides the size clamp from labels. Empty or unknown labels keep
// the current value; an inverted range keeps the current bounds.
func (h Hyperparameters) WithBounds(minLabel, maxLabel string) Hyperparameters {
	bounds := h.Bounds
	if size, err := ParseSize(maxLabel); err == nil {
		bounds.Max = size
	} else if maxLabel != "" {
		logrus.Debugf("ignoring max size: %v", err)
	}
	if size, err := ParseSize(minLabel); err == nil {
		bounds.Min = size
	} else if minLabel != "" {
		logrus.Debugf("ignoring min size: %v", err)
	}
	h.Bounds = validBounds(bounds, h.Bounds)
	return h
}

func validBounds(candidate, fallback SizeBounds) SizeBounds {
	if candidate.Min > candidate.Max {
		logrus.Debugf("ignoring inverted size bounds [%s, %s]", candidate.Min, candidate.Max)
		return fallback
	}
	return candidate
}

func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}

func hintFloat(fields map[string]any, key string, def float64, ok func(float64) bool) float64 {
	raw, present := fields[key]
	if !present || raw == nil {
		return def
	}
	var v float64
	switch x := raw.(type) {
	case int:
		v = float64(x)
	case float64:
		v = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			logrus.Debugf("hint %s=%q is not a number, using %v", key, x, def)
			return def
		}
		v = parsed
	default:
		logrus.Debugf("hint %s has unsupported type %T, using %v", key, raw, def)
		return def
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || !ok(v) {
		logrus.Debugf("hint %s=%v out of range, using %v", key, v, def)
		return def
	}
	return v
}

func hintSize(fields map[string]any, key string, def Size) Size {
	raw, present := fields[key]
	if !present || raw == nil {
		return def
	}
	label, isString := raw.(string)
	if !isString {
		logrus.Debugf("hint %s has unsupported type %T, using %s", key, raw, def)
		return def
	}
	size, err := ParseSize(label)
	if err != nil {
		logrus.Debugf("hint %s: %v, using %s", key, err, def)
		return def
	}
	return size
}
