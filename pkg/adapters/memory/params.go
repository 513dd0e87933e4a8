package memory

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Params is a read-only parameter tree, typically decoded from the YAML config.
// Keys are dot separated paths ("safety.max_roll").
type Params struct {
	tree map[string]any
}

// NewParams copies tree so later mutation by the caller has no effect.
func NewParams(tree map[string]any) *Params {
	return &Params{tree: cloneTree(tree)}
}

func cloneTree(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if sub, ok := asMap(v); ok {
			out[k] = cloneTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

func (p *Params) lookup(key string) (any, bool) {
	if key == "" {
		return p.tree, true
	}
	var cur any = p.tree
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Float returns the numeric value at key.
func (p *Params) Float(key string) (float64, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// FloatOr returns the value at key or def when missing.
func (p *Params) FloatOr(key string, def float64) float64 {
	if v, ok := p.Float(key); ok {
		return v
	}
	return def
}

// String returns the string value at key.
func (p *Params) String(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Decode decodes the subtree under prefix into out using mapstructure tags.
// A missing prefix leaves out untouched.
func (p *Params) Decode(prefix string, out any) error {
	v, ok := p.lookup(prefix)
	if !ok {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode params %q: %w", prefix, err)
	}
	return nil
}
