package pubfig

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/plotutil"
)

// BasePalette maps palette slot names to Tableau-10 hex values.
var BasePalette = map[string]string{
	"blue":   "#1f77b4",
	"orange": "#ff7f0e",
	"green":  "#2ca02c",
	"red":    "#d62728",
	"purple": "#9467bd",
	"brown":  "#8c564b",
	"pink":   "#e377c2",
	"gray":   "#7f7f7f",
	"olive":  "#bcbd22",
	"cyan":   "#17becf",
}

// SlotOrder is the order in which palette slots are cycled.
var SlotOrder = []string{"blue", "orange", "green", "red", "purple", "brown", "pink", "gray", "olive", "cyan"}

// ContextAliases maps semantic roles to the palette slot they stand for.
var ContextAliases = map[string]string{
	"proposed": "red",
	"sota":     "blue",
	"baseline": "gray",
	"method_A": "green",
	"method_B": "orange",
}

// ColorPolicy resolves roles, slots and hex strings to colors.
// A policy is immutable once built.
type ColorPolicy struct {
	slots   map[string]colorful.Color
	aliases map[string]colorful.Color
	order   []string
}

// NewColorPolicy copies base and binds each alias to the color its slot
// holds now. Later changes to base or aliases do not reach the policy.
func NewColorPolicy(base, aliases map[string]string) (*ColorPolicy, error) {
	p := &ColorPolicy{
		slots:   make(map[string]colorful.Color, len(base)),
		aliases: make(map[string]colorful.Color, len(aliases)),
	}
	for name, hex := range base {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %q: %v", ErrUnknownColor, name, err)
		}
		p.slots[name] = c
	}
	for role, slot := range aliases {
		c, ok := p.slots[slot]
		if !ok {
			return nil, fmt.Errorf("%w: alias %q refers to missing slot %q", ErrUnknownColor, role, slot)
		}
		p.aliases[role] = c
	}

	seen := make(map[string]bool, len(base))
	for _, name := range SlotOrder {
		if _, ok := p.slots[name]; ok {
			p.order = append(p.order, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range p.slots {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	p.order = append(p.order, rest...)
	return p, nil
}

// DefaultColorPolicy builds a policy from the current BasePalette and
// ContextAliases. It fails with ErrUnknownColor when those maps have been
// edited into an inconsistent state.
func DefaultColorPolicy() (*ColorPolicy, error) {
	return NewColorPolicy(BasePalette, ContextAliases)
}

// Lookup returns the color for a role or slot name. Roles shadow slots.
func (p *ColorPolicy) Lookup(name string) (color.Color, error) {
	if c, ok := p.aliases[name]; ok {
		return c, nil
	}
	if c, ok := p.slots[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// Resolve accepts a role, a slot or a "#rrggbb" hex string.
func (p *ColorPolicy) Resolve(spec string) (color.Color, error) {
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColor, spec)
		}
		return c, nil
	}
	return p.Lookup(spec)
}

// Cycle returns the i-th slot color, wrapping around the slot order.
func (p *ColorPolicy) Cycle(i int) color.Color {
	return p.slots[p.order[i%len(p.order)]]
}

// Slots returns slot names in cycling order.
func (p *ColorPolicy) Slots() []string {
	return append([]string(nil), p.order...)
}

// Roles returns the alias names in sorted order.
func (p *ColorPolicy) Roles() []string {
	roles := make([]string, 0, len(p.aliases))
	for r := range p.aliases {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// Hex returns the hex string of a role or slot.
func (p *ColorPolicy) Hex(name string) (string, error) {
	c, err := p.Lookup(name)
	if err != nil {
		return "", err
	}
	return c.(colorful.Color).Hex(), nil
}

// pick returns colors[i] modulo its length.
func pick(colors []color.Color, i int) color.Color {
	return colors[i%len(colors)]
}

// withAlpha returns c with its opacity set to a.
func withAlpha(c color.Color, a float64) color.Color {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

// contrastText picks black or white text for a background color.
func contrastText(bg color.Color) color.Color {
	cf, ok := colorful.MakeColor(bg)
	if !ok {
		return color.Black
	}
	if l, _, _ := cf.Lab(); l < 0.55 {
		return color.White
	}
	return color.Black
}

// resolve resolves a color spec through the theme's policy. Without a
// policy only hex strings are accepted.
func (t Theme) resolve(spec string) (color.Color, error) {
	if t.Colors != nil {
		return t.Colors.Resolve(spec)
	}
	if strings.HasPrefix(spec, "#") {
		if c, err := colorful.Hex(spec); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColor, spec)
}

// cycle returns the i-th default color: the policy's slot order, or the
// plotting library's own palette when the theme has no policy.
func (t Theme) cycle(i int) color.Color {
	if t.Colors == nil {
		return plotutil.Color(i)
	}
	return t.Colors.Cycle(i)
}

// seriesColors resolves specs for n series. An empty list falls back to
// cycling the default colors. The result may be shorter than n and is
// indexed with pick.
func (t Theme) seriesColors(specs []string, n int) ([]color.Color, error) {
	if len(specs) == 0 {
		out := make([]color.Color, n)
		for i := range out {
			out[i] = t.cycle(i)
		}
		return out, nil
	}
	out := make([]color.Color, len(specs))
	for i, s := range specs {
		c, err := t.resolve(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// keyedColors resolves a color per key from mapping, cycling the default
// colors for keys the mapping does not name.
func (t Theme) keyedColors(keys []string, mapping map[string]string) ([]color.Color, error) {
	out := make([]color.Color, len(keys))
	for i, k := range keys {
		spec, ok := mapping[k]
		if !ok {
			out[i] = t.cycle(i)
			continue
		}
		c, err := t.resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("color for %q: %w", k, err)
		}
		out[i] = c
	}
	return out, nil
}
