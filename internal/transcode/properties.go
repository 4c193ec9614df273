package transcode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hxzbg/fguiexport/internal/model"
)

// rawProperty returns the state-qualified value of key, falling back to the
// bare key.
func rawProperty(n model.Node, key, state string) string {
	if state != "" {
		if v, ok := n.Attr(key + "." + state); ok && v != "" {
			return v
		}
	}
	v, _ := n.Attr(key)
	return v
}

// property reads key and applies percentage and intrinsic-size resolution.
// A percentage resolves against the parent's instance value of the same key;
// when the parent has none the literal is kept and numeric readers see its
// leading number.
func property(n model.Node, key, state string) string {
	v := rawProperty(n, key, state)
	if v == "" {
		if (key == "width" || key == "height") && n.Name() == "Image" {
			if iv, ok := n.Instance(key); ok && iv != 0 {
				return formatFloat(iv)
			}
		}
		return ""
	}

	if strings.HasSuffix(strings.TrimSpace(v), "%") {
		if parent := n.Parent(); parent != nil {
			if pv, ok := parent.Instance(key); ok && pv != 0 {
				if pct, ok := model.ParseNumber(v); ok {
					return formatFloat(pct * 0.01 * pv)
				}
			}
		}
	}
	return v
}

func propString(n model.Node, key, state string) string {
	return property(n, key, state)
}

// propInt truncates toward zero; unparseable values read as 0.
func propInt(n model.Node, key, state string) int {
	v, _ := model.ParseNumber(property(n, key, state))
	return int(v)
}

func propFloat(n model.Node, key, state string) float64 {
	v, _ := model.ParseNumber(property(n, key, state))
	return v
}

// propFloatOr returns def when the property is not declared.
func propFloatOr(n model.Node, key, state string, def float64) float64 {
	raw := property(n, key, state)
	if raw == "" {
		return def
	}
	v, _ := model.ParseNumber(raw)
	return v
}

func propBool(n model.Node, key, state string) bool {
	return strings.EqualFold(strings.TrimSpace(property(n, key, state)), "true")
}

// declared reports whether key has a value for state.
func declared(n model.Node, key, state string) bool {
	return rawProperty(n, key, state) != ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// intOrEmpty renders zero as an omitted attribute.
func intOrEmpty(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// parseColor accepts 0xRRGGBB, #RRGGBB and decimal forms.
func parseColor(raw string) (uint32, bool) {
	s := strings.TrimSpace(raw)
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v) & 0xffffff, true
}

// normalizeColor renders a source color as #rrggbb.
func normalizeColor(raw string) string {
	v, ok := parseColor(raw)
	if !ok {
		return ""
	}
	return fmt.Sprintf("#%06x", v)
}

// compositeColor renders #aarrggbb. The result is empty when the color is
// missing or the alpha byte rounds down to zero.
func compositeColor(raw string, alpha float64) string {
	v, ok := parseColor(raw)
	if !ok {
		return ""
	}
	a := math.Floor(alpha * 255)
	if a < 1 {
		return ""
	}
	if a > 255 {
		a = 255
	}
	return fmt.Sprintf("#%02x%06x", int(a), v)
}
