// Package report assembles the ordered, formatted metric report served to
// clients.
package report

import (
	"fmt"
	"math"

	"github.com/aristath/traderlens/internal/modules/metrics"
)

// InfinityGlyph is the rendering of undefined and infinite metric values.
// The safe-divide policy funnels every degenerate denominator here, so the
// report shows an explicit glyph instead of "NaN" or an error cell.
const InfinityGlyph = "∞"

// FormatValue renders a metric value according to its catalogue kind.
// NaN and +Inf render as the infinity glyph; -Inf keeps its sign.
func FormatValue(v float64, kind metrics.Kind) string {
	if math.IsNaN(v) || math.IsInf(v, 1) {
		return InfinityGlyph
	}
	if math.IsInf(v, -1) {
		return "-" + InfinityGlyph
	}

	switch kind {
	case metrics.KindCount:
		return fmt.Sprintf("%d", int64(v))
	case metrics.KindCurrency:
		return fmt.Sprintf("$%.2f", v)
	case metrics.KindPercent:
		return fmt.Sprintf("%.2f%%", v*100)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
