// Package counter formats the animated statistic counters.
package counter

import (
	"math"
	"strconv"
	"time"
)

// MobileWidth is the widest viewport that gets the short animation.
const MobileWidth = 768

const (
	mobileDuration  = 1000 * time.Millisecond
	desktopDuration = 2000 * time.Millisecond

	mobileBarDuration  = 1000 * time.Millisecond
	desktopBarDuration = 1500 * time.Millisecond
)

// Stat is one counter: the final value and the unit label shown next to it.
type Stat struct {
	Label  string
	Target float64
	Unit   string
}

// EaseOutQuart maps linear progress onto a decelerating curve.
func EaseOutQuart(t float64) float64 {
	t = clamp(t)
	return 1 - math.Pow(1-t, 4)
}

// Duration returns how long a counter animates on a viewport of the given width.
func Duration(width int) time.Duration {
	if width <= MobileWidth {
		return mobileDuration
	}
	return desktopDuration
}

// Progress converts elapsed time into [0,1] progress.
func Progress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return clamp(float64(elapsed) / float64(total))
}

// Frame is the value shown at progress.
func Frame(target, progress float64) float64 {
	return target * EaseOutQuart(progress)
}

// BarDuration returns how long a funding bar fills on a viewport of the given width.
func BarDuration(width int) time.Duration {
	if width <= MobileWidth {
		return mobileBarDuration
	}
	return desktopBarDuration
}

// ProgressWidth is the filled share of a funding bar, in percent, at linear
// progress. Bars do not ease.
func ProgressWidth(percentage, progress float64) float64 {
	return percentage * clamp(progress)
}

// Bar is one funding progress bar.
type Bar struct {
	Label      string
	Percentage float64
}

// Width is the bar's filled share after elapsed on a viewport of the given width.
func (b Bar) Width(elapsed time.Duration, viewport int) float64 {
	return ProgressWidth(b.Percentage, Progress(elapsed, BarDuration(viewport)))
}

// Format renders value according to the counter's unit.
func Format(unit string, target, value float64) string {
	switch unit {
	case "M", "months":
		return strconv.FormatFloat(value, 'f', 1, 64)
	case "$":
		if target == math.Trunc(target) {
			return strconv.FormatFloat(value, 'f', 0, 64)
		}
		return strconv.FormatFloat(value, 'f', 2, 64)
	case "%":
		return strconv.FormatFloat(math.Floor(value), 'f', 0, 64) + "%"
	default:
		return strconv.FormatFloat(math.Floor(value), 'f', 0, 64)
	}
}

// Render formats the stat at progress.
func (s Stat) Render(progress float64) string {
	return Format(s.Unit, s.Target, Frame(s.Target, progress))
}

func clamp(t float64) float64 {
	switch {
	case t < 0 || math.IsNaN(t):
		return 0
	case t > 1:
		return 1
	}
	return t
}
