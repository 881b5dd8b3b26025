package jobs

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// bar wraps an optional progress bar. The zero value does nothing.
type bar struct {
	b *mpb.Bar
}

// newBar adds a bar counting the id windows of table, bounded by the sample cap.
func (r *Router) newBar(table string, upper int64) bar {
	if r.Progress == nil || r.Limit <= 0 {
		return bar{}
	}

	windows := (upper + int64(r.Limit) - 1) / int64(r.Limit)
	if r.SampleCap > 0 {
		capped := (r.SampleCap + int64(r.Limit) - 1) / int64(r.Limit)
		windows = min(windows, capped)
	}

	return bar{b: r.Progress.AddBar(windows,
		mpb.PrependDecorators(
			decor.Name(table+": ", decor.WC{W: 24}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO),
			decor.Name(" | "),
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"),
		),
	)}
}

func (b bar) increment() {
	if b.b != nil {
		b.b.Increment()
	}
}

// finish completes the bar at its current count, so early stops do not hang Wait.
func (b bar) finish() {
	if b.b != nil {
		b.b.SetTotal(-1, true)
	}
}
