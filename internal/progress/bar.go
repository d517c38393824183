// Package progress renders a single-line ASCII progress bar, grounded on
// the evaluation harness's ProgressBar class: a fixed-width bracket of
// complete/incomplete characters with a percentage and tick count,
// repeatedly overwritten in place via a carriage return.
package progress

import (
	"fmt"
	"io"
)

const (
	completeChar   = '='
	incompleteChar = ' '
)

// Bar tracks ticks against a known total and renders itself to an
// io.Writer. The zero value is not usable; construct with New.
type Bar struct {
	w          io.Writer
	ticks      uint
	totalTicks uint
	width      uint
}

// New returns a Bar that will render width characters wide, tracking
// progress toward total ticks.
func New(w io.Writer, total, width uint) *Bar {
	return &Bar{w: w, totalTicks: total, width: width}
}

// Tick advances the bar by one and returns the new tick count.
func (b *Bar) Tick() uint {
	b.ticks++
	return b.ticks
}

// Display renders the current state, overwriting the previous line.
func (b *Bar) Display() {
	var progress float32
	if b.totalTicks != 0 {
		progress = float32(b.ticks) / float32(b.totalTicks)
	}
	pos := uint(float32(b.width) * progress)

	fmt.Fprintf(b.w, "%d%%[", int(progress*100))
	for i := uint(0); i < b.width; i++ {
		switch {
		case i < pos:
			fmt.Fprintf(b.w, "%c", completeChar)
		case i == pos:
			fmt.Fprint(b.w, ">")
		default:
			fmt.Fprintf(b.w, "%c", incompleteChar)
		}
	}
	fmt.Fprintf(b.w, "] %d/%d\r", b.ticks, b.totalTicks)
}

// Done renders a final Display and moves to a fresh line.
func (b *Bar) Done() {
	b.Display()
	fmt.Fprintln(b.w)
}
