package cart

// Overlay tracks whether the cart overlay is shown and closes it
// automatically when a cart that had items while open becomes empty.
// The zero value is closed.
type Overlay struct {
	open     bool
	tracking bool
	tracked  int
}

// IsOpen reports whether the overlay is shown.
func (o *Overlay) IsOpen() bool { return o.open }

// Open shows the overlay.
func (o *Overlay) Open() { o.open = true }

// Close hides the overlay and forgets the observed item count.
func (o *Overlay) Close() {
	o.open = false
	o.reset()
}

// Toggle flips the overlay.
func (o *Overlay) Toggle() {
	if o.open {
		o.Close()
		return
	}
	o.Open()
}

// Observe feeds the current number of line items. The count seen when the
// overlay is first observed open is remembered; if it was positive and the
// cart is now empty, the overlay closes.
func (o *Overlay) Observe(count int) {
	if !o.open {
		o.reset()
		return
	}
	if !o.tracking {
		o.tracking = true
		o.tracked = count
	}
	if o.tracked > 0 && count == 0 {
		o.Close()
	}
}

func (o *Overlay) reset() {
	o.tracking = false
	o.tracked = 0
}
