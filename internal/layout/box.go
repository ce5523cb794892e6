package layout

// Box is an axis-aligned rectangle in page coordinates with the origin at
// the bottom-left corner of the page; Y is the bottom edge.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top is the y coordinate of the upper edge
func (b Box) Top() float64 { return b.Y + b.Height }

// ImageBox returns the image box of a card whose top-left corner is at (x, top)
func (c *Card) ImageBox(x, top float64) Box {
	return Box{X: x, Y: top - c.ImageHeight, Width: c.Width, Height: c.ImageHeight}
}

// TableBox returns the table box of a card whose top-left corner is at
// (x, top). The second result is false when the card has no table.
func (c *Card) TableBox(x, top float64) (Box, bool) {
	if c.Table == nil {
		return Box{}, false
	}
	return Box{
		X:      x,
		Y:      top - c.TableOffset - c.Table.Height,
		Width:  c.Table.Width(),
		Height: c.Table.Height,
	}, true
}
