package object

// Text is a static label. X and Y are 1-based terminal positions.
type Text struct {
	X     int
	Y     int
	Value string
	Color string // ANSI color, empty for the terminal default
}

func (t Text) Draw(ctx DrawContext) error {
	writeText(ctx, t.X, t.Y, t.Value, t.Color)
	return nil
}

// Update is a no-op for static text.
func (t Text) Update(UpdateContext) (bool, error) {
	return false, nil
}
