package visualizer

// Options configures the visualization output.
type Options struct {
	// ShowHandlers adds a note listing the events each state handles
	ShowHandlers bool

	// ShowEvents labels edges with their event names
	ShowEvents bool

	// Direction controls diagram flow: "TB" (top-bottom) or "LR" (left-right)
	Direction string

	// HighlightCurrent styles the topology's current state
	HighlightCurrent bool

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowHandlers:     true,
		ShowEvents:       true,
		Direction:        "TB",
		HighlightCurrent: true,
	}
}

// WithShowHandlers enables/disables handler notes.
func (o Options) WithShowHandlers(show bool) Options {
	o.ShowHandlers = show

	return o
}

// WithShowEvents enables/disables edge labels.
func (o Options) WithShowEvents(show bool) Options {
	o.ShowEvents = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightCurrent enables/disables current state styling.
func (o Options) WithHighlightCurrent(highlight bool) Options {
	o.HighlightCurrent = highlight

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}
