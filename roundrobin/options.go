package roundrobin

// SplitOption configures a [Split] call.
type SplitOption func(*splitOptions)

type splitOptions struct {
	flushLines bool
}

func newSplitOptions(opts ...SplitOption) splitOptions {
	var o splitOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLineFlush makes Split write every line out to its destination as soon
// as the line is complete, instead of coalescing lines into full blocks.
// Use it when the consumers of the destinations feed back into a reader of
// the same rotation, such as a [Merge] over the destinations' outputs.
func WithLineFlush() SplitOption {
	return func(o *splitOptions) {
		o.flushLines = true
	}
}
