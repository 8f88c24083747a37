//go:build !profile

package prof

// Session is an inert profiling session when built without the "profile" tag.
type Session struct{}

// Enabled reports whether profiling support is compiled in.
func Enabled() bool {
	return false
}

// Start is a no-op when built without the "profile" tag.
func Start(_, _ string) (*Session, error) {
	return &Session{}, nil
}

// Stop is a no-op when built without the "profile" tag.
func (s *Session) Stop() error {
	return nil
}
