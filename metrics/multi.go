package metrics

// Multi fans a single Emit out to every wrapped Sink. A failing sink
// must already swallow its own errors (see Sink's contract); Multi adds
// no further error handling.
type Multi []Sink

func (m Multi) Emit(event, jobID, status string) {
	for _, s := range m {
		s.Emit(event, jobID, status)
	}
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
