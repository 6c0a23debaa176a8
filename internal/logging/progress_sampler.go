package logging

// ProgressSampler paces periodic progress reports in a sequential loop: it
// fires once every N completed items and always on the final item.
type ProgressSampler struct {
	every int
	total int
	seen  int
}

// NewProgressSampler constructs a sampler that emits every `every` items
// (default 10) out of total.
func NewProgressSampler(every, total int) *ProgressSampler {
	if every <= 0 {
		every = 10
	}
	return &ProgressSampler{every: every, total: total}
}

// Tick records one completed item and reports whether a progress line is due.
func (s *ProgressSampler) Tick() bool {
	if s == nil {
		return true
	}
	s.seen++
	if s.seen%s.every == 0 {
		return true
	}
	return s.total > 0 && s.seen == s.total
}

// Seen returns how many items have been ticked.
func (s *ProgressSampler) Seen() int {
	if s == nil {
		return 0
	}
	return s.seen
}

// Reset clears the sampler state for a new run.
func (s *ProgressSampler) Reset(total int) {
	if s == nil {
		return
	}
	s.seen = 0
	s.total = total
}
