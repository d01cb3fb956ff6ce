package logging

// ProgressSampler throttles progress output for counted work to one line per
// percentage step. The final count always passes.
type ProgressSampler struct {
	step int
	last int
}

// NewProgressSampler returns a sampler that lets through one update per step
// percent. Steps outside 1..100 fall back to 5.
func NewProgressSampler(step int) *ProgressSampler {
	if step <= 0 || step > 100 {
		step = 5
	}
	return &ProgressSampler{step: step, last: -1}
}

// Sample reports whether done out of total reached a step not seen before.
// A nil sampler passes everything.
func (s *ProgressSampler) Sample(done, total int) bool {
	if s == nil || total <= 0 {
		return true
	}
	done = min(max(done, 0), total)
	bucket := done * 100 / total / s.step
	if done == total {
		bucket = 100/s.step + 1
	}
	if bucket <= s.last {
		return false
	}
	s.last = bucket
	return true
}
