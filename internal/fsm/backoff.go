package fsm

// DefaultMaxBackoffMillis caps the quadratic part of DefaultBackoff.
const DefaultMaxBackoffMillis = 30000

// jitterMillis is the largest jitter CalcBackoff adds on top of the capped delay.
const jitterMillis = 2000

// CalcBackoff returns the delay in milliseconds before reconnect attempt number attempt.
// Attempt 0 means no delay. Otherwise the delay grows as attempt² seconds, is capped at
// maxMillis and then jittered by up to 2s, so the result may exceed maxMillis.
func CalcBackoff(attempt int, randSeed, maxMillis float64) float64 {
	if attempt == 0 {
		return 0
	}
	base := float64(attempt) * float64(attempt) * 1000
	return min(maxMillis, base) + jitterMillis*randSeed
}

// DefaultBackoff is CalcBackoff with a 30s cap.
func DefaultBackoff(attempt int, randSeed float64) float64 {
	return CalcBackoff(attempt, randSeed, DefaultMaxBackoffMillis)
}
