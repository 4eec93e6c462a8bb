package utils

// SampleDuration returns the playback time in seconds of samples
// per-channel samples at rateHz. Returns 0 when either value is not
// positive.
func SampleDuration(samples int64, rateHz int) float64 {
	if samples <= 0 || rateHz <= 0 {
		return 0
	}

	return float64(samples) / float64(rateHz)
}
