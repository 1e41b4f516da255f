package songdoc

import "math"

// Track volume is stored as a linear gain value: 1.0 corresponds to 0 dB
// (signal level of +-1), 0 is silence.

// DBToVolumeValue converts a decibel level to the stored gain value.
func DBToVolumeValue(dB float64) float64 {
	return math.Pow(10, dB/20)
}

// VolumeValueToDB converts a stored gain value back to decibels. Values at
// or below zero map to negative infinity.
func VolumeValueToDB(value float64) float64 {
	if value <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(value)
}
