package signal

// LocalMaxima returns the indices of samples strictly greater than both
// neighbours. The first and last samples are never maxima, and neither is
// any sample on a plateau.
func LocalMaxima(x []float64) []int {
	var peaks []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] > x[i-1] && x[i] > x[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
