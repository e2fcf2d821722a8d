package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a power-of-two length
// series via radix-2 Cooley-Tukey. Callers truncate with [FloorPow2].
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		for i, v := range data {
			out[i] = complex(v, 0)
		}
		return out
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	half := n / 2
	even := make([]float64, 0, half)
	odd := make([]float64, 0, half)
	for i := 0; i < n; i += 2 {
		even = append(even, data[i])
		odd = append(odd, data[i+1])
	}

	fe := FFT(even)
	fo := FFT(odd)

	out := make([]complex128, n)
	for k := 0; k < half; k++ {
		t := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n))) * fo[k]
		out[k] = fe[k] + t
		out[k+half] = fe[k] - t
	}

	return out
}

// PowerSpectrum returns the magnitude of the positive-frequency half of
// the transform. Broadband spectra signal chaos; sharp peaks signal
// periodic orbits.
func PowerSpectrum(data []float64) []float64 {
	spec := FFT(data)
	mag := make([]float64, len(spec)/2)
	for i := range mag {
		mag[i] = cmplx.Abs(spec[i])
	}
	return mag
}

// FloorPow2 returns the largest power of two not exceeding n, or 0.
func FloorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	if n < 1 {
		return 0
	}
	return p
}

// DominantFrequency returns the index of the strongest nonzero-frequency
// component of a power spectrum.
func DominantFrequency(spectrum []float64) int {
	best := 0
	for i := 1; i < len(spectrum); i++ {
		if best == 0 || spectrum[i] > spectrum[best] {
			best = i
		}
	}
	return best
}
