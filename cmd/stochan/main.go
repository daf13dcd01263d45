// Command stochan runs stationary stochastic-process analyses described by a
// session file: sample synthesis from a closed-form spectrum, sample
// statistics, covariance/spectrum transforms and spectral moments.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
