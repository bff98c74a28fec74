//go:build tinygo && temperature

package main

import "github.com/itohio/gotelem/pkg/convert"

func strategy() convert.Strategy {
	return convert.Temperature{Reference: ADC_REFERENCE_MV / 1000.0}
}
