package signal

import (
	"fmt"

	"wearprep/domain/sensor"

	"gonum.org/v1/gonum/floats"
)

// Magnitude collapses the X, Y and Z columns into a single value column
// holding sqrt(X²+Y²+Z²). The axis columns are not kept.
func Magnitude(f Frame) (Frame, error) {
	x, okX := f.Column(sensor.ColX)
	y, okY := f.Column(sensor.ColY)
	z, okZ := f.Column(sensor.ColZ)
	if !okX || !okY || !okZ {
		return Frame{}, fmt.Errorf("magnitude needs %s, %s and %s columns, have %v",
			sensor.ColX, sensor.ColY, sensor.ColZ, f.Names())
	}

	mag := make([]float64, f.Len())
	axis := make([]float64, 3)
	for i := range mag {
		axis[0], axis[1], axis[2] = x[i], y[i], z[i]
		mag[i] = floats.Norm(axis, 2)
	}
	return NewFrame([]string{sensor.ColValue}, [][]float64{mag})
}
