package lights

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// ChooseOneLight selects one emitter uniformly with the 1D sample u and
// returns it with its selection probability
func ChooseOneLight(emitters []core.Emitter, u float64) (core.Emitter, float64) {
	n := len(emitters)
	if n == 0 {
		return nil, 0
	}
	index := min(int(u*float64(n)), n-1)
	return emitters[index], 1 / float64(n)
}
