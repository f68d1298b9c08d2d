package thermo

import "github.com/san-kum/ljmd/internal/dynamo"

// Berendsen applies the weak-coupling update p += p*Gamma*(T/T0 - 1) to every
// momentum component, given the current temperature. At T == T0 the momenta
// are unchanged. The driving loop decides how often to call it.
func Berendsen(km dynamo.Momenta, temperature float64, params dynamo.Params) {
	factor := params.Gamma * (temperature/params.T0 - 1)
	for i := range km {
		km[i].X += km[i].X * factor
		km[i].Y += km[i].Y * factor
		km[i].Z += km[i].Z * factor
	}
}
