package physics

import (
	"fmt"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// NumImages is the size of the first shell of periodic replicas, the origin
// cell included.
const NumImages = 27

// TranslationVectors returns the first n offsets of the 3x3x3 block of
// periodic replicas of a cubic box of side l. Index 9a+3b+c maps to
// ((a-1)l, (b-1)l, (c-1)l), so n = 27 yields the whole shell with the zero
// vector at index 13.
func TranslationVectors(n int, l float64) ([]dynamo.Vec3, error) {
	if n < 1 || n > NumImages {
		return nil, fmt.Errorf("%w: translation count must be in [1, %d], got %d", dynamo.ErrParameterBounds, NumImages, n)
	}

	tv := make([]dynamo.Vec3, n)
	for i := 0; i < n; i++ {
		tv[i] = dynamo.Vec3{
			X: float64(i/9-1) * l,
			Y: float64((i/3)%3-1) * l,
			Z: float64(i%3-1) * l,
		}
	}
	return tv, nil
}
