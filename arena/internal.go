package arena

import "github.com/sbl8/tensorgraph/memalign"

// minAlignment is the floor applied to every arena's base alignment.
const minAlignment = memalign.PointerSize

// isPowerOfTwo is a local alias kept for the package's white-box tests;
// the real implementation lives in memalign.
func isPowerOfTwo(v uintptr) bool { return memalign.IsPowerOfTwo(v) }
