package graphy

import "math"

// Tolerances for the Equal comparator. Readings vary continuously, so
// exact float equality would almost never hold.
const (
	equalAbsTol = 1e-9
	equalRelTol = 1e-6
)

// ReadFunc resolves a metric variable to its current reading.
type ReadFunc func(Variable) float64

// Condition is a single comparison of a live metric reading against a
// threshold. Immutable once constructed; evaluation is a pure function of
// the reading.
type Condition struct {
	Variable   Variable
	Comparator Comparator
	Threshold  float64
}

// Evaluate fetches the condition's variable through read and applies the
// comparator against the threshold.
func (c Condition) Evaluate(read ReadFunc) bool {
	return c.Comparator.Compare(read(c.Variable), c.Threshold)
}

// Compare applies the comparator to a reading and a threshold. Equality is
// tolerance-based to absorb floating-point error. Unknown comparators never
// match; ParseComparator rejects them at configuration time.
func (c Comparator) Compare(reading, threshold float64) bool {
	switch c {
	case Less:
		return reading < threshold
	case LessEqual:
		return reading <= threshold
	case Equal:
		return approxEqual(reading, threshold)
	case GreaterEqual:
		return reading >= threshold
	case Greater:
		return reading > threshold
	default:
		return false
	}
}

func approxEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= equalAbsTol {
		return true
	}
	return diff <= equalRelTol*math.Max(math.Abs(a), math.Abs(b))
}
