package engine

const (
	// MinNumber and MaxNumber bound every submitted number.
	MinNumber = 1
	MaxNumber = 1000

	// MaxDiff is the largest circular distance between two numbers.
	MaxDiff = 500

	numberSpan = 1000
)

// Diff returns the circular distance between two numbers in [1,1000].
// Opposite ends of the range are close: Diff(1, 1000) == 1.
func Diff(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > MaxDiff {
		return numberSpan - d
	}
	return d
}

// InRange reports whether n is a legal submission.
func InRange(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}
