// Package interval provides the discrete point domain and closed-interval
// types shared by the rest of this module.
//
// Go generics carry no associated constants, so the MIN/MAX/successor/
// predecessor operations a discrete point type needs are not attached to
// the type parameter itself. Instead callers supply a Domain value once,
// at construction time, the same way a comparator is handed to an ordered
// container.
package interval

// Domain describes a discrete, totally ordered, finite point type T.
//
// Compare must return a negative number, zero, or a positive number as a
// is less than, equal to, or greater than b. Succ and Pred must be inverse
// on the open range (Min(), Max()); Succ(Max()) and Pred(Min()) are never
// called by this module.
type Domain[T any] interface {
	Compare(a, b T) int
	Min() T
	Max() T
	Succ(p T) T
	Pred(p T) T
}

// Adjacent reports whether b is the immediate successor of a, i.e. the two
// points touch with nothing in between.
func Adjacent[T any](dom Domain[T], a, b T) bool {
	return dom.Compare(dom.Succ(a), b) == 0
}

// Less reports whether a sorts strictly before b.
func Less[T any](dom Domain[T], a, b T) bool {
	return dom.Compare(a, b) < 0
}

// IntDomain is the Domain for the platform int type, bounded at
// [math.MinInt, math.MaxInt].
type IntDomain struct{}

func (IntDomain) Compare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func (IntDomain) Min() int    { return minInt }
func (IntDomain) Max() int    { return maxInt }
func (IntDomain) Succ(p int) int { return p + 1 }
func (IntDomain) Pred(p int) int { return p - 1 }

// Int32Domain is the Domain for int32, bounded at [math.MinInt32, math.MaxInt32].
type Int32Domain struct{}

func (Int32Domain) Compare(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func (Int32Domain) Min() int32      { return minInt32 }
func (Int32Domain) Max() int32      { return maxInt32 }
func (Int32Domain) Succ(p int32) int32 { return p + 1 }
func (Int32Domain) Pred(p int32) int32 { return p - 1 }

// Int64Domain is the Domain for int64, bounded at [math.MinInt64, math.MaxInt64].
type Int64Domain struct{}

func (Int64Domain) Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func (Int64Domain) Min() int64      { return minInt64 }
func (Int64Domain) Max() int64      { return maxInt64 }
func (Int64Domain) Succ(p int64) int64 { return p + 1 }
func (Int64Domain) Pred(p int64) int64 { return p - 1 }

const (
	maxInt   = int(^uint(0) >> 1)
	minInt   = -maxInt - 1
	maxInt32 = int32(1<<31 - 1)
	minInt32 = -maxInt32 - 1
	maxInt64 = int64(1<<63 - 1)
	minInt64 = -maxInt64 - 1
)
