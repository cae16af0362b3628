// Package number defines the numeric abstraction the evaluator is written
// against. The same dispatch code runs over plain doubles (Real) and over
// symbolic traces that build a new node graph (Traced); a dual-number type
// for gradients only has to implement Number to plug in.
package number

// Number is satisfied by a numeric domain N closed under the operations a
// model graph can express.
type Number[N any] interface {
	Add(N) N
	Sub(N) N
	Mul(N) N
	Div(N) N
	Neg() N
	Pow(N) N
	Exp() N
	Log() N
	Atan() N
	Lgamma() N
	// Polygamma returns the n-th derivative of the digamma function at the
	// receiver.
	Polygamma(n int) N
	Log1p() N

	// IfEqual returns c if the receiver equals b and d otherwise.
	IfEqual(b, c, d N) N
	// IfLess returns c if the receiver is less than b and d otherwise.
	IfLess(b, c, d N) N

	// AsDouble extracts a plain value. It is only used for integer-valued
	// control parameters such as the order of polygamma.
	AsDouble() float64

	// Const lifts a literal into the domain. It must not depend on the
	// receiver, so the zero value of N can be used to call it.
	Const(v float64) N
}

// Of lifts v into the numeric domain N.
func Of[N Number[N]](v float64) N {
	var zero N
	return zero.Const(v)
}
