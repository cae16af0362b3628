package graph

import "fmt"

// Operator is the kind tag of a Node. The set is closed: every switch over
// Operator in this module is expected to handle each value below.
type Operator int

const (
	OpInvalid Operator = iota

	// Scalar operators.
	OpConstant
	OpVariable
	OpSample
	OpAdd
	OpSubtract
	OpNegate
	OpMultiply
	OpDivide
	OpPow
	OpExp
	OpLog
	OpAtan
	OpLgamma
	OpPolygamma
	OpLog1p
	OpIfEqual
	OpIfLess

	// Distribution operators.
	OpNormal
	OpHalfNormal
	OpBeta
	OpBernoulli
	OpExponential

	opCount
)

var operatorNames = [...]string{
	OpInvalid:     "INVALID",
	OpConstant:    "CONSTANT",
	OpVariable:    "VARIABLE",
	OpSample:      "SAMPLE",
	OpAdd:         "ADD",
	OpSubtract:    "SUBTRACT",
	OpNegate:      "NEGATE",
	OpMultiply:    "MULTIPLY",
	OpDivide:      "DIVIDE",
	OpPow:         "POW",
	OpExp:         "EXP",
	OpLog:         "LOG",
	OpAtan:        "ATAN",
	OpLgamma:      "LGAMMA",
	OpPolygamma:   "POLYGAMMA",
	OpLog1p:       "LOG1P",
	OpIfEqual:     "IF_EQUAL",
	OpIfLess:      "IF_LESS",
	OpNormal:      "DISTRIBUTION_NORMAL",
	OpHalfNormal:  "DISTRIBUTION_HALF_NORMAL",
	OpBeta:        "DISTRIBUTION_BETA",
	OpBernoulli:   "DISTRIBUTION_BERNOULLI",
	OpExponential: "DISTRIBUTION_EXPONENTIAL",
}

var operatorArity = [...]int{
	OpConstant:    0,
	OpVariable:    0,
	OpSample:      1,
	OpAdd:         2,
	OpSubtract:    2,
	OpNegate:      1,
	OpMultiply:    2,
	OpDivide:      2,
	OpPow:         2,
	OpExp:         1,
	OpLog:         1,
	OpAtan:        1,
	OpLgamma:      1,
	OpPolygamma:   2,
	OpLog1p:       1,
	OpIfEqual:     4,
	OpIfLess:      4,
	OpNormal:      2,
	OpHalfNormal:  1,
	OpBeta:        2,
	OpBernoulli:   1,
	OpExponential: 1,
}

// MaxArity is the largest number of inputs any operator takes.
const MaxArity = 4

// String returns the wire name of the operator (e.g. "ADD").
func (o Operator) String() string {
	if o.Valid() || o == OpInvalid {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Valid reports whether o is one of the known operators.
func (o Operator) Valid() bool {
	return o > OpInvalid && o < opCount
}

// Arity returns the number of inputs the operator requires.
func (o Operator) Arity() int {
	if !o.Valid() {
		return -1
	}
	return operatorArity[o]
}

// IsDistribution reports whether the operator produces a distribution rather
// than a scalar.
func (o Operator) IsDistribution() bool {
	return o >= OpNormal && o <= OpExponential
}

// IsScalar reports whether the operator produces a scalar value.
func (o Operator) IsScalar() bool {
	return o >= OpConstant && o <= OpIfLess
}

// IsLeaf reports whether the operator takes no inputs.
func (o Operator) IsLeaf() bool {
	return o == OpConstant || o == OpVariable
}

// ParseOperator maps a wire name back to its Operator.
func ParseOperator(name string) (Operator, bool) {
	for op := OpConstant; op < opCount; op++ {
		if operatorNames[op] == name {
			return op, true
		}
	}
	return OpInvalid, false
}

// Operators returns every valid operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, 0, int(opCount)-1)
	for op := OpConstant; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}
