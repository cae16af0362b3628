package minibmg

import "errors"

// ErrMissingVariable is returned by Eval when the graph reads a variable
// the request does not supply.
var ErrMissingVariable = errors.New("missing variable")
