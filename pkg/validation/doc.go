// Package validation implements the gate a wizard step must pass before the
// wizard advances. Two strategies exist: the builtin strategy defers to the
// rendering layer's native constraint check through a Checker, the custom
// strategy evaluates the step's ordered rules against its current value and
// stops at the first failure.
//
// Validate never panics and never returns an error: failures are reported as
// a Result carrying the failing rule and its message.
package validation
