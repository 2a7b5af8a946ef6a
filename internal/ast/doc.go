// Package ast holds the syntax tree of one unit source file: the ordered
// statements of the unit and the expression terms used in clause heads,
// guards and bodies.
//
// Expressions are opaque to the override machinery except for Super nodes,
// which the unit compiler collects and resolves when the clause is recorded.
package ast
