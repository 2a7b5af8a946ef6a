// Package trace is the structured event log of the compiler.
//
// Events are spans (begin/end pairs) or points, tagged with a Scope that
// says how coarse they are: the whole session, one unit, or one step inside
// a unit (a definition, an override declaration, a super resolution). The
// configured Level decides which scopes reach the sink.
//
// A Tracer travels in context.Context (WithTracer / FromContext); code that
// receives no tracer gets Nop and pays nothing.
package trace
