/*
Package validation holds the pure checks applied to user supplied data before
it becomes part of a transition table or reaches the engine.

Every function returns a typed error (*ValidationError, possibly wrapped in an
*AggregateError) rather than printing or prompting, so interactive, file and
network front-ends can share the same rules.
*/
package validation
