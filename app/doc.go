/*
Package app contains the host that executes messages against the
persistent state.

The host authenticates nothing itself: every call is delivered together
with the identity of its caller, which is placed in the context. Calls are
serialized and each one runs in a savepoint that is written and committed
only when the call succeeds, so a failed call never leaves a trace.
*/
package app
