// Package expand implements the hygienic macro expander: the engine that
// turns reader syntax into a partial core graph while resolving identifiers
// through scope sets, running built-in special forms directly, and
// delegating user macros to an external evaluator.
//
// # State and entry points
//
// One call to ExpandExpression, ExpandDeclaration or ExpandModuleBody owns
// its State exclusively from start to finish; the engine is single-threaded
// and cooperative, and no locking happens inside it. The entry points drive
// the scheduler until the expansion is quiescent: StatusDone when the root
// is fully wired, StatusBlocked when every remaining task waits on a
// signal. A host holding the State may deliver signals with SendSignal and
// continue with Resume; a host that knows no further signals can arrive
// turns the blocked state into the fatal StuckExpansion error via StuckErr.
//
// # Scheduling
//
// Tasks run FIFO among ready tasks; a task becoming ready (freshly created
// or woken) goes to the back of the queue. One step identifies the head of
// the task's syntax, resolves it, and dispatches on the expander value:
// built-in forms fill the task's target (holes become child tasks), bound
// variables fill their reference fragment, and user macros go to the
// evaluator, which answers with a new syntax object or a suspension.
// Signal delivery is observable only at the next scheduler step.
//
// # Hygiene
//
// Before a user macro runs, a fresh scope is flipped over every node of its
// input; the same scope is flipped over whatever the macro eventually
// returns. Scopes introduced by the macro's output survive, scopes present
// in both input and output cancel. Binding forms (lambda, let-syntax)
// allocate fresh scopes and insert them on the identifiers they bind.
//
// # Failure
//
// Every failure is fatal to the current expansion unit and surfaces as an
// *Err; partially built graphs are discarded by the caller. There is no
// local retry.
package expand
