package event

// Return is the control signal a handler or middleware answers with.
type Return uint8

const (
	// ReturnFinish stops propagation of the event. The default.
	ReturnFinish Return = iota
	// ReturnSkip moves on to the next handler as if this one had failed
	// its filters. In an outer middleware it discards that middleware's
	// request mutations and continues.
	ReturnSkip
	// ReturnCancel rejects the event for the current observer.
	ReturnCancel
)

func (r Return) String() string {
	switch r {
	case ReturnSkip:
		return "skip"
	case ReturnCancel:
		return "cancel"
	default:
		return "finish"
	}
}

// PropagateResult is the outcome of triggering an observer or propagating
// an event through a router.
type PropagateResult uint8

const (
	// PropagateResultUnhandled means no handler was selected.
	PropagateResultUnhandled PropagateResult = iota
	// PropagateResultHandled means a handler ran to completion.
	PropagateResultHandled
	// PropagateResultRejected means a common filter failed, an outer
	// middleware cancelled, or the selected handler cancelled.
	PropagateResultRejected
)

func (r PropagateResult) String() string {
	switch r {
	case PropagateResultHandled:
		return "handled"
	case PropagateResultRejected:
		return "rejected"
	default:
		return "unhandled"
	}
}

// Response is the outcome of one observer trigger or router propagation,
// together with the request as the outer middlewares left it.
type Response struct {
	Request Request
	Result  PropagateResult
	Return  Return
}
