package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrNotice    = "notice"
	AttrScope     = "scope"
	AttrOperation = "operation"
	AttrResult    = "result"
	AttrState     = "state"
	AttrOutcome   = "outcome"
	AttrTask      = "task"
)

// Transition results passed to RecordTransition.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)
