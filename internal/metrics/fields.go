package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrOperation = "operation"
	AttrOutcome   = "outcome"
)

// Match operations recorded by the service.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpEnd    = "end"
)
