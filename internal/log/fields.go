package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldExpenseID    = "expense_id"
	FieldAmount       = "amount"
	FieldCategory     = "category"
	FieldPerson       = "person"
	FieldCard         = "card"
	FieldInstallments = "installments"
	FieldMonth        = "month"
	FieldAsOf         = "as_of"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentExpense  = "expense"
	ComponentCalendar = "calendar"
	ComponentStorage  = "storage"
	ComponentSheets   = "sheets"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentExport   = "export"
	ComponentBackend  = "backend"
)

// Standard operation names.
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpReconcile = "reconcile"
	OpAggregate = "aggregate"
	OpSync      = "sync"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
