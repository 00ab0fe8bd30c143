package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldUserID       = "user_id"
	FieldCategoryID   = "category_id"
	FieldAccountID    = "account_id"
	FieldCurrency     = "currency"
	FieldBaseCurrency = "base_currency"
	FieldPeriod       = "period"
	FieldMonth        = "month"
	FieldMonths       = "months"
	FieldAccounts     = "accounts"
	FieldAmount       = "amount"
	FieldRate         = "rate"
	FieldSuccess      = "success"
	FieldDuration     = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentEngine  = "engine"
	ComponentSummary = "summary"
	ComponentFX      = "fx"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpReconstruct = "reconstruct"
	OpCompose     = "compose"
	OpConvert     = "convert"
	OpIngest      = "ingest"
	OpRead        = "read"
	OpStartup     = "startup"
	OpShutdown    = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeConversion    = "conversion_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)
