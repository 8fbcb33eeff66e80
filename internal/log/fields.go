package log

import (
	"sort"
	"time"
)

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldSessionID  = "session_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSource     = "source"
	FieldFileName   = "file_name"
	FieldFileSize   = "file_bytes"
	FieldSheet      = "sheet"
	FieldRecords    = "records"
	FieldRejected   = "rejected"
	FieldPolicy     = "policy"
	FieldGeneration = "generation"
	FieldCategories = "categories"
	FieldTotal      = "total"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLoader    = "loader"
	ComponentReport    = "report"
	ComponentWorkspace = "workspace"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentTemplate  = "template"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpDemo     = "demo"
	OpCommit   = "commit"
	OpReport   = "report"
	OpParse    = "parse"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithFile adds the uploaded file name and size
func (f LogFields) WithFile(name string, size int) LogFields {
	f[FieldFileName] = name
	f[FieldFileSize] = size
	return f
}

// WithLoad adds the outcome of a record set load
func (f LogFields) WithLoad(source string, records, rejected int, policy string) LogFields {
	f[FieldSource] = source
	f[FieldRecords] = records
	f[FieldRejected] = rejected
	f[FieldPolicy] = policy
	return f
}

// WithGeneration adds the workspace generation
func (f LogFields) WithGeneration(gen uint64) LogFields {
	f[FieldGeneration] = gen
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, d time.Duration) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = d.Milliseconds()
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog, with keys in sorted order
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
