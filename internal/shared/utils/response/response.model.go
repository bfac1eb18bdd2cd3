package response

type StandardApiResponse struct {
	Success    bool        `json:"success"`            // true for 2xx responses
	StatusCode int         `json:"status_code"`        // HTTP status code
	Message    string      `json:"message"`            // Human-readable message
	TraceID    string      `json:"trace_id,omitempty"` // Correlation id from the trace middleware
	Data       interface{} `json:"data,omitempty"`     // Payload for success
	Errors     interface{} `json:"errors,omitempty"`   // Validation or error details
}
