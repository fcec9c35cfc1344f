package responses

// RequestIDHeader carries the id minted by the request id middleware; error
// bodies echo it so a cashier can quote it when reporting a failed sale.
const RequestIDHeader = "X-Request-Id"

// Envelope wraps every successful JSON body.
type Envelope struct {
	Data any `json:"data"`
}

// ErrorBody is the public part of a failed request.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}
