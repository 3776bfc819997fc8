package transport

import "encoding/json"

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope wraps every API payload, success and error alike, so clients
// can branch on status before looking at the body.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: statusSuccess,
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope carrying the semantic code the
// domain layer classified the failure with.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: statusError,
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String renders the envelope as JSON for logging.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
