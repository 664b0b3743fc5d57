package dto

import "time"

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid input file"`
	ErrorDetails string    `json:"error,omitempty" example:"no data rows"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	e := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		e.ErrorDetails = err.Error()
	}
	return e
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
