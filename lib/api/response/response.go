package response

import "reunion/lib/clock"

type Response struct {
	Data          interface{}       `json:"data,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	Success       bool              `json:"success"`
	StatusMessage string            `json:"status_message"`
	Timestamp     string            `json:"timestamp"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:          data,
		Success:       true,
		StatusMessage: "Success",
		Timestamp:     clock.Now(),
	}
}

func Error(message string) Response {
	return Response{
		Success:       false,
		StatusMessage: message,
		Timestamp:     clock.Now(),
	}
}

// Invalid reports a rejected form: one message per failing field, so the
// client can display every error at once.
func Invalid(fields map[string]string) Response {
	return Response{
		Errors:        fields,
		Success:       false,
		StatusMessage: "Validation failed",
		Timestamp:     clock.Now(),
	}
}
