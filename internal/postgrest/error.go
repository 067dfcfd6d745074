package postgrest

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// CodeNotSingleRow is returned when a single object was requested and the
// query matched zero or several rows.
const CodeNotSingleRow = "PGRST116"

// Error is the error body returned by the REST API.
type Error struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details"`
	Hint    *string `json:"hint"`
	Status  int     `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

// Detail exposes the whole error body to response envelopes.
func (e *Error) Detail() any {
	return e
}

func (e *Error) IsNotSingleRow() bool {
	return e.Code == CodeNotSingleRow
}

func parseError(status int, body []byte) *Error {
	apiErr := &Error{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Code = strconv.Itoa(status)
		apiErr.Message = http.StatusText(status)
		if len(body) > 0 {
			raw := string(body)
			apiErr.Details = &raw
		}
	}
	apiErr.Status = status
	return apiErr
}
