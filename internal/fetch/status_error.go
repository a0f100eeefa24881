package fetch

import (
	"fmt"
	"io"
	"net/http"
)

const (
	statusErrorMessageTemplateConstant            = "request failed with status %s"
	statusErrorWithPayloadMessageTemplateConstant = "request failed with status %s: %s"
	responsePayloadExcerptLimitConstant           = 1024
)

// StatusError describes an HTTP response that completed with a non-success
// status. Payload holds a bounded excerpt of the response body captured for
// diagnostics; the body itself is never parsed.
type StatusError struct {
	StatusCode int
	Message    string
	Header     http.Header
	Payload    string
}

// Error describes the failed response.
func (statusError StatusError) Error() string {
	if len(statusError.Payload) == 0 {
		return fmt.Sprintf(statusErrorMessageTemplateConstant, statusError.Message)
	}
	return fmt.Sprintf(statusErrorWithPayloadMessageTemplateConstant, statusError.Message, statusError.Payload)
}

// newStatusError captures the failing response's status, headers, and a body
// excerpt, then closes the body. Read failures are ignored; the excerpt is
// best-effort diagnostics only.
func newStatusError(response *http.Response) StatusError {
	payloadExcerpt := ""
	if response.Body != nil {
		excerptBytes, _ := io.ReadAll(io.LimitReader(response.Body, responsePayloadExcerptLimitConstant))
		_ = response.Body.Close()
		payloadExcerpt = string(excerptBytes)
	}

	return StatusError{
		StatusCode: response.StatusCode,
		Message:    response.Status,
		Header:     response.Header,
		Payload:    payloadExcerpt,
	}
}
