package ipx

import "github.com/r9s-ai/ipx/pkg/sanitize"

// Response is the shaped record the HTTP facade writes out. Body is either
// a string (for error/diagnostic bodies) or a byte buffer (for image
// bodies); exactly one of StringBody/BytesBody is meaningful, selected by
// IsBytes.
type Response struct {
	StatusCode    int
	StatusMessage string
	Headers       map[string]string
	StringBody    string
	BytesBody     []byte
	IsBytes       bool
}

// Shape runs the safety pass over a response before emission: defaults the
// status, stringify-strips the status message and header values, and runs
// string bodies through the HTML sanitizer after stringify-stripping them.
// Byte bodies pass through unchanged.
func Shape(r Response) Response {
	out := r
	if out.StatusCode == 0 {
		out.StatusCode = 200
	}

	msg := sanitize.StringifyStrip(out.StatusMessage)
	if msg == "" {
		msg = "OK"
	}
	out.StatusMessage = msg

	if out.Headers != nil {
		headers := make(map[string]string, len(out.Headers))
		for k, v := range out.Headers {
			headers[k] = sanitize.StringifyStrip(v)
		}
		out.Headers = headers
	}

	if out.IsBytes {
		out.StringBody = ""
	} else {
		out.StringBody = sanitize.HTML(sanitize.StringifyStrip(out.StringBody))
	}
	return out
}

// ErrorResponse builds the shaped failure response for err, per §4.7/§4.8:
// known statuses get the "IPX: <msg>" prefix, unknown ones map to 500.
func ErrorResponse(err error) Response {
	ierr := AsIPXError(err)
	msg := "IPX Error (500)"
	switch {
	case ierr.Upstream:
		msg = ierr.StatusMessage
	case ierr.Known:
		msg = "IPX: " + ierr.StatusMessage
	}
	return Shape(Response{
		StatusCode:    ierr.StatusCode,
		StatusMessage: msg,
		StringBody:    "IPX Error: " + ierr.Error(),
	})
}
