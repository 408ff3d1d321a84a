package httpclient

import "time"

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the multipart request body, if any.
	Body *MultipartBody
	// Timeout bounds this request only. Zero leaves the client timeout in charge.
	Timeout time.Duration
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// ContentType returns the response Content-Type header, if any.
func (r *Response) ContentType() string {
	return r.Headers["Content-Type"]
}
