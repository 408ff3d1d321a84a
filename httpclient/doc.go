// Package httpclient provides a small HTTP client for talking to upstream
// services: base URL resolution, buffered multipart bodies, and typed errors
// that separate timeouts from connection failures.
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "http://localhost:9000"})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/asr",
//	    Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
//	        FieldName: "audio_file", FileName: "a.wav", Data: audio,
//	    }}},
//	})
//
// Requests are never retried.
package httpclient
