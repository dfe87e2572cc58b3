// Package client provides a Go SDK for the Falcon Sandbox (reverse.it) hash search API.
//
// Falcon Sandbox runs submitted samples in instrumented environments and keeps
// one report per job. The search/hash endpoint returns every report whose
// sample matches an MD5, SHA1 or SHA256 digest.
//
// # Quick Start
//
// Create a client with an API key and search a hash:
//
//	c := client.New(os.Getenv("FALCON_API_KEY"))
//	reports, err := c.SearchHash(ctx, "7e7af056f88c60c3b55adebe54b73370703a5533c5d0982a8752ef94327c6acd")
//
// Use custom configuration:
//
//	c := client.New(key,
//	    client.WithBaseURL("https://sandbox.example.com/api/v2"),
//	    client.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
//	)
//
// # Optional Fields
//
// The service omits many keys. Optional scalars are pointers and optional
// collections are slices that stay nil when the key is absent:
//
//	if r.VXFamily != nil {
//	    fmt.Println("family:", *r.VXFamily)
//	}
//	if r.Processes == nil {
//	    // no process list in this report
//	}
//
// # Errors
//
// SearchHash returns one of three error types, wrapped with the hash:
//
//	var apiErr *client.APIError       // non-2xx status
//	var decErr *client.DecodeError    // body is not a valid report array
//	var tErr *client.TransportError   // request could not be sent or read
//
// Use errors.Is(err, client.ErrUnauthorized) to detect a rejected API key.
//
// The client never retries. Cancellation and deadlines come from the context
// and the configured *http.Client.
package client
