// Package mcpsrv embeds the Falcon Sandbox MCP server in another program.
//
// NewServer takes a ready *client.Client, so the caller controls the HTTP
// client (timeouts, proxies, the instrumented transport from
// internal/metrics). Everything else comes from the environment unless an
// option overrides it:
//
//	c := client.New(os.Getenv("FALCON_API_KEY"))
//	srv, err := mcpsrv.NewServer(c, mcpsrv.WithLogLevel("debug"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	_ = srv.Run(ctx)
//
// Custom tools registered with WithDepsTool receive the same lookup engine,
// result cache and indicator index as the builtin falcon_* tools, so a lookup
// made by one is a cache hit for the other. Output types follow the rules
// checked by AddTool.
package mcpsrv
