// Package agent exposes voiptest as a set of MCP (Model Context Protocol)
// tools so an AI assistant can validate, list and run call scenarios.
//
// The server speaks MCP over stdio. Each tool call is answered with a text
// result holding indented JSON, or with an error result that the assistant
// can show to the user:
//
//	executor := sipp.New(sipp.Options{Binary: "sipp"})
//	server := agent.NewMCPServer(executor, version)
//	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// Runs are serialized: a second voiptest_run waits for the first to finish
// because every SIPp process binds the same local port.
package agent
