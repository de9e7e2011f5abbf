// Package scenario defines the declarative call test document and everything
// needed to turn a file on disk into runnable scenarios.
//
// A document looks like this:
//
//	version: 1
//	name: "Basic call"
//	target:
//	  host: "pbx.example.com"
//	  port: 5060
//	  transport: "udp"
//	accounts:
//	  caller:
//	    username: "1001"
//	    password: "${CALLER_PASSWORD}"
//	  callee:
//	    username: "1002"
//	call:
//	  from: "caller"
//	  to: "callee"
//	  timeout_s: 30
//	  max_duration_s: 60
//	expect:
//	  outcome: "answered"
//	  final_sip_code: 200
//	matrix:
//	  to: ["1002", "1003"]
//
// Loading happens in three passes. String values have ${VAR} and
// ${VAR:-default} references substituted from the environment, the raw tree
// is checked against an embedded JSON schema, and the typed Scenario is
// checked with struct tags plus cross-field rules. All problems of a document
// are reported together in a *ValidationError.
//
// Expand fans a matrix scenario out into one scenario per destination and
// Discover finds scenario files in a directory.
package scenario
