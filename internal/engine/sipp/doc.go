// Package sipp implements engine.Executor on top of the SIPp traffic generator.
//
// Every call gets its own work directory holding the CSV injection file
// (destination, caller, domain and password), the rendered call-flow XML and
// SIPp's message and error traces. SIPp runs once per call with a deadline of
// call.timeout_s plus a buffer. The final SIP code is read back from the
// message trace and the process exit status is turned into a short reason.
//
// Call flows are text/template documents with the sprig function set. The
// built-in flow sends INVITE, answers a 401/407 challenge when credentials are
// available, acknowledges a 200, holds the call and hangs up with BYE.
package sipp
