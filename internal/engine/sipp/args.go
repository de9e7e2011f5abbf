package sipp

import (
	"net"
	"strconv"

	"voiptest/internal/scenario"
)

// transportFlags maps target.transport to SIPp's -t mode. UDP is SIPp's
// default and needs no flag.
var transportFlags = map[string]string{
	scenario.TransportTCP: "t1",
	scenario.TransportTLS: "l1",
}

// buildArgs returns the SIPp command line for one call.
func buildArgs(opts Options, sc scenario.Scenario, files workFiles) []string {
	args := []string{
		sc.Target.Host,
		"-i", opts.LocalIP,
		"-p", strconv.Itoa(opts.LocalPort),
		"-sf", files.flow,
		"-inf", files.inject,
		"-m", "1",
		"-l", "1",
		"-r", "1",
		"-timeout", strconv.Itoa(sc.Call.TimeoutS),
		"-timeout_error",
		"-trace_msg",
		"-trace_err",
		"-nd",
	}

	if mode, ok := transportFlags[sc.Target.Transport]; ok {
		args = append(args, "-t", mode)
	}

	args = append(args, "-rsa", net.JoinHostPort(sc.Target.Host, strconv.Itoa(sc.Target.Port)))

	if user, pass, ok := sc.Credentials(); ok {
		args = append(args, "-au", user, "-ap", pass)
	}

	args = append(args,
		"-message_file", files.messages,
		"-error_file", files.errors,
	)
	return args
}
