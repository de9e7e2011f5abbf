// Package config provides configuration management for voiptest.
//
// Configuration is loaded from several YAML sources and merged in order, later
// sources overriding earlier ones:
//
//  1. Default configuration (compiled in)
//  2. User configuration (~/.config/voiptest/config.yaml)
//  3. Project configuration (./.voiptest/config.yaml)
//  4. An explicit file passed with --config
//
// Command-line flags are applied on top by the cmd package.
//
// # Configuration Structure
//
//	sipp:
//	  binary: "sipp"              # executable name or absolute path
//	  localIP: "127.0.0.1"        # local bind address of the test client
//	  localPort: 5070             # local bind port
//	  scenarioFile: ""            # call-flow template, empty = built-in UAC flow
//	  timeoutBuffer: "10s"        # added to call.timeout_s to bound the process
//	  holdDuration: "1s"          # hold time of an answered call
//	  workDir: ""                 # parent directory of per-call work dirs
//	  keepArtifacts: false        # keep work dirs (traces, injection file)
//
//	report:
//	  outputDir: "reports"
//	  junit: true
//	  json: false
//	  metrics: false
//
//	logging:
//	  level: "warn"
//
//	update:
//	  repository: "owner/voiptest"
//
// Zero values never override a lower layer, so booleans can only be switched
// on by an upper layer.
package config
