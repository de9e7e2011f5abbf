package config

import "time"

const (
	DefaultSIPpBinary    = "sipp"
	DefaultLocalIP       = "127.0.0.1"
	DefaultLocalPort     = 5070
	DefaultTimeoutBuffer = 10 * time.Second
	DefaultHoldDuration  = time.Second
)

// GetDefaultConfig returns the built-in configuration.
// Every other layer is merged on top of it.
func GetDefaultConfig() HarnessConfig {
	return HarnessConfig{
		SIPp: SIPpConfig{
			Binary:        DefaultSIPpBinary,
			LocalIP:       DefaultLocalIP,
			LocalPort:     DefaultLocalPort,
			TimeoutBuffer: DefaultTimeoutBuffer,
			HoldDuration:  DefaultHoldDuration,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}
