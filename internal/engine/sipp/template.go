package sipp

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"voiptest/internal/scenario"
)

//go:embed flows/uac_basic.xml
var builtinFlow string

// flowData is what a call-flow template can reference.
type flowData struct {
	// Name of the scenario being run
	Name string
	// HoldMs is how long an answered call is held before BYE
	HoldMs int64
	// TimeoutS is the call setup timeout
	TimeoutS int
	// Transport is udp, tcp or tls
	Transport string
	// Domain used in request URIs
	Domain string
	// Destination and Caller are the resolved user parts
	Destination string
	Caller      string
	// DisplayName of the calling account, may be empty
	DisplayName string
	// Auth is set when digest credentials were passed to SIPp
	Auth bool
	// Version of the harness, rendered into User-Agent
	Version string
}

func newFlowData(opts Options, sc scenario.Scenario) flowData {
	hold := opts.HoldDuration.Milliseconds()
	if limit := int64(sc.Call.MaxDurationS) * 1000; limit > 0 && hold > limit {
		hold = limit
	}
	_, _, auth := sc.Credentials()
	caller, _ := sc.Caller()
	return flowData{
		Name:        sc.Name,
		HoldMs:      hold,
		TimeoutS:    sc.Call.TimeoutS,
		Transport:   sc.Target.Transport,
		Domain:      sc.Domain(),
		Destination: sc.Destination(),
		Caller:      sc.CallerUser(),
		DisplayName: caller.DisplayName,
		Auth:        auth,
		Version:     opts.Version,
	}
}

func newFuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()

	extra := map[string]any{
		"xml": func(s string) (string, error) {
			var buf bytes.Buffer
			if err := xml.EscapeText(&buf, []byte(s)); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
		"sipTransport": func(t string) string {
			if t == scenario.TransportTLS {
				return "TLS"
			}
			return strings.ToUpper(t)
		},
		"sipHeader": sipHeaderValue,
	}

	for name, fn := range extra {
		fm[name] = fn
	}

	return fm
}

// sipHeaderValue makes s safe to place in a header of a sent message.
// Sent messages land in the message trace that ExtractFinalCode scans, so
// the value must not form a status line, break the line or close CDATA.
// Brackets are swapped because SIPp substitutes [keyword] in messages.
func sipHeaderValue(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return ' '
		case r == '[':
			return '('
		case r == ']':
			return ')'
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "SIP/2.0", "SIP-2.0")
}

// renderFlow renders the call-flow template at src, or the built-in flow
// when src is empty, into dst.
func renderFlow(src, dst string, data flowData) error {
	text := builtinFlow
	name := "uac_basic.xml"
	if src != "" {
		raw, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read call flow: %w", err)
		}
		text = string(raw)
		name = src
	}

	tmpl, err := template.New(name).Funcs(newFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse call flow %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render call flow %s: %w", name, err)
	}
	return os.WriteFile(dst, buf.Bytes(), 0600)
}
