package sipp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFinalCode(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		want  *int
	}{
		{
			name:  "empty trace",
			trace: "",
			want:  nil,
		},
		{
			name:  "only provisional responses",
			trace: "SIP/2.0 100 Trying\nSIP/2.0 180 Ringing\nSIP/2.0 183 Session Progress\n",
			want:  nil,
		},
		{
			name:  "answered",
			trace: "INVITE sip:1002@pbx SIP/2.0\nVia: SIP/2.0/UDP 127.0.0.1:5070\nSIP/2.0 100 Trying\nSIP/2.0 200 OK\n",
			want:  intPtr(200),
		},
		{
			name:  "last final wins",
			trace: "SIP/2.0 200 OK\nSIP/2.0 180 Ringing\nSIP/2.0 503 Service Unavailable\n",
			want:  intPtr(503),
		},
		{
			name:  "provisional after final is ignored",
			trace: "SIP/2.0 486 Busy Here\nSIP/2.0 100 Trying\n",
			want:  intPtr(486),
		},
		{
			name:  "status at end of line",
			trace: "SIP/2.0 404\r\n",
			want:  intPtr(404),
		},
		{
			name:  "request lines and via headers do not match",
			trace: "BYE sip:1002@pbx SIP/2.0\nVia: SIP/2.0/TCP 10.0.0.1:5070;branch=z9hG4bK\n",
			want:  nil,
		},
		{
			name:  "four digit codes do not match",
			trace: "SIP/2.0 2000 Nope\n",
			want:  nil,
		},
		{
			name:  "indented trace lines",
			trace: "----------------------------------------------- 2024-01-01\n  SIP/2.0 401 Unauthorized\n  SIP/2.0 200 OK\n",
			want:  intPtr(200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFinalCode(tt.trace))
		})
	}
}

func intPtr(v int) *int { return &v }
