package scenario

// Outcome is the coarse result category of a call.
type Outcome string

const (
	// OutcomeAnswered means the call received a 2xx final response
	OutcomeAnswered Outcome = "answered"
	// OutcomeFailed means the call was rejected or the tool failed
	OutcomeFailed Outcome = "failed"
	// OutcomeBusy means the callee answered 486 Busy Here
	OutcomeBusy Outcome = "busy"
	// OutcomeNoAnswer means call setup timed out
	OutcomeNoAnswer Outcome = "no_answer"
)

// Outcomes lists every valid outcome literal in documentation order.
var Outcomes = []Outcome{OutcomeAnswered, OutcomeFailed, OutcomeBusy, OutcomeNoAnswer}

// Transport literals accepted in target.transport.
const (
	TransportUDP = "udp"
	TransportTCP = "tcp"
	TransportTLS = "tls"
)

const (
	// SchemaVersion is the only document version this harness understands
	SchemaVersion       = 1
	DefaultPort         = 5060
	DefaultTransport    = TransportUDP
	DefaultTimeoutS     = 30
	DefaultMaxDurationS = 60
)

// Scenario is one test case as declared in a YAML document. After matrix
// expansion each Scenario describes exactly one call.
type Scenario struct {
	// Version is the document schema version
	Version int `yaml:"version" json:"version" validate:"eq=1"`
	// Name identifies the scenario in reports; unique after expansion
	Name string `yaml:"name" json:"name" validate:"required"`
	// Target is the SIP endpoint under test
	Target Target `yaml:"target" json:"target"`
	// Accounts maps an account key to its credentials
	Accounts Accounts `yaml:"accounts" json:"accounts" validate:"required,min=1,dive"`
	// Call holds the call parameters
	Call Call `yaml:"call" json:"call"`
	// Expect is the expected outcome
	Expect Expect `yaml:"expect" json:"expect"`
	// Matrix fans the scenario out over several destinations
	Matrix *Matrix `yaml:"matrix,omitempty" json:"matrix,omitempty" validate:"omitempty"`
}

// Target is the remote SIP endpoint under test.
type Target struct {
	Host      string `yaml:"host" json:"host" validate:"required"`
	Port      int    `yaml:"port" json:"port" validate:"gte=1,lte=65535"`
	Transport string `yaml:"transport" json:"transport" validate:"oneof=udp tcp tls"`
	Domain    string `yaml:"domain,omitempty" json:"domain,omitempty"`
}

// Account is a SIP credential set.
type Account struct {
	Username    string `yaml:"username" json:"username" validate:"required"`
	Password    string `yaml:"password" json:"-"`
	DisplayName string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
}

// HasCredentials reports whether the account can be used for digest authentication.
func (a Account) HasCredentials() bool {
	return a.Username != "" && a.Password != ""
}

// Accounts maps account keys ("caller", "callee", ...) to credentials.
type Accounts map[string]Account

// Call holds the call parameters.
type Call struct {
	// From is the key of the calling account
	From string `yaml:"from" json:"from" validate:"required"`
	// To is an account key or a literal destination (extension or SIP URI)
	To           string `yaml:"to" json:"to" validate:"required"`
	TimeoutS     int    `yaml:"timeout_s" json:"timeout_s" validate:"gt=0"`
	MaxDurationS int    `yaml:"max_duration_s" json:"max_duration_s" validate:"gt=0"`
}

// Expect is the desired result of the call.
type Expect struct {
	Outcome       Outcome `yaml:"outcome" json:"outcome" validate:"required,oneof=answered failed busy no_answer"`
	FinalSIPCode  *int    `yaml:"final_sip_code,omitempty" json:"final_sip_code,omitempty" validate:"omitempty,gte=100,lte=699"`
	AnswerWithinS *int    `yaml:"answer_within_s,omitempty" json:"answer_within_s,omitempty" validate:"omitempty,gt=0"`
	MinDurationS  *int    `yaml:"min_duration_s,omitempty" json:"min_duration_s,omitempty" validate:"omitempty,gt=0"`
}

// Matrix lists the destinations a scenario is expanded over.
type Matrix struct {
	To []string `yaml:"to" json:"to" validate:"required,min=1,unique,dive,required"`
}

// Clone returns a deep copy so expanded scenarios never share mutable state.
func (s Scenario) Clone() Scenario {
	out := s
	if s.Accounts != nil {
		out.Accounts = make(Accounts, len(s.Accounts))
		for k, v := range s.Accounts {
			out.Accounts[k] = v
		}
	}
	out.Expect.FinalSIPCode = cloneInt(s.Expect.FinalSIPCode)
	out.Expect.AnswerWithinS = cloneInt(s.Expect.AnswerWithinS)
	out.Expect.MinDurationS = cloneInt(s.Expect.MinDurationS)
	if s.Matrix != nil {
		m := Matrix{To: append([]string(nil), s.Matrix.To...)}
		out.Matrix = &m
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// applyDefaults fills the optional fields the document left out.
func (s *Scenario) applyDefaults() {
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
	if s.Target.Port == 0 {
		s.Target.Port = DefaultPort
	}
	if s.Target.Transport == "" {
		s.Target.Transport = DefaultTransport
	}
	if s.Call.TimeoutS == 0 {
		s.Call.TimeoutS = DefaultTimeoutS
	}
	if s.Call.MaxDurationS == 0 {
		s.Call.MaxDurationS = DefaultMaxDurationS
	}
}
