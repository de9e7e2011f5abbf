package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleScenario() Scenario {
	return Scenario{
		Version: 1,
		Name:    "Basic call",
		Target:  Target{Host: "pbx.example.com", Port: 5060, Transport: "udp"},
		Accounts: Accounts{
			"caller": {Username: "1001", Password: "secret"},
			"callee": {Username: "1002"},
		},
		Call:   Call{From: "caller", To: "callee", TimeoutS: 30, MaxDurationS: 60},
		Expect: Expect{Outcome: OutcomeAnswered, FinalSIPCode: intPtr(200)},
	}
}

func TestDestination(t *testing.T) {
	tests := []struct {
		to   string
		want string
	}{
		{to: "callee", want: "1002"},
		{to: "2000", want: "2000"},
		{to: "sip:2000@pbx.example.com", want: "2000"},
		{to: "SIPS:3000@pbx.example.com", want: "3000"},
		{to: "4000@other.example.com", want: "4000"},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			s := sampleScenario()
			s.Call.To = tt.to
			assert.Equal(t, tt.want, s.Destination())
		})
	}
}

func TestDestination_AccountKeyWinsOverLiteral(t *testing.T) {
	s := sampleScenario()
	s.Accounts["2000"] = Account{Username: "7777"}
	s.Call.To = "2000"
	assert.Equal(t, "7777", s.Destination())
}

func TestCredentials(t *testing.T) {
	s := sampleScenario()
	user, pass, ok := s.Credentials()
	assert.True(t, ok)
	assert.Equal(t, "1001", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "1001", s.CallerUser())

	s.Call.From = "callee"
	_, _, ok = s.Credentials()
	assert.False(t, ok, "an account without password must not authenticate")
}

func TestDomain(t *testing.T) {
	s := sampleScenario()
	assert.Equal(t, "pbx.example.com", s.Domain())

	s.Target.Domain = "example.com"
	assert.Equal(t, "example.com", s.Domain())
}

func TestExpand_WithoutMatrix(t *testing.T) {
	s := sampleScenario()
	runs := Expand(s)
	require.Len(t, runs, 1)
	assert.Equal(t, s.Name, runs[0].Name)
	assert.Equal(t, "callee", runs[0].Call.To)
}

func TestExpand_Matrix(t *testing.T) {
	s := sampleScenario()
	s.Matrix = &Matrix{To: []string{"2000", "callee", "sip:3000@pbx"}}

	runs := Expand(s)
	require.Len(t, runs, 3)

	assert.Equal(t, "Basic call (to=2000)", runs[0].Name)
	assert.Equal(t, "2000", runs[0].Call.To)
	assert.Equal(t, "Basic call (to=callee)", runs[1].Name)
	assert.Equal(t, "1002", runs[1].Destination())
	assert.Equal(t, "Basic call (to=sip:3000@pbx)", runs[2].Name)

	names := map[string]bool{}
	for _, r := range runs {
		assert.Nil(t, r.Matrix)
		names[r.Name] = true
	}
	assert.Len(t, names, 3)
}

func TestExpand_CopiesAreIndependent(t *testing.T) {
	s := sampleScenario()
	s.Matrix = &Matrix{To: []string{"2000", "2001"}}

	runs := Expand(s)
	require.Len(t, runs, 2)

	*runs[0].Expect.FinalSIPCode = 486
	runs[0].Accounts["caller"] = Account{Username: "changed"}

	assert.Equal(t, 200, *runs[1].Expect.FinalSIPCode)
	assert.Equal(t, "1001", runs[1].Accounts["caller"].Username)
	assert.Equal(t, 200, *s.Expect.FinalSIPCode)
	assert.Equal(t, "1001", s.Accounts["caller"].Username)
}

func TestLint(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
		want   []string
	}{
		{
			name:   "consistent",
			mutate: func(*Scenario) {},
			want:   nil,
		},
		{
			name: "answered with rejection code",
			mutate: func(s *Scenario) {
				s.Expect.FinalSIPCode = intPtr(404)
			},
			want: []string{"expect.final_sip_code 404 can never match outcome answered (200)"},
		},
		{
			name: "answered with other success code",
			mutate: func(s *Scenario) {
				s.Expect.FinalSIPCode = intPtr(202)
			},
			want: []string{"expect.final_sip_code 202 can never match outcome answered (200)"},
		},

		{
			name: "busy with other code",
			mutate: func(s *Scenario) {
				s.Expect.Outcome = OutcomeBusy
				s.Expect.FinalSIPCode = intPtr(603)
			},
			want: []string{"expect.final_sip_code 603 can never match outcome busy (486)"},
		},
		{
			name: "failed with success code",
			mutate: func(s *Scenario) {
				s.Expect.Outcome = OutcomeFailed
			},
			want: []string{"expect.final_sip_code 200 is a success code and can never match outcome failed"},
		},
		{
			name: "advisory timing",
			mutate: func(s *Scenario) {
				s.Expect.AnswerWithinS = intPtr(5)
				s.Expect.MinDurationS = intPtr(10)
			},
			want: []string{
				"expect.answer_within_s is recorded but not enforced",
				"expect.min_duration_s is recorded but not enforced",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleScenario()
			tt.mutate(&s)
			assert.Equal(t, tt.want, Lint(s))
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "a.yaml", "notes.txt", "sub/c.yaml", "drafts/d.yaml"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("name: x"), 0644))
	}

	t.Run("flat", func(t *testing.T) {
		files, err := Discover(dir, DiscoverOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.yaml"),
			filepath.Join(dir, "b.yaml"),
			filepath.Join(dir, "a.yml"),
		}, files)
	})

	t.Run("recursive with exclude", func(t *testing.T) {
		files, err := Discover(dir, DiscoverOptions{Recursive: true, Exclude: []string{"drafts/**"}})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.yaml"),
			filepath.Join(dir, "b.yaml"),
			filepath.Join(dir, "sub", "c.yaml"),
			filepath.Join(dir, "a.yml"),
		}, files)
	})

	t.Run("single file", func(t *testing.T) {
		p := filepath.Join(dir, "notes.txt")
		files, err := Discover(p, DiscoverOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{p}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "nope"), DiscoverOptions{})
		assert.True(t, errors.Is(err, ErrPathNotFound))
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Discover(t.TempDir(), DiscoverOptions{})
		assert.True(t, errors.Is(err, ErrNoScenarioFiles))
	})

	t.Run("malformed exclude pattern", func(t *testing.T) {
		_, err := Discover(dir, DiscoverOptions{Recursive: true, Exclude: []string{"drafts/[a-"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, doublestar.ErrBadPattern))
		assert.Contains(t, err.Error(), `invalid exclude pattern "drafts/[a-"`)
	})
}
