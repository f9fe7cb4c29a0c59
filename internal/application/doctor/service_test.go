package doctor

import (
	"testing"

	"github.com/doeshing/hostpilot/internal/domain"
)

func baseConfig() domain.Config {
	return domain.Config{
		Security: domain.SecuritySettings{Enabled: true, RulesFile: ".hostpilot/guardrail.yaml"},
	}
}

func TestCheckPlatform(t *testing.T) {
	s := New(domain.PlatformLinux, nil, baseConfig(), "")
	if check := s.checkPlatform(); check.Status != StatusOK {
		t.Fatalf("linux should pass: %+v", check)
	}

	s = New(domain.PlatformUnknown, nil, baseConfig(), "")
	if check := s.checkPlatform(); check.Status != StatusFail {
		t.Fatalf("unknown platform should fail: %+v", check)
	}
}

func TestCheckCapabilitiesGradesMissingAsWarn(t *testing.T) {
	caps := domain.CapabilityMap{
		domain.CapabilityFileOperations:   true,
		domain.CapabilityWindowManagement: false,
	}
	s := New(domain.PlatformLinux, caps, baseConfig(), "")

	checks := s.checkCapabilities()
	if len(checks) != 2 {
		t.Fatalf("got %d checks", len(checks))
	}
	byName := map[string]Status{}
	for _, c := range checks {
		byName[c.Name] = c.Status
	}
	if byName["capability:"+domain.CapabilityFileOperations] != StatusOK {
		t.Fatal("present capability should be ok")
	}
	if byName["capability:"+domain.CapabilityWindowManagement] != StatusWarn {
		t.Fatal("missing capability should warn, not fail")
	}
}

func TestCheckGuardrailDisabledWarns(t *testing.T) {
	cfg := baseConfig()
	cfg.Security.Enabled = false
	s := New(domain.PlatformLinux, nil, cfg, "")
	if check := s.checkGuardrail(); check.Status != StatusWarn {
		t.Fatalf("disabled guardrail should warn: %+v", check)
	}
}

func TestReportHealthy(t *testing.T) {
	healthy := Report{Checks: []Check{{Status: StatusOK}, {Status: StatusWarn}}}
	if !healthy.Healthy() {
		t.Fatal("warnings alone should not mark the report unhealthy")
	}
	failing := Report{Checks: []Check{{Status: StatusOK}, {Status: StatusFail}}}
	if failing.Healthy() {
		t.Fatal("a failing check must mark the report unhealthy")
	}
}
