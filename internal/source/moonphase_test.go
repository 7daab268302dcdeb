package source

import (
	"strings"
	"testing"
	"time"

	"argusglue/internal/argus"
)

func TestReadMoon_LunationEpochIsNewMoon(t *testing.T) {
	reading := readMoon(lunationEpoch)
	if reading.ID != 0 {
		t.Errorf("expected phase id 0 at the lunation epoch, got %d", reading.ID)
	}
	if reading.Name != "New Moon" {
		t.Errorf("expected New Moon, got %s", reading.Name)
	}
	if reading.Lunation != 953 {
		t.Errorf("expected Brown lunation 953, got %d", reading.Lunation)
	}
}

func TestReadMoon_HalfLunationIsFullMoon(t *testing.T) {
	half := time.Duration(synodicMonth / 2 * 24 * float64(time.Hour))
	reading := readMoon(lunationEpoch.Add(half))
	if reading.ID != 4 {
		t.Errorf("expected phase id 4 (full), got %d (%s)", reading.ID, reading.Name)
	}
	if reading.Fraction < 0.45 || reading.Fraction > 0.55 {
		t.Errorf("fraction = %f, expected about 0.5", reading.Fraction)
	}
}

func TestReadMoon_NextLunationIncrements(t *testing.T) {
	oneLunationPlusDay := time.Duration((synodicMonth + 1) * 24 * float64(time.Hour))
	reading := readMoon(lunationEpoch.Add(oneLunationPlusDay))
	if reading.ID != 0 {
		t.Errorf("expected a new moon one lunation later, got %d (%s)", reading.ID, reading.Name)
	}
	if reading.Lunation != 954 {
		t.Errorf("expected lunation 954, got %d", reading.Lunation)
	}
}

func TestReadMoon_KnownFullMoon(t *testing.T) {
	// Full moon of 2026-03-03, 11:38 UTC.
	reading := readMoon(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC))
	if reading.ID != 4 {
		t.Errorf("expected full moon (4), got %d (%s)", reading.ID, reading.Name)
	}
}

func TestMoon_ReadProducesRoundTrippableTags(t *testing.T) {
	m, err := NewMoon("")
	if err != nil {
		t.Fatalf("NewMoon failed: %v", err)
	}

	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	sig, err := m.Read(now, nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !sig.Active {
		t.Error("moon phase signal must always be active")
	}
	if sig.Identity != sig.Tags["moon_phase_id"] {
		t.Errorf("identity %q does not match persisted tag %q", sig.Identity, sig.Tags["moon_phase_id"])
	}

	// A fresh source reading the tags back reproduces the identity.
	id, ok := m.Identity(argus.Incident{Tags: sig.Tags})
	if !ok || id != sig.Identity {
		t.Errorf("round trip produced %q (%v), expected %q", id, ok, sig.Identity)
	}
}

func TestMoon_DefaultMessage(t *testing.T) {
	m, err := NewMoon("")
	if err != nil {
		t.Fatalf("NewMoon failed: %v", err)
	}

	sig, err := m.Read(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(sig.Description, "Current moon phase:") {
		t.Errorf("description = %q", sig.Description)
	}
	if !strings.Contains(sig.Description, "Full Moon") {
		t.Errorf("expected phase name in description, got %q", sig.Description)
	}
}

func TestMoon_CustomTemplateWithSprigFuncs(t *testing.T) {
	m, err := NewMoon(`{{ upper .Name }} ({{ .Fraction | printf "%.2f" }})`)
	if err != nil {
		t.Fatalf("NewMoon failed: %v", err)
	}

	sig, err := m.Read(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(sig.Description, "FULL MOON") {
		t.Errorf("expected sprig upper to apply, got %q", sig.Description)
	}
}

func TestMoon_BadTemplateRejected(t *testing.T) {
	if _, err := NewMoon("{{ .Name"); err == nil {
		t.Error("expected a parse error for an unterminated template")
	}
}

func TestMoon_ResolveMessageUsesPersistedName(t *testing.T) {
	m, err := NewMoon("")
	if err != nil {
		t.Fatalf("NewMoon failed: %v", err)
	}

	open := &argus.Incident{Tags: map[string]string{
		"moon_phase_id":   "3",
		"moon_phase_name": "Waxing Gibbous",
	}}
	sig, err := m.Read(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC), open)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sig.ResolveMessage != `End of moon phase "Waxing Gibbous"` {
		t.Errorf("resolve message = %q", sig.ResolveMessage)
	}
}
