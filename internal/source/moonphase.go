package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"argusglue/internal/argus"
	"argusglue/internal/monitor"
)

const (
	// Tag keys persisted on moon phase incidents.
	tagMoonPhaseID       = "moon_phase_id"
	tagMoonPhaseName     = "moon_phase_name"
	tagMoonPhaseIcon     = "moon_phase_icon"
	tagMoonPhaseFraction = "moon_phase_fraction"
	tagLunation          = "lunation"

	moonphaseMonitorKey = "moonphase"

	// DefaultMoonMessageTemplate renders the incident description.
	DefaultMoonMessageTemplate = "Current moon phase: {{ .Icon }} {{ .Name }}"
)

// MoonReading is one observation of the moon, the payload the message
// template is rendered against.
type MoonReading struct {
	// ID is the phase index, 0 (new moon) through 7 (waning crescent).
	ID int

	// Name is the English phase name.
	Name string

	// Icon is the phase emoji.
	Icon string

	// Fraction is the fraction of the lunation elapsed, [0, 1).
	Fraction float64

	// Lunation is the Brown lunation number.
	Lunation int
}

var (
	phaseNames = [8]string{
		"New Moon",
		"Waxing Crescent",
		"First Quarter",
		"Waxing Gibbous",
		"Full Moon",
		"Waning Gibbous",
		"Last Quarter",
		"Waning Crescent",
	}
	phaseIcons = [8]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}
)

// Mean synodic month in days, and the new moon that began Brown lunation
// 953 (2000-01-06 18:14 UTC). Good to well under a phase width for the
// decades around the epoch, which is all a discrete eight-phase id needs.
const synodicMonth = 29.530588861

var lunationEpoch = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

const lunationEpochNumber = 953

// readMoon computes the phase reading for an instant.
func readMoon(t time.Time) MoonReading {
	days := t.UTC().Sub(lunationEpoch).Hours() / 24
	lunations := days / synodicMonth
	cycles := math.Floor(lunations)
	fraction := lunations - cycles

	id := int(math.Floor(fraction*8+0.5)) % 8

	return MoonReading{
		ID:       id,
		Name:     phaseNames[id],
		Icon:     phaseIcons[id],
		Fraction: fraction,
		Lunation: lunationEpochNumber + int(cycles),
	}
}

// Moon is the discrete-kind signal source: the eight-phase moon cycle.
// The phase id changes every ~3.7 days; the monitor polls and compares the
// id against the one persisted in the open incident's tags.
type Moon struct {
	tmpl *template.Template
}

// NewMoon creates the moonphase source. messageTemplate renders the incident
// description from a MoonReading; empty selects the default.
func NewMoon(messageTemplate string) (*Moon, error) {
	if messageTemplate == "" {
		messageTemplate = DefaultMoonMessageTemplate
	}
	tmpl, err := template.New("message").Funcs(sprig.TxtFuncMap()).Parse(messageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing moonphase message template: %w", err)
	}
	return &Moon{tmpl: tmpl}, nil
}

// Monitor returns the monitor name.
func (m *Moon) Monitor() string {
	return moonphaseMonitorKey
}

// Read computes the current phase. The resolve message names the phase being
// ended, read back from the open incident's tags so it is correct even when
// this process never saw that phase begin.
func (m *Moon) Read(now time.Time, open *argus.Incident) (monitor.Signal, error) {
	reading := readMoon(now)

	var description strings.Builder
	if err := m.tmpl.Execute(&description, reading); err != nil {
		return monitor.Signal{}, fmt.Errorf("rendering moonphase message: %w", err)
	}

	resolveMessage := fmt.Sprintf("End of moon phase %q", reading.Name)
	if open != nil {
		if prevName, ok := open.Tags[tagMoonPhaseName]; ok {
			resolveMessage = fmt.Sprintf("End of moon phase %q", prevName)
		}
	}

	return monitor.Signal{
		Identity:       strconv.Itoa(reading.ID),
		Active:         true,
		Summary:        reading.Name,
		Description:    description.String(),
		ResolveMessage: resolveMessage,
		Tags: map[string]string{
			tagMoonPhaseID:       strconv.Itoa(reading.ID),
			tagMoonPhaseName:     reading.Name,
			tagMoonPhaseIcon:     reading.Icon,
			tagMoonPhaseFraction: strconv.FormatFloat(reading.Fraction, 'f', 6, 64),
			tagLunation:          strconv.Itoa(reading.Lunation),
		},
		SourceID: strconv.Itoa(reading.Lunation),
	}, nil
}

// Identity reconstructs the phase id persisted in an incident's tags.
func (m *Moon) Identity(inc argus.Incident) (string, bool) {
	id, ok := inc.Tags[tagMoonPhaseID]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
