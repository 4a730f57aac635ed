package modules

import (
	"fmt"
	"strings"

	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/logging"
)

// pesticideFor maps each parasite species to the product used against
// it. Unmapped species are not treated.
var pesticideFor = map[string]string{
	"aphids":       "neem_oil",
	"spider_mites": "miticide",
	"whiteflies":   "insecticidal_soap",
	"hornworms":    "bacillus_thuringiensis",
	"slugs":        "iron_phosphate",
	"beetles":      "neem_oil",
	"fungus_gnats": "bacillus_thuringiensis",
	"mealybugs":    "pyrethrin",
	"carrot_flies": "spinosad",
}

// PestControl treats parasite infestations through the garden's
// treatment entry point.
type PestControl struct {
	garden *garden.Garden
	log    *logging.SlogManager

	active bool
}

func NewPestControl(g *garden.Garden, log *logging.SlogManager) *PestControl {
	return &PestControl{garden: g, log: log}
}

func (m *PestControl) Key() string  { return KeyPestControl }
func (m *PestControl) Name() string { return "Pest Control System" }

func (m *PestControl) Activate() {
	if !m.active {
		m.active = true
		m.logf("pest control activated")
	}
}

func (m *PestControl) Deactivate() {
	if m.active {
		m.active = false
		m.logf("pest control deactivated")
	}
}

func (m *PestControl) IsActive() bool { return m.active }

// Update sweeps any pests present in the soil while active.
func (m *PestControl) Update() {
	if !m.active {
		return
	}
	m.Sweep()
}

// Sweep treats every parasite currently in the soil and reports how
// many species were actually treated.
func (m *PestControl) Sweep() int {
	treated := 0
	for _, name := range m.garden.Soil().Pests() {
		if m.Treat(name) {
			treated++
		}
	}
	return treated
}

// Treat applies the matched pesticide for one parasite species. Species
// with no known pesticide are logged and left untreated.
func (m *PestControl) Treat(parasite string) bool {
	name := SanitizeParasiteName(parasite)
	if name == "" {
		return false
	}
	pesticide, ok := pesticideFor[name]
	if !ok {
		m.logf("no known pesticide for %s, skipping treatment", name)
		return false
	}
	m.logf("applying %s against %s", pesticide, name)
	m.garden.TreatParasite(name)
	return true
}

// SanitizeParasiteName normalizes a parasite identifier: lowercase,
// trimmed, spaces collapsed to underscores.
func SanitizeParasiteName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

func (m *PestControl) logf(format string, args ...any) {
	if m.log != nil {
		m.log.WriteLog(KeyPestControl, fmt.Sprintf(format, args...), "info")
	}
}
