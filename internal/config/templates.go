package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gardensim/engine/internal/garden"
)

// TemplateEntry is one parsed plant-template section plus how many
// instances to plant.
type TemplateEntry struct {
	Template  garden.PlantTemplate
	Instances int
}

const defaultInstances = 2

// LoadTemplates parses a plant-template file. Sections start with
// [TypeName]; each following key=value line sets one template field.
// Lines starting with # are comments. Unknown keys fail the load so a
// typo cannot silently fall back to a default.
//
//	[Rose]
//	instances=3
//	waterRequirement=10
//	optimalTempMin=65
//	optimalTempMax=75
//	minTempTolerance=40
//	maxTempTolerance=95
//	parasites=aphids,spider_mites
func LoadTemplates(path string) ([]TemplateEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template file: %w", err)
	}
	defer f.Close()

	var entries []TemplateEntry
	var current *TemplateEntry

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return nil, fmt.Errorf("line %d: empty section name", lineNo)
			}
			entries = append(entries, TemplateEntry{
				Template:  garden.PlantTemplate{Type: name},
				Instances: defaultInstances,
			})
			current = &entries[len(entries)-1]
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: %q outside any [Type] section", lineNo, line)
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo, line)
		}
		if err := applyTemplateKey(current, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	return entries, nil
}

func applyTemplateKey(entry *TemplateEntry, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an integer", key, value)
		}
		return n, nil
	}

	var err error
	switch key {
	case "instances":
		entry.Instances, err = atoi()
	case "waterRequirement":
		entry.Template.WaterRequirement, err = atoi()
	case "optimalTempMin":
		entry.Template.OptimalTempMin, err = atoi()
	case "optimalTempMax":
		entry.Template.OptimalTempMax, err = atoi()
	case "minTempTolerance":
		entry.Template.MinTempTolerance, err = atoi()
	case "maxTempTolerance":
		entry.Template.MaxTempTolerance, err = atoi()
	case "parasites":
		var parasites []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parasites = append(parasites, p)
			}
		}
		entry.Template.VulnerableParasites = parasites
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return err
}
