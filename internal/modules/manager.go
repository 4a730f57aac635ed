package modules

import (
	"fmt"

	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/pkg/state"
)

// Manager owns the actuator modules for one garden and routes
// high-level commands to them by key. It is constructed once per
// garden; there is no process-wide instance.
type Manager struct {
	irrigation  *Irrigation
	heating     *Heating
	pestControl *PestControl
	byKey       map[string]Module
}

// NewManager wires the standard module set against one garden.
func NewManager(g *garden.Garden, log *logging.SlogManager, hazardMultiplier float64) *Manager {
	m := &Manager{
		irrigation:  NewIrrigation(g, log, hazardMultiplier),
		heating:     NewHeating(g, log),
		pestControl: NewPestControl(g, log),
	}
	m.byKey = map[string]Module{
		KeyIrrigation:  m.irrigation,
		KeyHeating:     m.heating,
		KeyPestControl: m.pestControl,
	}
	return m
}

// Irrigation returns the irrigation module.
func (m *Manager) Irrigation() *Irrigation { return m.irrigation }

// Heating returns the heating module.
func (m *Manager) Heating() *Heating { return m.heating }

// PestControl returns the pest control module.
func (m *Manager) PestControl() *PestControl { return m.pestControl }

// HandleRainfall delivers water through the irrigation hardware.
func (m *Manager) HandleRainfall(amount int) {
	m.irrigation.Deliver(amount)
}

// HandleTemperatureChange routes a temperature command through heating.
func (m *Manager) HandleTemperatureChange(temp int) error {
	return m.heating.ApplyTemperature(temp)
}

// HandleParasite treats one parasite species through pest control.
func (m *Manager) HandleParasite(name string) {
	m.pestControl.Treat(name)
}

// ActivateModule turns a module on by key.
func (m *Manager) ActivateModule(key string) error {
	mod, err := m.module(key)
	if err != nil {
		return err
	}
	mod.Activate()
	return nil
}

// DeactivateModule turns a module off by key.
func (m *Manager) DeactivateModule(key string) error {
	mod, err := m.module(key)
	if err != nil {
		return err
	}
	mod.Deactivate()
	return nil
}

// SetModuleIntensity adjusts a controllable module's intensity.
func (m *Manager) SetModuleIntensity(key string, pct int) error {
	mod, err := m.module(key)
	if err != nil {
		return err
	}
	ctl, ok := mod.(Controllable)
	if !ok {
		return fmt.Errorf("module %q has no intensity control", key)
	}
	ctl.SetIntensity(pct)
	return nil
}

// UpdateAll runs one effect tick on every active module.
func (m *Manager) UpdateAll() {
	m.irrigation.Update()
	m.heating.Update()
	m.pestControl.Update()
}

// Status reports every module's state in a stable order.
func (m *Manager) Status() []state.ModuleStatus {
	out := []state.ModuleStatus{
		{
			Key:       KeyIrrigation,
			Name:      m.irrigation.Name(),
			Active:    m.irrigation.IsActive(),
			Intensity: m.irrigation.Intensity(),
		},
		{
			Key:               KeyHeating,
			Name:              m.heating.Name(),
			Active:            m.heating.IsActive(),
			Intensity:         m.heating.Intensity(),
			TargetTemperature: m.heating.Target(),
		},
		{
			Key:    KeyPestControl,
			Name:   m.pestControl.Name(),
			Active: m.pestControl.IsActive(),
		},
	}
	return out
}

func (m *Manager) module(key string) (Module, error) {
	mod, ok := m.byKey[key]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", key)
	}
	return mod, nil
}
