// Package modules implements the garden's actuators: irrigation,
// heating and pest control, plus the manager that routes commands to
// them.
package modules

// Module is the common actuator surface.
type Module interface {
	Key() string
	Name() string
	Activate()
	Deactivate()
	IsActive() bool
	// Update applies one tick of the module's effect while active.
	Update()
}

// Controllable is a module with a 0–100 intensity dial.
type Controllable interface {
	Module
	SetIntensity(pct int)
	Intensity() int
}

// Stable module keys used by the manager and the sensor controller.
const (
	KeyIrrigation  = "irrigation"
	KeyHeating     = "heating"
	KeyPestControl = "pest_control"
)

func clampIntensity(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
