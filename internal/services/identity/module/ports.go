package module

import "facegate/internal/services/identity/domain"

// Ports are the identity capabilities other modules consume
type Ports struct {
	Provider domain.Provider
	Reloader domain.ReloadPort
	Enroller domain.EnrollPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
