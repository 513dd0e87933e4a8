package modes

import (
	"errors"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/registry"
)

// Entries returns the reference mode set with its declared transitions.
func Entries() []registry.Entry {
	return []registry.Entry{
		{
			Name:        domain.ModeStandby,
			Factory:     NewStandby,
			Transitions: []domain.ModeName{domain.ModeStand, domain.ModeSafeStop},
		},
		{
			Name:        domain.ModeStand,
			Factory:     NewStand,
			Transitions: []domain.ModeName{domain.ModeWalk, domain.ModeStandby, domain.ModeSafeStop},
		},
		{
			Name:        domain.ModeWalk,
			Factory:     NewWalk,
			Transitions: []domain.ModeName{domain.ModeStand, domain.ModeSafeStop},
		},
		{
			Name:        domain.ModeSafeStop,
			Factory:     NewSafeStop,
			Transitions: []domain.ModeName{domain.ModeStandby},
		},
	}
}

// Register adds the reference modes to reg.
func Register(reg *registry.Registry) error {
	for _, e := range Entries() {
		if err := reg.Register(e); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the reference modes.
func NewRegistry() *registry.Registry {
	return registry.NewRegistry().MustRegister(Entries()...)
}

// CheckParams reports parameter sections the reference modes cannot decode.
// The modes themselves fall back to their defaults.
func CheckParams(p domain.Parameters) error {
	var errs []error
	if _, err := loadWalkLimits(p); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
