// Package domains wires the built-in calculation packages into a registry.
package domains

import (
	"github.com/msto63/engcalc/internal/domains/fluids"
	"github.com/msto63/engcalc/internal/domains/materials"
	"github.com/msto63/engcalc/internal/domains/statics"
	"github.com/msto63/engcalc/pkg/core/calculation"
)

// RegisterAll registers every built-in variant in reg.
func RegisterAll(reg *calculation.Registry) error {
	for _, register := range []func(*calculation.Registry) error{
		fluids.Register,
		materials.Register,
		statics.Register,
	} {
		if err := register(reg); err != nil {
			return err
		}
	}
	return nil
}
