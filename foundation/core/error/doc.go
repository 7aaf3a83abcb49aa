// Package error provides structured error handling for engcalc.
//
// Package: error
// Title: engcalc Error Handling Framework
// Description: Implements a structured error type carrying a code, a severity,
//              key/value details and the operation that failed. Typed errors
//              from other packages (unit and validation failures) take part in
//              the same classification by exposing a Code() method.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-17 v0.2.0: Reduced to the codes used by the calculation core,
//                      GetCode resolves any error exposing Code()
//
// Usage:
//
//	import mdwerror "github.com/msto63/engcalc/foundation/core/error"
//
//	err := mdwerror.New("calculation not found").
//		WithCode(mdwerror.CodeNotFound).
//		WithDetail("key", "Materials.Axial Stress")
//
//	if mdwerror.HasCode(err, mdwerror.CodeNotFound) {
//		// map to a user facing message
//	}
package error
