// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never import an adapter package; every backend is reached
// through a driven port handed in at construction.
package services
