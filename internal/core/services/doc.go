// Package services implements the driving port interfaces.
// Services hold the core business logic and orchestrate calls to
// driven ports; they never touch storage or transports directly.
package services
