// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Aspect lines to all four angles, contour refinement, world map export
// 0.2.0 - Horizon-horizon parans, visibility filtering, batch orchestrator
// 0.1.0 - Initial release: angular lines, meridian-horizon parans, TUI map, headless modes
