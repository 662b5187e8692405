// Package viz renders model output on the terminal.
//
//   - [PlotTrajectory] and [PlotBifurcation]: asciigraph line plots
//   - [Heatmap]: a lipgloss color grid of a sweep surface
//   - [SliderModel]: a Bubble Tea app that recomputes the trajectory, return
//     time and a surface heatmap for each initial cover
//
// # Key Bindings
//
//	←/→        - Move the selected slider by one step
//	PgUp/PgDn  - Move by ten steps
//	Tab, ↑/↓   - Switch between initial cover and aridity
//	M          - Cycle the heatmap: cover, return time, forest and savanna
//	             characteristic return time, hidden
//	T          - Cycle color themes
//	R          - Reset to the configured initial cover
//	Q          - Quit
package viz
