// Package export writes surfaces and trajectories for external renderers.
//
// CSV output is long-form (one row per cell), JSON keeps the grid shape and
// encodes flagged cells as null, SVG draws a heatmap or a line plot.
package export
