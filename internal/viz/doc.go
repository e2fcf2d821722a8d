// Package viz renders sections, bifurcation diagrams, and live
// trajectories in the terminal.
//
// Scatter plots use a braille sub-pixel canvas for density; the live
// view is a bubbletea program with an asciigraph rolling plot. SVG
// export mirrors the terminal scatter for external use.
package viz
