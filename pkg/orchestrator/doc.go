// Package orchestrator wires the registration model, theme selection, and
// renderer registry behind a single entry point so servers and commands build
// forms and render them the same way.
package orchestrator
