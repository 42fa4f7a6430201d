// Package form holds form state as immutable value snapshots. A Store owns the
// current snapshot and folds explicit Change descriptors into it: every change
// produces a fresh Values with exactly one key updated, so earlier snapshots
// handed to renderers or validators never observe later edits. The package
// performs no validation; see pkg/validation for the submit controller.
package form
