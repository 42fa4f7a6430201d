// Package registration implements the event registration form: its field
// definitions, validation rules, and the view controller that moves a form
// instance from editing to a read-only summary once a submit succeeds.
//
// A Form is owned by exactly one caller (an HTTP session, a terminal run) and
// every handler runs to completion synchronously. Renderers never mutate a
// Form; they receive an immutable View.
package registration
