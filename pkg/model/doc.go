// Package model defines the typed form description renderers consume. A
// FormModel lists its fields in display order; each Field names its control
// type, label, selectable options, and an optional visibility rule evaluated
// against the current values (see pkg/visibility/expr). Decorators adjust a
// model after it is built, for example to apply configured titles or labels,
// without renderers having to know where those overrides came from.
package model
