// Package validation binds request data into payload structs and turns
// validator failures into field-level errors clients can act on.
package validation
