// Package validation validates configuration structs through
// go-playground/validator struct tags and converts failures into
// *errors.AppError values with per-field details.
package validation
