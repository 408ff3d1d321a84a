// Package util provides small parsing helpers shared by configuration and
// middleware.
package util
