// Package component defines lifecycle-managed parts of a service and a
// Registry that starts them in order, stops them in reverse, and collects
// their health.
package component
