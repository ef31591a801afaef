// Package status defines the lifecycle status values shared by users,
// projects, and groups. Keeping them in one place avoids scattering
// string literals across stores and handlers.
package status

const (
	Active   = "active"
	Disabled = "disabled"
)
