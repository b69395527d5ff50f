package catalog

// DependencyLevel pairs a view name with its distance from the base of the
// view dependency graph. Level 0 means the view reads only from tables;
// otherwise level = 1 + max(level of the views it reads from), taking the
// maximum across all dependency paths. Levels are computed transiently for
// a single operation and never persisted.
type DependencyLevel struct {
	// Name is the bare relation name.
	Name string

	// Level is the maximum dependency depth reachable across all paths.
	Level int
}
