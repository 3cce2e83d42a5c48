package module

// Reason records one (origin module, dependency edge) pair explaining why
// a Module is reachable from an entry. A Module with zero Reasons and no
// entry of its own is unreachable; Compilation.RemoveReasonsOfDependencyBlock
// removes such a module when it takes away its last Reason.
type Reason struct {
	Origin     *Module
	Dependency *Dependency
}
