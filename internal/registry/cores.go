package registry

// Built-in core IDs.
const (
	CoreCircle      = "circle"
	CoreStar        = "star"
	CorePrism       = "prism"
	CoreSingularity = "singularity"
)

// DefaultCore is used when a shift does not name one.
const DefaultCore = CoreCircle

func init() {
	Register(Core{ID: CoreCircle, Title: "Circle Reactor", InitialDrift: 1.1, Order: 1})
	Register(Core{ID: CoreStar, Title: "Binary Star Reactor", InitialDrift: 1.4, Clearance: "Level 2 Clearance", Order: 2})
	Register(Core{ID: CorePrism, Title: "Prism Core", InitialDrift: 1.1, Clearance: "Level 3 Clearance", Order: 3})
	Register(Core{ID: CoreSingularity, Title: "Singularity", InitialDrift: 1.1, Clearance: "Level 4 Clearance", Order: 4})
}
