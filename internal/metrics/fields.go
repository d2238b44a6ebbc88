package metrics

// Common metric label names
const (
	AttrMethod = "method"
	AttrStatus = "status"
)
