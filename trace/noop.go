package trace

// NoopHook is a hook that does nothing.
// Generators use it when no hook is configured.
type NoopHook struct{}

var _ Hook = (*NoopHook)(nil)

func (NoopHook) OnPassStart(pass string)                              {}
func (NoopHook) OnPassEnd(pass string, durationMs float64, err error) {}
func (NoopHook) OnNodeStart(pass, nodeID, kind string)                {}
func (NoopHook) OnNodeEnd(pass, nodeID, kind string, order int, durationMs float64) {
}
func (NoopHook) OnNodeError(pass, nodeID string, err error)    {}
func (NoopHook) OnHelper(pass, key, name string, created bool) {}
