package search

// TraceMonitor provides hooks to observe the filter pipeline.
// Implement this interface to capture what was matched and why.
type TraceMonitor interface {
	Start(query string)
	StageComplete(stage string, survivors int)
	EntityMatched(category, entity string, hits int)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of TraceMonitor
type noopMonitor struct{}

var _ TraceMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) StageComplete(_ string, _ int)        {}
func (n *noopMonitor) EntityMatched(_, _ string, _ int)     {}
func (n *noopMonitor) Finish(_ *Result)                     {}
