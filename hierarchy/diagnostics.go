package hierarchy

import (
	"log/slog"
	"sync"

	"github.com/cottand/supers/util"
)

// DiagnosticSink is notified of hierarchy problems found while resolving.
// Implementations must not block.
type DiagnosticSink interface {
	ReportHierarchyInconsistency(super, derived *Class)
}

// LogSink logs inconsistencies as warnings
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) ReportHierarchyInconsistency(super, derived *Class) {
	s.Logger.Warn("inconsistent hierarchy: several paths disagree on the type arguments of a supertype",
		"super", super.Name, "derived", derived.Name)
}

// CollectingSink remembers every report, it is safe for concurrent use
type CollectingSink struct {
	mu      sync.Mutex
	reports []util.Pair[*Class, *Class]
}

func (s *CollectingSink) ReportHierarchyInconsistency(super, derived *Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, util.NewPair(super, derived))
}

// Reports returns (super, derived) pairs in the order they were reported
func (s *CollectingSink) Reports() []util.Pair[*Class, *Class] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]util.Pair[*Class, *Class], len(s.reports))
	copy(out, s.reports)
	return out
}

// multiSink fans reports out to several sinks
type multiSink []DiagnosticSink

func (m multiSink) ReportHierarchyInconsistency(super, derived *Class) {
	for _, s := range m {
		s.ReportHierarchyInconsistency(super, derived)
	}
}
