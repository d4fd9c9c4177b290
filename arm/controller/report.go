package controller

import "penarm/core"

// Report returns one line per task with its scheduling profile, followed by
// the interpreter counters
func (m *Manager) Report() []string {
	if m.sched == nil {
		return nil
	}

	var lines []string
	for _, t := range m.sched.Tasks() {
		lines = append(lines, t.Name+
			" pri="+core.Itoa(int(t.Priority))+
			" period="+core.Utoa(t.Period)+
			" state="+t.State().String()+
			" runs="+core.Utoa(t.Runs())+
			" max_ms="+core.Utoa(t.MaxRunTicks()))
	}

	s := m.interpreter.Stats()
	lines = append(lines, "plots="+core.Utoa(s.Plots)+
		" instructions="+core.Utoa(s.Instructions)+
		" skipped="+core.Utoa(s.Skipped)+
		" unreachable="+core.Utoa(s.Unreachable)+
		" points="+core.Utoa(s.Points))
	return lines
}
