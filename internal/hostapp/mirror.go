package hostapp

import "time"

// projectState is the host's shadow of one device project. The host
// never polls the device; everything is reconstructed from the event
// stream, the same way the original companion application did it.
type projectState struct {
	name      string
	tag       string
	running   bool
	startedAt time.Time
	banked    time.Duration
}

// ProjectRow is a render-ready view of one mirrored project.
type ProjectRow struct {
	Name    string
	Tag     string
	Running bool
	Total   time.Duration
	Session time.Duration
}

// Mirror rebuilds project state from device events. Single-goroutine
// use only; the UI owns it.
type Mirror struct {
	order    []string
	projects map[string]*projectState
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{projects: make(map[string]*projectState)}
}

// Apply folds one event into the mirror. at is the host-side receive
// time used for session arithmetic.
func (m *Mirror) Apply(ev DeviceEvent, at time.Time) {
	switch ev.Kind {
	case KindAdded:
		p := m.ensure(ev.Project)
		if ev.Tag != "" {
			p.tag = ev.Tag
		}
	case KindStarted:
		// A start implies every other project just got paused.
		for _, name := range m.order {
			if name != ev.Project {
				m.pause(name, at)
			}
		}
		p := m.ensure(ev.Project)
		if !p.running {
			p.running = true
			p.startedAt = at
		}
	case KindPaused:
		m.pause(ev.Project, at)
	case KindDeleted:
		m.pause(ev.Project, at)
		delete(m.projects, ev.Project)
		for i, name := range m.order {
			if name == ev.Project {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

func (m *Mirror) ensure(name string) *projectState {
	if p, ok := m.projects[name]; ok {
		return p
	}
	p := &projectState{name: name}
	m.projects[name] = p
	m.order = append(m.order, name)
	return p
}

func (m *Mirror) pause(name string, at time.Time) {
	p, ok := m.projects[name]
	if !ok || !p.running {
		return
	}
	p.banked += at.Sub(p.startedAt)
	p.running = false
}

// Rows returns all mirrored projects in registration order with totals
// computed as of now.
func (m *Mirror) Rows(now time.Time) []ProjectRow {
	rows := make([]ProjectRow, 0, len(m.order))
	for _, name := range m.order {
		p := m.projects[name]
		row := ProjectRow{
			Name:    p.name,
			Tag:     p.tag,
			Running: p.running,
			Total:   p.banked,
		}
		if p.running {
			row.Session = now.Sub(p.startedAt)
			row.Total += row.Session
		}
		rows = append(rows, row)
	}
	return rows
}

// Running returns the name of the running project, if any.
func (m *Mirror) Running() (string, bool) {
	for _, name := range m.order {
		if m.projects[name].running {
			return name, true
		}
	}
	return "", false
}
