package voxfield

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gekko3d/voxfield/voxelrt/rt/gpu"
	"go.uber.org/zap"
)

// Profiler keeps the last duration of named scopes and a set of counters.
// When present as a resource the app times every stage with it.
type Profiler struct {
	Scopes map[string]time.Duration
	Counts map[string]int
	Order  []string

	starts map[string]time.Time
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes: make(map[string]time.Duration),
		Counts: make(map[string]int),
		starts: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = p.now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
		delete(p.starts, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Reset zeroes timings and keeps the scope order.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

// Fields returns scopes in first-seen order followed by sorted counters.
func (p *Profiler) Fields() []zap.Field {
	fields := make([]zap.Field, 0, len(p.Order)+len(p.Counts))
	for _, name := range p.Order {
		fields = append(fields, zap.Duration(name, p.Scopes[name]))
	}
	for _, k := range slices.Sorted(maps.Keys(p.Counts)) {
		fields = append(fields, zap.Int(k, p.Counts[k]))
	}
	return fields
}

func (p *Profiler) String() string {
	var sb strings.Builder
	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-15s: %.2f ms\n", name, ms)
	}
	sb.WriteString("\nStats:\n")
	for _, k := range slices.Sorted(maps.Keys(p.Counts)) {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.Counts[k])
	}
	return sb.String()
}

// ProfilerModule times stages and logs a report when F3 is pressed.
type ProfilerModule struct{}

func (ProfilerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewProfiler())
	app.UseSystem(
		System(profilerSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func profilerSystem(input *Input, prof *Profiler, cmd *Commands) {
	if mirror, ok := Resource[gpu.Mirror](cmd.app); ok {
		prof.SetCount("mirror.pending", mirror.Pending())
		prof.SetCount("mirror.cell_uploads", mirror.Stats.CellUploads)
		prof.SetCount("mirror.coalesced", mirror.Stats.Coalesced)
	}
	if editor, ok := Resource[Editor](cmd.app); ok {
		prof.SetCount("edit.placed", editor.Placed)
		prof.SetCount("edit.removed", editor.Removed)
		prof.SetCount("edit.rejected", editor.Rejected)
	}
	if input.JustPressed[KeyF3] {
		logInfo(cmd.Logger(), "frame profile", prof.Fields()...)
	}
}
