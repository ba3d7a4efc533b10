package metro

// DefaultLaneColor is the track color for the primary conversation lane and
// any lane activated without an explicit color preference.
const DefaultLaneColor = "#6366f1"

// workflowPalette is the fixed color cycle for workflow executions. Peers
// inherit their parent lane's color instead; workflows get a fresh palette
// entry per execution id. The two policies are separate; see the peer and
// workflow handlers in builder.go.
var workflowPalette = []string{
	"#0ea5e9", // sky
	"#10b981", // emerald
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#14b8a6", // teal
	"#f97316", // orange
}

// paletteCycle assigns workflow colors from workflowPalette, memoized per
// execution id so replays of the same execution keep a stable color.
type paletteCycle struct {
	assigned map[string]string
	next     int
}

func newPaletteCycle() *paletteCycle {
	return &paletteCycle{assigned: make(map[string]string)}
}

// colorFor returns the color assigned to executionID, assigning the next
// palette entry on first use. The palette wraps around when exhausted.
func (p *paletteCycle) colorFor(executionID string) string {
	if c, ok := p.assigned[executionID]; ok {
		return c
	}
	c := workflowPalette[p.next%len(workflowPalette)]
	p.next++
	p.assigned[executionID] = c
	return c
}
