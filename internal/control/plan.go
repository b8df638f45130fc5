package control

// Row is one valid record of a control file.
type Row struct {
	Source  string
	Target  string
	CutFrom string
	CutTo   string
}

// Cut is a single range of a source file that goes into a target.
// CutFrom and CutTo are passed to mkvmerge verbatim.
type Cut struct {
	Source  string
	CutFrom string
	CutTo   string
}

// Plan maps every target to its cuts. Targets keep the order in which they
// first appeared in the control file, cuts keep file order.
type Plan struct {
	order []string
	cuts  map[string][]Cut
	last  string
}

func NewPlan() *Plan {
	return &Plan{cuts: make(map[string][]Cut)}
}

// Add appends the row's cut to its target, creating the target on first use.
func (p *Plan) Add(r Row) {
	if _, ok := p.cuts[r.Target]; !ok {
		p.order = append(p.order, r.Target)
	}
	p.cuts[r.Target] = append(p.cuts[r.Target], Cut{Source: r.Source, CutFrom: r.CutFrom, CutTo: r.CutTo})
	p.last = r.Target
}

// Targets returns the target names in first-appearance order.
func (p *Plan) Targets() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Cuts returns the cuts of target in file order.
func (p *Plan) Cuts(target string) []Cut {
	cuts := p.cuts[target]
	out := make([]Cut, len(cuts))
	copy(out, cuts)
	return out
}

func (p *Plan) Len() int {
	return len(p.order)
}

// LastTarget is the target of the last valid row in the file. It is not
// necessarily the last entry of Targets: a later row may extend an earlier
// target.
func (p *Plan) LastTarget() string {
	return p.last
}

// Has reports whether target is produced by this plan.
func (p *Plan) Has(target string) bool {
	_, ok := p.cuts[target]
	return ok
}
