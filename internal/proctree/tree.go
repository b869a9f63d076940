// Package proctree turns a flat pid -> process map into ordered display rows,
// either flat or as a parent/child hierarchy.
package proctree

import (
	"math"
	"sort"
	"time"

	"github.com/prabalesh/brtop/internal/models"
)

// OrphanPID is the pid of the synthetic row that adopts processes whose
// parent is not in the table.
const OrphanPID int32 = -1

// MaxDepth caps tree traversal. Deeper descendants are re-attached under the
// orphan row.
const MaxDepth = 64

// Options control a build.
type Options struct {
	Tree       bool
	SortKey    SortKey
	Descending bool
	Filter     Filter
	// Collapsed maps a pid to the start time of the process that was
	// collapsed; a reused pid does not match. Ignored while a filter is active.
	Collapsed map[int32]time.Time
}

// Row is one display line.
type Row struct {
	Info  models.ProcessInfo
	Depth int
	// ContextOnly marks an ancestor kept only to show where a match lives.
	ContextOnly bool
	// Synthetic marks the orphan row.
	Synthetic   bool
	HasChildren bool
	Collapsed   bool
	// Last is set when the row is the last of its siblings.
	Last bool
	// Guides[i] is set when the ancestor at depth i has siblings below it,
	// so a vertical guide continues through this row.
	Guides []bool
}

// Selectable reports whether the cursor may rest on the row.
func (r Row) Selectable() bool {
	return !r.ContextOnly && !r.Synthetic
}

// Builder builds rows and remembers the order of the previous build so ties
// keep their positions between refreshes.
type Builder struct {
	order map[int32]int
}

func NewBuilder() *Builder {
	return &Builder{order: make(map[int32]int)}
}

// Build orders procs according to opts. It does not modify procs.
func (b *Builder) Build(procs map[int32]models.ProcessInfo, opts Options) []Row {
	var rows []Row
	if opts.Tree {
		rows = b.buildTree(procs, opts)
	} else {
		rows = b.buildFlat(procs, opts)
	}

	order := make(map[int32]int, len(rows))
	for i, r := range rows {
		if !r.Synthetic {
			order[r.Info.PID] = i
		}
	}
	b.order = order
	return rows
}

func (b *Builder) buildFlat(procs map[int32]models.ProcessInfo, opts Options) []Row {
	list := make([]models.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if opts.Filter.Match(p) {
			list = append(list, p)
		}
	}
	b.sort(list, opts)

	rows := make([]Row, len(list))
	for i, p := range list {
		rows[i] = Row{Info: p, Last: i == len(list)-1}
	}
	return rows
}

// sort orders list by the option key; ties keep the previous build order,
// then ascending pid.
func (b *Builder) sort(list []models.ProcessInfo, opts Options) {
	sort.SliceStable(list, func(i, j int) bool {
		c := compare(opts.SortKey, list[i], list[j])
		if opts.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		oi, oj := b.prevIndex(list[i].PID), b.prevIndex(list[j].PID)
		if oi != oj {
			return oi < oj
		}
		return list[i].PID < list[j].PID
	})
}

func (b *Builder) prevIndex(pid int32) int {
	if i, ok := b.order[pid]; ok {
		return i
	}
	return math.MaxInt
}

// parentOf returns the pid p hangs under: 0 for a real root, OrphanPID when
// the parent is missing from the table.
func parentOf(p models.ProcessInfo, procs map[int32]models.ProcessInfo) int32 {
	if p.PID == 0 || p.PPID <= 0 || p.PPID == p.PID {
		return 0
	}
	if _, ok := procs[p.PPID]; !ok {
		return OrphanPID
	}
	return p.PPID
}

type node struct {
	info      models.ProcessInfo
	synthetic bool
	children  []*node
}

type treeBuild struct {
	b        *Builder
	opts     Options
	procs    map[int32]models.ProcessInfo
	children map[int32][]models.ProcessInfo
	keep     map[int32]bool
	matched  map[int32]bool
	visited  map[int32]bool
	rows     []Row
}

func (b *Builder) buildTree(procs map[int32]models.ProcessInfo, opts Options) []Row {
	t := &treeBuild{
		b:        b,
		opts:     opts,
		procs:    procs,
		children: make(map[int32][]models.ProcessInfo),
		visited:  make(map[int32]bool, len(procs)),
	}
	t.applyFilter()

	for _, p := range procs {
		if t.kept(p.PID) {
			parent := parentOf(p, procs)
			t.children[parent] = append(t.children[parent], p)
		}
	}
	for parent := range t.children {
		b.sort(t.children[parent], opts)
	}

	var forest []*node
	for _, p := range t.children[0] {
		forest = append(forest, t.place(p, 0))
	}
	if orphan := t.adopt(); orphan != nil {
		forest = append(forest, orphan)
	}

	for i, n := range forest {
		t.emit(n, 0, i == len(forest)-1, nil)
	}
	return t.rows
}

// place builds the subtree under p, marking every placed pid visited.
// Descendants at or below MaxDepth are left unvisited.
func (t *treeBuild) place(p models.ProcessInfo, depth int) *node {
	t.visited[p.PID] = true
	n := &node{info: p}
	if depth+1 >= MaxDepth {
		return n
	}
	for _, k := range t.children[p.PID] {
		if !t.visited[k.PID] {
			n.children = append(n.children, t.place(k, depth+1))
		}
	}
	return n
}

// adopt gathers everything not reachable from a real root under the
// synthetic orphan node: children of missing parents, ppid cycles and nodes
// cut off by the depth cap. It returns nil when there is nothing to adopt.
func (t *treeBuild) adopt() *node {
	orphan := &node{info: models.ProcessInfo{PID: OrphanPID, Name: "orphaned"}, synthetic: true}
	for {
		rest := t.unvisited()
		if len(rest) == 0 {
			break
		}
		pending := make(map[int32]bool, len(rest))
		for _, p := range rest {
			pending[p.PID] = true
		}

		var heads []models.ProcessInfo
		for _, p := range rest {
			if !pending[parentOf(p, t.procs)] {
				heads = append(heads, p)
			}
		}
		if len(heads) == 0 {
			// only cycles remain; break the one with the lowest pid
			heads = rest[:1]
		}
		t.b.sort(heads, t.opts)
		for _, h := range heads {
			orphan.children = append(orphan.children, t.place(h, 1))
		}
	}
	if len(orphan.children) == 0 {
		return nil
	}
	return orphan
}

func (t *treeBuild) emit(n *node, depth int, last bool, guides []bool) {
	row := Row{
		Info:        n.info,
		Depth:       depth,
		Synthetic:   n.synthetic,
		ContextOnly: !n.synthetic && t.matched != nil && !t.matched[n.info.PID],
		HasChildren: len(n.children) > 0,
		Last:        last,
		Guides:      guides,
	}
	row.Collapsed = row.HasChildren && t.collapsed(n.info)
	t.rows = append(t.rows, row)
	if row.Collapsed {
		return
	}

	childGuides := make([]bool, len(guides)+1)
	copy(childGuides, guides)
	childGuides[len(guides)] = !last
	for i, k := range n.children {
		t.emit(k, depth+1, i == len(n.children)-1, childGuides)
	}
}

func (t *treeBuild) unvisited() []models.ProcessInfo {
	var out []models.ProcessInfo
	for pid, p := range t.procs {
		if t.kept(pid) && !t.visited[pid] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

func (t *treeBuild) collapsed(p models.ProcessInfo) bool {
	if t.opts.Filter.Active() {
		return false
	}
	start, ok := t.opts.Collapsed[p.PID]
	return ok && start.Equal(p.StartTime)
}

func (t *treeBuild) kept(pid int32) bool {
	return t.keep == nil || t.keep[pid]
}

// applyFilter computes the matching pids and, for each, its chain of
// ancestors so matches are shown in place.
func (t *treeBuild) applyFilter() {
	if !t.opts.Filter.Active() {
		return
	}
	t.matched = make(map[int32]bool)
	t.keep = make(map[int32]bool)
	for pid, p := range t.procs {
		if !t.opts.Filter.Match(p) {
			continue
		}
		t.matched[pid] = true
		for cur := p; !t.keep[cur.PID]; {
			t.keep[cur.PID] = true
			parent := parentOf(cur, t.procs)
			if parent <= 0 {
				break
			}
			cur = t.procs[parent]
		}
	}
}
