// Package validator lints a dialogue graph for the defects the engine would only report
// at play time.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/graph"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"   // Playback will halt or skip content
	SeverityWarning Severity = "warning" // Playback works, but probably not as authored
)

// Issue codes not shared with the runtime diagnostics.
const (
	CodeDuplicate    = "duplicate_position"
	CodeDanglingNext = "dangling_next"
	CodeUnreachable  = "unreachable"
)

// Issue is one finding of the linter.
type Issue struct {
	Severity Severity
	Code     string
	Group    int
	Position int
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: group %d position %d: %s (%s)", i.Severity, i.Group, i.Position, i.Message, i.Code)
}

// Report holds the issues found in a graph, ordered by group.
type Report struct {
	Issues []Issue
}

// Errors returns the issues with error severity.
func (r Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the issues with warning severity.
func (r Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Err summarizes the error-severity issues, nil if there are none.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, issue := range errs {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(lines, "\n- "))
}

// Option configures the collection rules used while linting.
type Option = runtime.EngineOption

// Validate checks every group of idx. Choice points are expanded with the same rules the
// engine applies, so options accepts runtime.WithChoiceScanLimit and runtime.WithMaxOffered.
func Validate(idx *graph.Index, opts ...Option) Report {
	eng := runtime.NewEngine(opts...)
	var report Report

	dupes := make(map[int][]graph.Duplicate)
	for _, d := range idx.Duplicates() {
		dupes[d.Group] = append(dupes[d.Group], d)
	}

	for _, group := range idx.Groups() {
		l := &linter{idx: idx, eng: eng, group: group}
		for _, d := range dupes[group] {
			l.add(SeverityWarning, CodeDuplicate, d.Position,
				fmt.Sprintf("defined %d times, the last row wins", d.Count))
		}
		l.run()
		report.Issues = append(report.Issues, l.issues...)
	}
	return report
}

type linter struct {
	idx    *graph.Index
	eng    *runtime.Engine
	group  int
	issues []Issue
}

func (l *linter) add(sev Severity, code string, pos int, msg string) {
	l.issues = append(l.issues, Issue{Severity: sev, Code: code, Group: l.group, Position: pos, Message: msg})
}

// autoPlays reports whether playback walks past row without stopping for the player.
func autoPlays(row domain.DialogueRow) bool {
	return !row.OpensChoice && !row.IsPlayerOption
}

func (l *linter) run() {
	positions := l.idx.Positions(l.group)

	if first, ok := l.idx.FirstPosition(l.group); ok {
		if row, _ := l.idx.Lookup(l.group, first); row.IsPlayerOption {
			l.add(SeverityError, domain.ReasonOptionInAutoPlay, first, "the group starts on a player option")
		}
	}

	for _, pos := range positions {
		row, _ := l.idx.Lookup(l.group, pos)

		if row.OpensChoice {
			if len(l.eng.CollectChoices(l.idx, l.group, pos)) == 0 {
				l.add(SeverityError, domain.ReasonDegenerateChoice, pos, "opens a choice but no player option follows")
			}
			continue
		}

		next, ok := l.idx.Lookup(l.group, row.NextPosition)
		if !ok {
			// 0 is the conventional end of a thread.
			if row.NextPosition != 0 {
				l.add(SeverityWarning, CodeDanglingNext, pos,
					fmt.Sprintf("next position %d does not exist, the thread ends here", row.NextPosition))
			}
			continue
		}
		if next.IsPlayerOption {
			l.add(SeverityError, domain.ReasonOptionInAutoPlay, pos,
				fmt.Sprintf("continues into player option %d", row.NextPosition))
		}
	}

	l.cycles(positions)
	l.reachability()
}

// cycles finds loops made only of rows that play automatically. Each row has at most one
// successor, so following next pointers with a three-color walk finds every loop once.
func (l *linter) cycles(positions []int) {
	const (
		unseen = iota
		onPath
		done
	)
	state := make(map[int]int, len(positions))

	for _, start := range positions {
		var path []int
		pos := start
		for {
			if state[pos] == done {
				break
			}
			if state[pos] == onPath {
				l.add(SeverityError, domain.ReasonCycle, pos,
					fmt.Sprintf("auto-play loops back here (%s)", joinPath(path, pos)))
				break
			}
			row, ok := l.idx.Lookup(l.group, pos)
			if !ok || !autoPlays(row) {
				break
			}
			state[pos] = onPath
			path = append(path, pos)
			pos = row.NextPosition
		}
		for _, p := range path {
			state[p] = done
		}
	}
}

func joinPath(path []int, back int) string {
	var b strings.Builder
	from := 0
	for i, p := range path {
		if p == back {
			from = i
			break
		}
	}
	for _, p := range path[from:] {
		fmt.Fprintf(&b, "%d -> ", p)
	}
	fmt.Fprintf(&b, "%d", back)
	return b.String()
}

// reachability walks every branch from the first position and flags rows no playthrough shows.
func (l *linter) reachability() {
	first, ok := l.idx.FirstPosition(l.group)
	if !ok {
		return
	}

	seen := map[int]bool{}
	queue := []int{first}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		if seen[pos] {
			continue
		}
		row, ok := l.idx.Lookup(l.group, pos)
		if !ok {
			continue
		}
		seen[pos] = true

		if row.OpensChoice {
			queue = append(queue, l.eng.CollectChoices(l.idx, l.group, pos)...)
			continue
		}
		queue = append(queue, row.NextPosition)
	}

	for _, pos := range l.idx.Positions(l.group) {
		if !seen[pos] {
			l.add(SeverityWarning, CodeUnreachable, pos, "no playthrough reaches this row")
		}
	}
}
