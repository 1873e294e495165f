package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// EntryKind is the porcelain v2 line shape an entry was read from.
type EntryKind string

const (
	KindOrdinary  EntryKind = "ordinary"
	KindRenamed   EntryKind = "renamed"
	KindCopied    EntryKind = "copied"
	KindUnmerged  EntryKind = "unmerged"
	KindUntracked EntryKind = "untracked"
	KindIgnored   EntryKind = "ignored"
)

// Classification summarizes an entry's index/worktree state pair.
type Classification string

const (
	StatusUnchanged   Classification = "unchanged"
	StatusModified    Classification = "modified"
	StatusTypeChanged Classification = "type_changed"
	StatusAdded       Classification = "added"
	StatusDeleted     Classification = "deleted"
	StatusRenamed     Classification = "renamed"
	StatusCopied      Classification = "copied"
	StatusUnmerged    Classification = "unmerged"
	StatusUntracked   Classification = "untracked"
	StatusIgnored     Classification = "ignored"
)

const (
	ordinaryFields = 9
	renamedFields  = 10
	unmergedFields = 11
)

// StatusEntry is one changed path. OrigPath is set only for renamed and
// copied entries.
type StatusEntry struct {
	Kind      EntryKind      `json:"kind"`
	Status    Classification `json:"status"`
	Index     string         `json:"index,omitempty"`
	Worktree  string         `json:"worktree,omitempty"`
	Submodule string         `json:"submodule,omitempty"`
	Modes     []string       `json:"modes,omitempty"`
	Hashes    []string       `json:"hashes,omitempty"`
	Score     int            `json:"score,omitempty"`
	Path      string         `json:"path"`
	OrigPath  string         `json:"orig_path,omitempty"`
}

type StatusResult struct {
	Headers map[string]string `json:"headers,omitempty"`
	Entries []StatusEntry     `json:"entries"`
}

// NewStatusResult returns a result with no changes.
func NewStatusResult() StatusResult {
	return StatusResult{
		Headers: nil,
		Entries: []StatusEntry{},
	}
}

// IsEmpty reports whether the working tree and index are clean.
func (r StatusResult) IsEmpty() bool {
	return len(r.Entries) == 0
}

// ParseStatus parses `git status --porcelain=v2` output. Blank lines are
// skipped, so input made only of newlines yields an empty result. Any line
// that does not match a porcelain v2 shape fails the whole batch.
func ParseStatus(input string) (StatusResult, error) {
	result := NewStatusResult()

	for i, line := range strings.Split(input, "\n") {
		if line == "" {
			continue
		}

		if key, value, ok := header(line); ok {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			result.Headers[key] = value
			continue
		}

		entry, err := statusEntry(line)
		if err != nil {
			return NewStatusResult(), &ParseError{Format: FormatStatus, Position: i + 1, Err: err}
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

func header(line string) (string, string, bool) {
	rest, ok := strings.CutPrefix(line, "# ")
	if !ok {
		return "", "", false
	}

	key, value, _ := strings.Cut(rest, " ")
	return key, value, true
}

func statusEntry(line string) (StatusEntry, error) {
	if len(line) < 3 || line[1] != ' ' {
		return StatusEntry{}, fmt.Errorf("%w: %q", ErrUnknownLine, abbreviate(line))
	}

	switch line[0] {
	case '1':
		return changedEntry(line)
	case '2':
		return renamedEntry(line)
	case 'u':
		return unmergedEntry(line)
	case '?':
		return bareEntry(KindUntracked, StatusUntracked, line[2:])
	case '!':
		return bareEntry(KindIgnored, StatusIgnored, line[2:])
	}

	return StatusEntry{}, fmt.Errorf("%w: %q", ErrUnknownLine, abbreviate(line))
}

// 1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
func changedEntry(line string) (StatusEntry, error) {
	fields := strings.SplitN(line, " ", ordinaryFields)
	if len(fields) != ordinaryFields {
		return StatusEntry{}, malformed("ordinary", "expected %d fields, got %d", ordinaryFields, len(fields))
	}

	entry := StatusEntry{Kind: KindOrdinary}
	if err := entry.setHead(fields[1], fields[2], fields[3:6], fields[6:8]); err != nil {
		return StatusEntry{}, malformed("ordinary", "%v", err)
	}

	path, err := unquotePath(fields[8])
	if err != nil {
		return StatusEntry{}, malformed("ordinary", "%v", err)
	}
	entry.Path = path
	entry.Status = classify(entry.Index, entry.Worktree)

	return entry, nil
}

// 2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path>\t<origPath>
func renamedEntry(line string) (StatusEntry, error) {
	fields := strings.SplitN(line, " ", renamedFields)
	if len(fields) != renamedFields {
		return StatusEntry{}, malformed("rename", "expected %d fields, got %d", renamedFields, len(fields))
	}

	entry := StatusEntry{}
	if err := entry.setHead(fields[1], fields[2], fields[3:6], fields[6:8]); err != nil {
		return StatusEntry{}, malformed("rename", "%v", err)
	}

	score := fields[8]
	if len(score) < 2 {
		return StatusEntry{}, malformed("rename", "bad score %q", score)
	}
	switch score[0] {
	case 'R':
		entry.Kind, entry.Status = KindRenamed, StatusRenamed
	case 'C':
		entry.Kind, entry.Status = KindCopied, StatusCopied
	default:
		return StatusEntry{}, malformed("rename", "bad score %q", score)
	}
	n, err := strconv.Atoi(score[1:])
	if err != nil || n < 0 || n > 100 {
		return StatusEntry{}, malformed("rename", "bad score %q", score)
	}
	entry.Score = n

	path, orig, ok := strings.Cut(fields[9], "\t")
	if !ok {
		return StatusEntry{}, malformed("rename", "missing origin path")
	}
	if entry.Path, err = unquotePath(path); err != nil {
		return StatusEntry{}, malformed("rename", "%v", err)
	}
	if entry.OrigPath, err = unquotePath(orig); err != nil {
		return StatusEntry{}, malformed("rename", "%v", err)
	}

	return entry, nil
}

// u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
func unmergedEntry(line string) (StatusEntry, error) {
	fields := strings.SplitN(line, " ", unmergedFields)
	if len(fields) != unmergedFields {
		return StatusEntry{}, malformed("unmerged", "expected %d fields, got %d", unmergedFields, len(fields))
	}

	entry := StatusEntry{Kind: KindUnmerged, Status: StatusUnmerged}
	if err := entry.setHead(fields[1], fields[2], fields[3:7], fields[7:10]); err != nil {
		return StatusEntry{}, malformed("unmerged", "%v", err)
	}

	path, err := unquotePath(fields[10])
	if err != nil {
		return StatusEntry{}, malformed("unmerged", "%v", err)
	}
	entry.Path = path

	return entry, nil
}

func bareEntry(kind EntryKind, status Classification, raw string) (StatusEntry, error) {
	path, err := unquotePath(raw)
	if err != nil {
		return StatusEntry{}, malformed(string(kind), "%v", err)
	}

	return StatusEntry{Kind: kind, Status: status, Path: path}, nil
}

func (e *StatusEntry) setHead(xy, sub string, modes, hashes []string) error {
	if len(xy) != 2 || !isStateCode(xy[0]) || !isStateCode(xy[1]) {
		return fmt.Errorf("bad state codes %q", xy)
	}
	if len(sub) != 4 || (sub[0] != 'N' && sub[0] != 'S') {
		return fmt.Errorf("bad submodule state %q", sub)
	}
	if !lo.EveryBy(modes, isFileMode) {
		return fmt.Errorf("bad file modes %v", modes)
	}
	if !lo.EveryBy(hashes, isObjectID) {
		return fmt.Errorf("bad object ids %v", hashes)
	}

	e.Index = xy[:1]
	e.Worktree = xy[1:]
	e.Submodule = sub
	e.Modes = modes
	e.Hashes = hashes

	return nil
}

func classify(index, worktree string) Classification {
	code := index
	if code == "." {
		code = worktree
	}

	switch code {
	case "M":
		return StatusModified
	case "T":
		return StatusTypeChanged
	case "A":
		return StatusAdded
	case "D":
		return StatusDeleted
	case "R":
		return StatusRenamed
	case "C":
		return StatusCopied
	case "U":
		return StatusUnmerged
	}

	return StatusUnchanged
}

func isStateCode(c byte) bool {
	return strings.IndexByte(".MTADRCU", c) >= 0
}

func isFileMode(s string) bool {
	if len(s) != 6 {
		return false
	}

	return lo.EveryBy([]byte(s), func(c byte) bool { return '0' <= c && c <= '7' })
}

// unquotePath undoes git's C-style quoting of unusual path names.
func unquotePath(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty path")
	}
	if !strings.HasPrefix(raw, `"`) {
		return raw, nil
	}

	path, err := strconv.Unquote(raw)
	if err != nil {
		return "", fmt.Errorf("bad quoted path %s: %w", raw, err)
	}

	return path, nil
}

func malformed(shape, format string, args ...any) error {
	return fmt.Errorf("%w: %s entry: %s", ErrMalformedLine, shape, fmt.Sprintf(format, args...))
}
