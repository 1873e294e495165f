package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	zeroID = "0000000000000000000000000000000000000000"
	blobA  = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	blobB  = "8baef1b4abc478178b004d62031cf7fe6db6f903"
	blobC  = "ce013625030ba8dba906f756967f9e9ca394464a"
)

func TestParseStatus_Untracked(t *testing.T) {
	t.Parallel()

	result, err := ParseStatus("? new file.txt\n")
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, StatusEntry{Kind: KindUntracked, Status: StatusUntracked, Path: "new file.txt"}, result.Entries[0])
}

func TestParseStatus_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want StatusEntry
	}{
		{
			name: "worktree_modified",
			in:   "1 .M N... 100644 100644 100644 " + blobA + " " + blobA + " src/main.go",
			want: StatusEntry{
				Kind: KindOrdinary, Status: StatusModified, Index: ".", Worktree: "M", Submodule: "N...",
				Modes:  []string{"100644", "100644", "100644"},
				Hashes: []string{blobA, blobA},
				Path:   "src/main.go",
			},
		},
		{
			name: "staged_added",
			in:   "1 A. N... 000000 100644 100644 " + zeroID + " " + blobB + " added.txt",
			want: StatusEntry{
				Kind: KindOrdinary, Status: StatusAdded, Index: "A", Worktree: ".", Submodule: "N...",
				Modes:  []string{"000000", "100644", "100644"},
				Hashes: []string{zeroID, blobB},
				Path:   "added.txt",
			},
		},
		{
			name: "worktree_deleted",
			in:   "1 .D N... 100644 100644 000000 " + blobA + " " + blobA + " gone.txt",
			want: StatusEntry{
				Kind: KindOrdinary, Status: StatusDeleted, Index: ".", Worktree: "D", Submodule: "N...",
				Modes:  []string{"100644", "100644", "000000"},
				Hashes: []string{blobA, blobA},
				Path:   "gone.txt",
			},
		},
		{
			name: "renamed",
			in:   "2 R. N... 100644 100644 100644 " + blobA + " " + blobA + " R100 new name.txt\told name.txt",
			want: StatusEntry{
				Kind: KindRenamed, Status: StatusRenamed, Index: "R", Worktree: ".", Submodule: "N...",
				Modes:  []string{"100644", "100644", "100644"},
				Hashes: []string{blobA, blobA},
				Score:  100,
				Path:   "new name.txt", OrigPath: "old name.txt",
			},
		},
		{
			name: "copied",
			in:   "2 C. N... 100644 100644 100644 " + blobA + " " + blobA + " C75 copy.txt\tsource.txt",
			want: StatusEntry{
				Kind: KindCopied, Status: StatusCopied, Index: "C", Worktree: ".", Submodule: "N...",
				Modes:  []string{"100644", "100644", "100644"},
				Hashes: []string{blobA, blobA},
				Score:  75,
				Path:   "copy.txt", OrigPath: "source.txt",
			},
		},
		{
			name: "unmerged",
			in:   "u UU N... 100644 100644 100644 100644 " + blobA + " " + blobB + " " + blobC + " conflict.txt",
			want: StatusEntry{
				Kind: KindUnmerged, Status: StatusUnmerged, Index: "U", Worktree: "U", Submodule: "N...",
				Modes:  []string{"100644", "100644", "100644", "100644"},
				Hashes: []string{blobA, blobB, blobC},
				Path:   "conflict.txt",
			},
		},
		{
			name: "ignored",
			in:   "! build/",
			want: StatusEntry{Kind: KindIgnored, Status: StatusIgnored, Path: "build/"},
		},
		{
			name: "quoted_path",
			in:   `? "tab\there \303\251.txt"`,
			want: StatusEntry{Kind: KindUntracked, Status: StatusUntracked, Path: "tab\there é.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ParseStatus(tt.in + "\n")
			require.NoError(t, err)
			require.Len(t, result.Entries, 1)
			assert.Equal(t, tt.want, result.Entries[0])
		})
	}
}

func TestParseStatus_Headers(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"# branch.oid " + blobA,
		"# branch.head main",
		"? a.txt",
	}, "\n") + "\n"

	result, err := ParseStatus(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"branch.oid": blobA, "branch.head": "main"}, result.Headers)
	require.Len(t, result.Entries, 1)
}

func TestParseStatus_OnlyNewlines(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "\n", "\n\n"} {
		result, err := ParseStatus(in)
		require.NoError(t, err)
		assert.True(t, result.IsEmpty())
		assert.NotNil(t, result.Entries)
	}
}

func TestParseStatus_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "human_output", in: "On branch main", wantErr: ErrUnknownLine},
		{name: "unknown_marker", in: "x foo", wantErr: ErrUnknownLine},
		{name: "bare_marker", in: "?", wantErr: ErrUnknownLine},
		{name: "missing_path", in: "1 .M N... 100644 100644 100644 " + blobA + " " + blobA, wantErr: ErrMalformedLine},
		{name: "bad_state_code", in: "1 .Z N... 100644 100644 100644 " + blobA + " " + blobA + " a", wantErr: ErrMalformedLine},
		{name: "short_hash", in: "1 .M N... 100644 100644 100644 abcdef0 abcdef0 a", wantErr: ErrMalformedLine},
		{name: "bad_mode", in: "1 .M N... 100644 100648 100644 " + blobA + " " + blobA + " a", wantErr: ErrMalformedLine},
		{name: "rename_without_origin", in: "2 R. N... 100644 100644 100644 " + blobA + " " + blobA + " R100 only.txt", wantErr: ErrMalformedLine},
		{name: "rename_bad_score", in: "2 R. N... 100644 100644 100644 " + blobA + " " + blobA + " X100 a\tb", wantErr: ErrMalformedLine},
		{name: "bad_quoting", in: `? "unterminated`, wantErr: ErrMalformedLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ParseStatus("? ok.txt\n" + tt.in + "\n")
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, result.IsEmpty(), "no partial results on failure")

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, 2, parseErr.Position)
		})
	}
}

func TestParseStatus_Idempotent(t *testing.T) {
	t.Parallel()

	in := "1 .M N... 100644 100644 100644 " + blobA + " " + blobA + " a.txt\n? b.txt\n"

	first, err := ParseStatus(in)
	require.NoError(t, err)
	second, err := ParseStatus(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
