package chunker

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitBounds(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkLen   int
		maxChunks  int
		snippetLen int
		wantChunks []string
	}{
		{
			name:       "empty text yields no chunks",
			text:       "",
			chunkLen:   10,
			maxChunks:  3,
			snippetLen: 5,
			wantChunks: nil,
		},
		{
			name:       "text shorter than one chunk",
			text:       "short",
			chunkLen:   10,
			maxChunks:  3,
			snippetLen: 5,
			wantChunks: []string{"short"},
		},
		{
			name:       "exact multiple of chunk size",
			text:       "aaaabbbb",
			chunkLen:   4,
			maxChunks:  3,
			snippetLen: 4,
			wantChunks: []string{"aaaa", "bbbb"},
		},
		{
			name:       "trailing remainder kept as final chunk",
			text:       "aaaabbbbcc",
			chunkLen:   4,
			maxChunks:  3,
			snippetLen: 4,
			wantChunks: []string{"aaaa", "bbbb", "cc"},
		},
		{
			name:       "text past max count is dropped not wrapped",
			text:       "aaaabbbbccccdddd",
			chunkLen:   4,
			maxChunks:  2,
			snippetLen: 4,
			wantChunks: []string{"aaaa", "bbbb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := split(tt.text, tt.chunkLen, tt.maxChunks, tt.snippetLen)

			if len(got.Chunks) != len(tt.wantChunks) {
				t.Fatalf("chunk count = %d, want %d", len(got.Chunks), len(tt.wantChunks))
			}
			for i, c := range got.Chunks {
				if c != tt.wantChunks[i] {
					t.Errorf("chunk %d = %q, want %q", i, c, tt.wantChunks[i])
				}
				if len(c) > tt.chunkLen {
					t.Errorf("chunk %d length %d exceeds ceiling %d", i, len(c), tt.chunkLen)
				}
			}

			// Concatenation of kept chunks must be a prefix of the input.
			joined := strings.Join(got.Chunks, "")
			if !strings.HasPrefix(tt.text, joined) {
				t.Errorf("joined chunks %q are not a prefix of input", joined)
			}
		})
	}
}

func TestSplitNeverCutsInsideRune(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"three-byte runes against a misaligned boundary", strings.Repeat("日", 10)},
		{"mixed ascii and multibyte", "ab日cd本ef語" + strings.Repeat("誌", 5)},
		{"four-byte runes", strings.Repeat("\U0001F4DA", 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := split(tt.text, 4, 10, 4)

			for i, c := range got.Chunks {
				if !utf8.ValidString(c) {
					t.Errorf("chunk %d = %q is not valid UTF-8", i, c)
				}
				if len(c) > 4 {
					t.Errorf("chunk %d length %d exceeds ceiling", i, len(c))
				}
			}
			if !utf8.ValidString(got.Snippet) {
				t.Errorf("snippet %q is not valid UTF-8", got.Snippet)
			}
			if joined := strings.Join(got.Chunks, ""); !strings.HasPrefix(tt.text, joined) {
				t.Errorf("joined chunks %q are not a prefix of input", joined)
			}

			// A chunk must survive a JSON round trip byte for byte, or the
			// store would persist a different value than it was given.
			if len(got.Chunks) > 0 {
				encoded, err := json.Marshal(got.Chunks[0])
				if err != nil {
					t.Fatal(err)
				}
				var decoded string
				if err := json.Unmarshal(encoded, &decoded); err != nil {
					t.Fatal(err)
				}
				if decoded != got.Chunks[0] {
					t.Errorf("chunk changed across JSON round trip: %q != %q", decoded, got.Chunks[0])
				}
			}
		})
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		limit int
		want  string
	}{
		{"under limit untouched", "abc", 10, "abc"},
		{"ascii cut at limit", "abcdef", 4, "abcd"},
		{"cut backs up to rune start", "日本語", 4, "日"},
		{"cut lands on rune start", "日本語", 6, "日本"},
		{"zero limit", "日本", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.s, tt.limit); got != tt.want {
				t.Errorf("Clip(%q, %d) = %q, want %q", tt.s, tt.limit, got, tt.want)
			}
		})
	}
}

func TestSplitCeilingAppliedBeforeSnippet(t *testing.T) {
	// 2 chunks of 4 = total ceiling 8; snippet must come from the
	// truncated text, never the original.
	text := "12345678XXXX"
	got := split(text, 4, 2, 10)

	if got.Text != "12345678" {
		t.Fatalf("truncated text = %q, want %q", got.Text, "12345678")
	}
	if got.Snippet != "12345678" {
		t.Errorf("snippet = %q, want prefix of truncated text", got.Snippet)
	}
	if !strings.HasPrefix(got.Text, got.Snippet) {
		t.Errorf("snippet %q is not a prefix of truncated text %q", got.Snippet, got.Text)
	}
}

func TestSplitSnippetLength(t *testing.T) {
	got := split(strings.Repeat("x", 100), 50, 10, 7)
	if len(got.Snippet) != 7 {
		t.Errorf("snippet length = %d, want 7", len(got.Snippet))
	}
}

func TestSplitDefaults(t *testing.T) {
	// A text larger than the total ceiling exercises the real constants.
	text := strings.Repeat("a", MaxTotalLen+100)
	got := Split(text)

	if len(got.Text) != MaxTotalLen {
		t.Errorf("truncated length = %d, want %d", len(got.Text), MaxTotalLen)
	}
	if len(got.Chunks) != MaxTotalLen/MaxChunkLen {
		t.Errorf("chunk count = %d, want %d", len(got.Chunks), MaxTotalLen/MaxChunkLen)
	}
	if len(got.Snippet) != SnippetLen {
		t.Errorf("snippet length = %d, want %d", len(got.Snippet), SnippetLen)
	}
}
