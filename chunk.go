package docrag

// Chunk is a bounded span of a document's text, the unit of embedding and
// retrieval.
type Chunk struct {
	DocumentID string `json:"documentId"`
	SourceURL  string `json:"sourceUrl"`
	Title      string `json:"title"`

	// Heading is the nearest markdown heading at or before the chunk start.
	Heading string `json:"heading,omitempty"`

	// Position is the chunk's sequence index within its document.
	Position int    `json:"position"`
	Content  string `json:"content"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.SourceURL == "" {
		return Errorf(EINVALID, "chunk source URL required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// Default chunking bounds, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators are tried coarsest first: paragraph, line, sentence, word.
// When none fits, the chunk is cut at the character level.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// Splitter cuts text into overlapping chunks of at most ChunkSize
// characters. Adjacent chunks share exactly Overlap characters, so the
// original text is recovered by concatenating the first chunk with every
// later chunk minus its first Overlap characters.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

// Validate returns ECONFIG if the bounds cannot produce progress.
func (s Splitter) Validate() error {
	if s.ChunkSize <= 0 {
		return Errorf(ECONFIG, "chunk size must be positive, got %d", s.ChunkSize)
	}
	if s.Overlap < 0 {
		return Errorf(ECONFIG, "chunk overlap must not be negative, got %d", s.Overlap)
	}
	if s.Overlap >= s.ChunkSize {
		return Errorf(ECONFIG, "chunk overlap %d must be smaller than chunk size %d", s.Overlap, s.ChunkSize)
	}
	return nil
}

// SplitText returns the chunks of text. Empty text yields no chunks.
func (s Splitter) SplitText(text string) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	spans := s.spans(runes)
	chunks := make([]string, len(spans))
	for i, sp := range spans {
		chunks[i] = string(runes[sp.start:sp.end])
	}
	return chunks, nil
}

// Split chunks a document's content. Each chunk carries the document's
// provenance and the heading it falls under.
func (s Splitter) Split(doc *Document) ([]*Chunk, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(doc.Content)
	spans := s.spans(runes)
	if len(spans) == 0 {
		return nil, nil
	}

	// byteOffsets[i] is the byte offset of rune i.
	byteOffsets := make([]int, 0, len(runes)+1)
	for i := range doc.Content {
		byteOffsets = append(byteOffsets, i)
	}
	byteOffsets = append(byteOffsets, len(doc.Content))

	sections := ExtractSections(doc.Content)

	chunks := make([]*Chunk, len(spans))
	for i, sp := range spans {
		chunks[i] = &Chunk{
			DocumentID: doc.ID,
			SourceURL:  doc.SourceURL,
			Title:      doc.Title,
			Heading:    headingAt(sections, byteOffsets[sp.start]),
			Position:   i,
			Content:    string(runes[sp.start:sp.end]),
		}
	}
	return chunks, nil
}

type span struct{ start, end int }

func (s Splitter) spans(runes []rune) []span {
	var out []span
	start := 0
	for start < len(runes) {
		if len(runes)-start <= s.ChunkSize {
			out = append(out, span{start, len(runes)})
			break
		}
		end := s.cut(runes, start)
		out = append(out, span{start, end})
		start = end - s.Overlap
	}
	return out
}

// cut returns the end of the chunk starting at start. The end is the last
// boundary of the coarsest separator within (start+Overlap, start+ChunkSize],
// which keeps every chunk strictly ahead of the previous one.
func (s Splitter) cut(runes []rune, start int) int {
	lo, hi := start+s.Overlap, start+s.ChunkSize
	for _, sep := range separators {
		for end := hi; end > lo; end-- {
			if end-len(sep) < start {
				break
			}
			if hasSeparatorAt(runes, end, sep) {
				return end
			}
		}
	}
	return hi
}

func hasSeparatorAt(runes []rune, end int, sep []rune) bool {
	tail := runes[end-len(sep) : end]
	for i := range sep {
		if tail[i] != sep[i] {
			return false
		}
	}
	return true
}

func headingAt(sections []Section, offset int) string {
	heading := ""
	for _, sec := range sections {
		if sec.Offset > offset {
			break
		}
		heading = sec.Title
	}
	return heading
}
