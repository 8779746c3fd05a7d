package service

// ChunkConfig controls how article text is split before embedding.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig returns the standard window settings.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{Size: 1000, Overlap: 200}
}

func (c ChunkConfig) normalized() ChunkConfig {
	out := c
	if out.Size <= 0 {
		out.Size = 1000
	}
	if out.Overlap < 0 {
		out.Overlap = 0
	}
	if out.Overlap >= out.Size {
		out.Overlap = out.Size / 2
	}
	return out
}

// ChunkText splits text into fixed-size rune windows with overlap. The
// split is deterministic so the same article always yields the same chunks.
func ChunkText(text string, cfg ChunkConfig) []string {
	cfg = cfg.normalized()

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= cfg.Size {
		return []string{text}
	}

	step := cfg.Size - cfg.Overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
