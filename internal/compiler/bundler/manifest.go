package bundler

import "encoding/json"

// manifestJSON is the on-disk shape of a Manifest: a browser/CLI-facing
// asset map rather than the SourcePath-keyed in-memory form, so paths
// serialize as plain strings.
type manifestJSON struct {
	Chunks      []chunkJSON       `json:"chunks"`
	EntryChunks map[string]string `json:"entryChunks"`
}

type chunkJSON struct {
	Name      string   `json:"name"`
	Files     []string `json:"files"`
	Integrity string   `json:"integrity"`
}

// MarshalJSON renders the manifest in its on-disk form, the one the
// `egh bundle` command writes to its manifest file.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	out := manifestJSON{
		EntryChunks: make(map[string]string, len(m.EntryChunks)),
	}
	for _, c := range m.Chunks {
		files := make([]string, len(c.Files))
		for i, f := range c.Files {
			files[i] = string(f)
		}
		out.Chunks = append(out.Chunks, chunkJSON{Name: c.Name, Files: files, Integrity: c.Integrity})
	}
	for root, chunk := range m.EntryChunks {
		out.EntryChunks[string(root)] = chunk
	}
	return json.Marshal(out)
}
