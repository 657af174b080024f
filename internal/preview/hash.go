package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/jonathan/resume-builder/internal/types"
)

type hashedEntry struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type hashedSection struct {
	Kind    types.SectionKind `json:"kind"`
	Title   string            `json:"title"`
	Entries []hashedEntry     `json:"entries"`
}

// ContentHash returns the sha256 of a section's canonical content.
// Position is excluded so moving a section does not invalidate its render.
func ContentHash(section *types.Section) string {
	h := hashedSection{
		Kind:    section.Kind,
		Title:   section.Title,
		Entries: make([]hashedEntry, len(section.Entries)),
	}
	for i, entry := range section.Entries {
		fields := make(map[string]any, len(entry.Fields))
		for name, value := range entry.Fields {
			fields[name] = map[string]any{"type": valueType(value), "value": types.EncodeValue(value)}
		}
		h.Entries[i] = hashedEntry{ID: entry.ID, Fields: fields}
	}

	// encoding/json sorts map keys, which makes the encoding canonical
	data, err := json.Marshal(h)
	if err != nil {
		// unreachable: the encoded tree holds only strings
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func valueType(v types.Value) types.ValueType {
	if v == nil {
		return ""
	}
	return v.Type()
}
