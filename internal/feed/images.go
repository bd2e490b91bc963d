package feed

const DefaultImage = "https://picsum.photos/seed/project/600/400"

// ImageTable picks a card image from the repository's primary language.
type ImageTable struct {
	Images  map[string]string
	Default string
}

func DefaultImages() ImageTable {
	return ImageTable{
		Images: map[string]string{
			"JavaScript": "https://picsum.photos/seed/javascript/600/400",
			"Java":       "https://picsum.photos/seed/java/600/400",
			"Python":     "https://picsum.photos/seed/python/600/400",
			"TypeScript": "https://picsum.photos/seed/typescript/600/400",
			"HTML":       "https://picsum.photos/seed/html/600/400",
			"CSS":        "https://picsum.photos/seed/css/600/400",
			"React":      "https://picsum.photos/seed/react/600/400",
			"Vue":        "https://picsum.photos/seed/vue/600/400",
			"Angular":    "https://picsum.photos/seed/angular/600/400",
			"Node.js":    "https://picsum.photos/seed/nodejs/600/400",
			"Go":         "https://picsum.photos/seed/golang/600/400",
			"Rust":       "https://picsum.photos/seed/rust/600/400",
			"C++":        "https://picsum.photos/seed/cpp/600/400",
			"C#":         "https://picsum.photos/seed/csharp/600/400",
		},
		Default: DefaultImage,
	}
}

// Lookup matches language exactly as GitHub reports it ("Go", "C++").
func (t ImageTable) Lookup(language string) string {
	if img, ok := t.Images[language]; ok && img != "" {
		return img
	}
	if t.Default == "" {
		return DefaultImage
	}
	return t.Default
}

// Merge returns a copy of t with overrides applied on top.
func (t ImageTable) Merge(overrides map[string]string, def string) ImageTable {
	out := ImageTable{Images: make(map[string]string, len(t.Images)+len(overrides)), Default: t.Default}
	for k, v := range t.Images {
		out.Images[k] = v
	}
	for k, v := range overrides {
		out.Images[k] = v
	}
	if def != "" {
		out.Default = def
	}
	return out
}
