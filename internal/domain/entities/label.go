package entities

import "time"

// Identifier names one translatable label within a namespace.
// Key is either caller-supplied (explicit) or derived from the default text.
type Identifier struct {
	Namespace string
	Key       string
}

// VariantKey is the scoping tuple of a localized variant.
// An empty ConnectorType or InterfaceType means the variant applies to all
// channels / all modalities of its locale (least specific).
type VariantKey struct {
	Locale        string
	ConnectorType string
	InterfaceType string
}

// LocalizedVariant holds the wording of a label for one scoping tuple.
// Alternatives is a non-empty ordered list of interchangeable pattern
// strings; one is picked at random per render.
type LocalizedVariant struct {
	VariantKey
	Alternatives []string
	Validated    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Label is the aggregate root owned by the label store. It is created
// lazily on first resolution miss and never deleted automatically.
type Label struct {
	Identifier
	DefaultLocale string
	DefaultText   string
	Variants      []LocalizedVariant
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Variant returns the variant stored at exactly key, or nil.
// At most one variant exists per exact tuple.
func (l *Label) Variant(key VariantKey) *LocalizedVariant {
	for i := range l.Variants {
		if l.Variants[i].VariantKey == key {
			return &l.Variants[i]
		}
	}
	return nil
}
