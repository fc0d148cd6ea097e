package entities

// RenderContext describes where a rendered message is headed: the target
// locale plus optional channel and modality. Empty ConnectorType or
// InterfaceType means the caller has no preference beyond the locale.
type RenderContext struct {
	Locale        string
	ConnectorType string
	InterfaceType string
}

// CandidateKeys returns the variant tuples to try for locale, most specific
// first: (locale, connector, interface), (locale, connector, ∅),
// (locale, ∅, interface), (locale, ∅, ∅).
func (c RenderContext) CandidateKeys(locale string) []VariantKey {
	return []VariantKey{
		{Locale: locale, ConnectorType: c.ConnectorType, InterfaceType: c.InterfaceType},
		{Locale: locale, ConnectorType: c.ConnectorType},
		{Locale: locale, InterfaceType: c.InterfaceType},
		{Locale: locale},
	}
}
