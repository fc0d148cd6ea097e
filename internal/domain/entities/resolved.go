package entities

// ResolvedPattern is the outcome of one resolution: the pattern string the
// renderer should format, the variant it was taken from (nil when resolution
// fell back to the raw default text) and whether the label was created by
// this very call.
type ResolvedPattern struct {
	Pattern        string
	Variant        *LocalizedVariant
	FreshlyCreated bool
}
