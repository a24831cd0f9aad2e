package workflow

// Builder assembles an ordered []ConfiguredStep. It is a thin convenience
// around append; it does not parse manifests or resolve step names (see
// internal/manifest for that).
type Builder struct {
	steps []ConfiguredStep
}

// NewBuilder starts an empty step sequence.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a step with the default policy.
func (b *Builder) Add(step Step) *Builder {
	return b.AddWithPolicy(step, DefaultPolicy())
}

// AddWithPolicy appends a step with an explicit policy.
func (b *Builder) AddWithPolicy(step Step, policy StepPolicy) *Builder {
	b.steps = append(b.steps, NewConfiguredStep(step, policy))
	return b
}

// Build returns the assembled sequence. The returned slice is a copy of
// the builder's internal slice header; the builder may keep being used
// afterward without affecting a previously built result.
func (b *Builder) Build() []ConfiguredStep {
	out := make([]ConfiguredStep, len(b.steps))
	copy(out, b.steps)
	return out
}
