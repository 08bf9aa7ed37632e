package testutil

// FixedIDGenerator returns the same run id every time.
//
// Pipelines stamp each run with an id; pinning it keeps JSON output
// byte-identical across test runs so it can be compared against golden
// files.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id. An empty id becomes
// "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// NewID implements pipeline.IDGenerator.
func (g *FixedIDGenerator) NewID() string {
	return g.id
}
