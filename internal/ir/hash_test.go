package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIR() *IR {
	return &IR{
		Name: "p",
		Nodes: []Node{
			{ID: "a", Kind: KindStart, Edges: []Link{{Target: "b"}}},
			{ID: "b", Kind: KindEnd, Attributes: map[string]any{"owner": "ops", "weight": 2}},
		},
	}
}

func fingerprint(t *testing.T, p Program) string {
	t.Helper()
	fp, err := Fingerprint(p)
	require.NoError(t, err)
	return fp
}

func TestFingerprintDeterminism(t *testing.T) {
	fp1, err := Fingerprint(Aligned{IR: sampleIR()})
	require.NoError(t, err)
	fp2, err := Fingerprint(Aligned{IR: sampleIR()})
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "Fingerprint must be deterministic")
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintDistinguishesContract(t *testing.T) {
	g := sampleIR()
	aligned := fingerprint(t, Aligned{IR: g})
	raw := fingerprint(t, Raw{IR: g})

	assert.NotEqual(t, aligned, raw, "Raw and Aligned shapes must hash differently")
}

func TestFingerprintChangesWithGraph(t *testing.T) {
	g1 := sampleIR()
	g2 := sampleIR()
	g2.Nodes[0].Edges = nil

	assert.NotEqual(t, fingerprint(t, Raw{IR: g1}), fingerprint(t, Raw{IR: g2}))
}

func TestFingerprintIgnoresAttributeOrder(t *testing.T) {
	g1 := sampleIR()
	g2 := sampleIR()
	g2.Nodes[1].Attributes = map[string]any{"weight": 2, "owner": "ops"}

	assert.Equal(t, fingerprint(t, Raw{IR: g1}), fingerprint(t, Raw{IR: g2}))
}

func TestFingerprintRejectsUnencodableAttributes(t *testing.T) {
	g := sampleIR()
	g.Nodes[0].Attributes = map[string]any{"ch": make(chan int)}

	_, err := Fingerprint(Raw{IR: g})
	assert.Error(t, err)
}
