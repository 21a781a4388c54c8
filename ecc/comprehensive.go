package ecc

// ComprehensiveCorrection applies all three tiers for maximal protection:
// Classical, then Bridge, then Quantum on encode, and the exact mirror
// order on decode. The nesting is hidden from the caller; the result is
// just another frame.
type ComprehensiveCorrection struct {
	classical *ClassicalCorrection
	bridge    *BridgeCorrection
	quantum   *QuantumCorrection
}

// NewComprehensive builds the default chain: 10% classical redundancy,
// default bridge and quantum parameters.
func NewComprehensive() *ComprehensiveCorrection {
	return &ComprehensiveCorrection{
		classical: NewClassical(10),
		bridge:    NewBridge(),
		quantum:   NewQuantum(),
	}
}

// Encode nests the tiers: quantum(bridge(classical(payload))).
func (c *ComprehensiveCorrection) Encode(data []byte) ([]byte, error) {
	classicalEncoded, err := c.classical.Encode(data)
	if err != nil {
		return nil, err
	}
	bridgeEncoded, err := c.bridge.Encode(classicalEncoded)
	if err != nil {
		return nil, err
	}
	return c.quantum.Encode(bridgeEncoded)
}

// Decode unwraps in reverse order.
func (c *ComprehensiveCorrection) Decode(data []byte) ([]byte, error) {
	quantumDecoded, err := c.quantum.Decode(data)
	if err != nil {
		return nil, err
	}
	bridgeDecoded, err := c.bridge.Decode(quantumDecoded)
	if err != nil {
		return nil, err
	}
	return c.classical.Decode(bridgeDecoded)
}

// HasErrors runs every tier's check against the whole frame, without
// unwrapping layers first: corruption anywhere must be detectable by at
// least one tier's verdict on the full buffer.
func (c *ComprehensiveCorrection) HasErrors(data []byte) bool {
	return c.quantum.HasErrors(data) ||
		c.bridge.HasErrors(data) ||
		c.classical.HasErrors(data)
}

// CorrectionType identifies the tier.
func (c *ComprehensiveCorrection) CorrectionType() CorrectionType {
	return Comprehensive
}
