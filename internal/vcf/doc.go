// Package vcf computes the Volume Correction Factor (VCF) for petroleum
// products using the analytical method of ISO 91-1:2019 Annex B
// (ASTM D1250 / API 2540 Tables 54A, 54B and 54D, metric °C system).
//
// # Method
//
// For a product of density ρ15 (kg/m³ at 15 °C) observed at temperature t (°C):
//
//	ΔT  = t − 15
//	a   = (K0 + K1·ρ15) / ρ15²        (linear segments)
//	a   = A + B / ρ15²                (54B transition band)
//	b   = −a·ΔT·(1 + 0.8·a·ΔT)
//	VCF = exp(b)
//
// # Table selection
//
//	54A                  610.5 ≤ ρ15 ≤  770.0
//	54B Transition band  770.0 < ρ15 ≤  787.5
//	54B Jet/Kerosene     787.5 < ρ15 ≤  838.5
//	54B Residual/Marine  838.5 < ρ15 ≤ 1075.0
//	54D                 1075.0 < ρ15 ≤ 1164.0
//
// Densities outside 610.5–1164.0 kg/m³, or inside a range no segment
// declares, fail with [ErrDensityOutOfRange]. Neighbouring segments are never
// used as a fallback. The factor may step at a segment boundary; this matches
// the printed tables.
//
// # Precision
//
// The whole chain runs in float64. Only the fields of [Result] are rounded
// (ρ15 3dp, t 2dp, ΔT 2dp, a 9dp, b 8dp, VCF 6dp); [Evaluation] carries the
// unrounded values for callers that keep computing with the factor.
//
// Everything in this package is a pure function of its arguments over
// immutable tables and is safe for concurrent use.
package vcf
