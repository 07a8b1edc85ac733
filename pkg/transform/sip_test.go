/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package transform

/*****************************************************************************************************************/

import "testing"

/*****************************************************************************************************************/

func TestSIP2DForwardParameters(t *testing.T) {
	sip := SIP2DForwardParameters{
		AOrder: 1,
		BOrder: 1,
		APower: map[string]float64{
			"0_0": 1,
			"1_0": 0,
			"0_1": 0,
		},
		BPower: map[string]float64{
			"0_0": 1,
			"1_0": 0,
			"0_1": 0,
		},
	}

	if sip.AOrder != 1 {
		t.Errorf("AOrder not set correctly")
	}

	if sip.BOrder != 1 {
		t.Errorf("BOrder not set correctly")
	}

	if sip.APower["0_0"] != 1 {
		t.Errorf("APower[0_0] not set correctly")
	}
}

/*****************************************************************************************************************/

func TestSIP2DForwardParametersCorrectZeroOrder(t *testing.T) {
	sip := SIP2DForwardParameters{
		AOrder: 0,
		BOrder: 0,
		APower: map[string]float64{"0_0": 2.5},
		BPower: map[string]float64{"0_0": -1.5},
	}

	du, dv := sip.Correct(100, 200)

	if du != 2.5 || dv != -1.5 {
		t.Errorf("Correct() = (%f, %f); want (2.5, -1.5)", du, dv)
	}
}

/*****************************************************************************************************************/

func TestSIP2DForwardParametersCorrectQuadratic(t *testing.T) {
	sip := SIP2DForwardParameters{
		AOrder: 2,
		APower: map[string]float64{"2_0": 1e-6},
		BOrder: 0,
		BPower: map[string]float64{},
	}

	du, _ := sip.Correct(1000, 0)

	want := 1e-6 * 1000 * 1000

	if du != want {
		t.Errorf("Correct(1000,0).du = %v; want %v", du, want)
	}
}

/*****************************************************************************************************************/

func TestSIP2DForwardParametersCorrectMissingTermIsZero(t *testing.T) {
	sip := SIP2DForwardParameters{AOrder: 2, APower: map[string]float64{}, BOrder: 2, BPower: map[string]float64{}}

	du, dv := sip.Correct(50, 50)

	if du != 0 || dv != 0 {
		t.Errorf("Correct() = (%f, %f); want (0, 0) for an empty coefficient map", du, dv)
	}
}

/*****************************************************************************************************************/

func TestSIP2DInverseParametersCorrect(t *testing.T) {
	sip := SIP2DInverseParameters{
		APOrder: 1,
		APPower: map[string]float64{"1_0": 0.1, "0_1": -0.2},
		BPOrder: 0,
		BPPower: map[string]float64{},
	}

	du, dv := sip.Correct(10, 10)

	if du != -1 {
		t.Errorf("Correct(10,10).du = %v; want -1", du)
	}

	if dv != 0 {
		t.Errorf("Correct(10,10).dv = %v; want 0", dv)
	}
}

/*****************************************************************************************************************/
