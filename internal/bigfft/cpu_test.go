package bigfft

import "testing"

func TestDetectCPUFeatures(t *testing.T) {
	t.Parallel()
	a := DetectCPUFeatures()
	b := DetectCPUFeatures()
	if a != b {
		t.Errorf("feature detection is not stable: %+v vs %+v", a, b)
	}
	if a.String() == "" {
		t.Errorf("empty feature description")
	}
}
