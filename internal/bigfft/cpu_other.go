//go:build !amd64

package bigfft

// CPUFeatures reports the SIMD-relevant capabilities of the host.
// Detection is only wired up on amd64.
type CPUFeatures struct {
	AVX2   bool
	AVX512 bool
	BMI2   bool
	ADX    bool
}

// DetectCPUFeatures reports no features on non-amd64 hosts.
func DetectCPUFeatures() CPUFeatures {
	return CPUFeatures{}
}

func (f CPUFeatures) String() string {
	return "no SIMD features detected"
}
