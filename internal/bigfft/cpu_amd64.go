//go:build amd64

package bigfft

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures reports the SIMD-relevant capabilities of the host,
// surfaced by the diagnostics output. The arithmetic kernels themselves
// go through math/big, which picks its own assembly paths.
type CPUFeatures struct {
	AVX2   bool
	AVX512 bool
	BMI2   bool
	ADX    bool
}

// DetectCPUFeatures queries the host CPU. AVX512 requires both the
// foundation and double/quadword subsets used by wide arithmetic.
func DetectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		AVX2:   cpu.X86.HasAVX2,
		AVX512: cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ,
		BMI2:   cpu.X86.HasBMI2,
		ADX:    cpu.X86.HasADX,
	}
}

func (f CPUFeatures) String() string {
	var features []string
	if f.AVX512 {
		features = append(features, "AVX-512")
	}
	if f.AVX2 {
		features = append(features, "AVX2")
	}
	if f.BMI2 {
		features = append(features, "BMI2")
	}
	if f.ADX {
		features = append(features, "ADX")
	}
	if len(features) == 0 {
		return "no SIMD features detected"
	}
	return strings.Join(features, ", ")
}
