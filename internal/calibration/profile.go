package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.yaml.in/yaml/v2"
)

// Profile is a persisted calibration result. The hardware fields guard
// against reusing thresholds tuned on a different machine.
type Profile struct {
	CPUModel  string `yaml:"cpu_model"`
	NumCPU    int    `yaml:"num_cpu"`
	GOARCH    string `yaml:"goarch"`
	GOOS      string `yaml:"goos"`
	GoVersion string `yaml:"go_version"`
	WordSize  int    `yaml:"word_size"`

	// Machine-wide thresholds, used when no range entry matches.
	ParallelThreshold int `yaml:"parallel_threshold"`
	FFTThreshold      int `yaml:"fft_threshold"`
	StrassenThreshold int `yaml:"strassen_threshold"`

	// Per-range refinements keyed on the size of the requested index.
	Ranges []RangeThresholds `yaml:"ranges,omitempty"`

	CalibratedAt    time.Time `yaml:"calibrated_at"`
	CalibrationN    uint64    `yaml:"calibration_n"`
	CalibrationTime string    `yaml:"calibration_time,omitempty"`

	Version int `yaml:"version"`
}

// RangeThresholds refines the thresholds for one band of indices. The
// optimal crossovers shift with operand size, so a profile can hold a
// different tuning per band.
type RangeThresholds struct {
	MinN              uint64  `yaml:"min_n"`
	MaxN              uint64  `yaml:"max_n"`
	FFTThreshold      int     `yaml:"fft_threshold"`
	ParallelThreshold int     `yaml:"parallel_threshold"`
	StrassenThreshold int     `yaml:"strassen_threshold,omitempty"`
	Confidence        float64 `yaml:"confidence"`
	MeasurementCount  int     `yaml:"measurement_count"`
}

const (
	// profileVersion gates compatibility; bump on breaking changes to
	// the profile layout.
	profileVersion = 1

	profileFileName = "calibration.yaml"
)

// defaultRanges are the index bands a fresh profile is seeded with.
var defaultRanges = []struct {
	MinN, MaxN uint64
}{
	{0, 100_000},
	{100_000, 1_000_000},
	{1_000_000, 10_000_000},
	{10_000_000, 100_000_000},
	{100_000_000, ^uint64(0)},
}

// DefaultProfilePath places the profile under the user's config
// directory, falling back to the working directory when none exists.
func DefaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return profileFileName
	}
	return filepath.Join(dir, "fibengine", profileFileName)
}

// NewProfile returns an empty profile stamped with the current hardware.
func NewProfile() *Profile {
	return &Profile{
		CPUModel:     fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU()),
		NumCPU:       runtime.NumCPU(),
		GOARCH:       runtime.GOARCH,
		GOOS:         runtime.GOOS,
		GoVersion:    runtime.Version(),
		WordSize:     wordBits(),
		CalibratedAt: time.Now(),
		Version:      profileVersion,
	}
}

// LoadProfile reads a profile from path, or from the default location
// when path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		path = DefaultProfilePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile to path, or to the default location when path
// is empty. Parent directories are created as needed.
func (p *Profile) Save(path string) error {
	if path == "" {
		path = DefaultProfilePath()
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile was produced on compatible
// hardware: same format version, core count, architecture and word
// size.
func (p *Profile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.Version == profileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == wordBits()
}

// IsStale reports whether the profile is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *Profile) String() string {
	if p == nil {
		return "<nil profile>"
	}

	rangeInfo := ""
	if len(p.Ranges) > 0 {
		rangeInfo = fmt.Sprintf(", ranges: %d", len(p.Ranges))
	}
	return fmt.Sprintf("Profile{cpu: %s, parallel: %d bits, fft: %d bits, strassen: %d bits%s, calibrated: %s}",
		p.CPUModel, p.ParallelThreshold, p.FFTThreshold, p.StrassenThreshold,
		rangeInfo, p.CalibratedAt.Format(time.RFC3339))
}

// ThresholdsFor picks the thresholds for a given index. A range entry
// with confidence >= 0.5 wins; otherwise the machine-wide values apply.
func (p *Profile) ThresholdsFor(n uint64) (fft, parallel, strassen int) {
	if p == nil {
		return 0, 0, 0
	}

	for _, r := range p.Ranges {
		if n >= r.MinN && n <= r.MaxN && r.Confidence >= 0.5 {
			strassen = r.StrassenThreshold
			if strassen == 0 {
				strassen = p.StrassenThreshold
			}
			return r.FFTThreshold, r.ParallelThreshold, strassen
		}
	}
	return p.FFTThreshold, p.ParallelThreshold, p.StrassenThreshold
}

// AddRange merges new measurements into the profile. A range with the
// same bounds is blended with the existing entry, weighted by
// measurement count, so repeated calibrations converge instead of
// oscillating.
func (p *Profile) AddRange(r RangeThresholds) {
	for i, existing := range p.Ranges {
		if existing.MinN != r.MinN || existing.MaxN != r.MaxN {
			continue
		}
		total := existing.MeasurementCount + r.MeasurementCount
		if total > 0 {
			oldW := float64(existing.MeasurementCount) / float64(total)
			newW := float64(r.MeasurementCount) / float64(total)

			p.Ranges[i].FFTThreshold = int(float64(existing.FFTThreshold)*oldW + float64(r.FFTThreshold)*newW)
			p.Ranges[i].ParallelThreshold = int(float64(existing.ParallelThreshold)*oldW + float64(r.ParallelThreshold)*newW)
			p.Ranges[i].Confidence = existing.Confidence*oldW + r.Confidence*newW
			p.Ranges[i].MeasurementCount = total
		}
		return
	}
	p.Ranges = append(p.Ranges, r)
}

// SeedDefaultRanges fills an empty profile with one low-confidence
// entry per band, all carrying the machine-wide thresholds.
func (p *Profile) SeedDefaultRanges() {
	if len(p.Ranges) > 0 {
		return
	}
	for _, band := range defaultRanges {
		p.Ranges = append(p.Ranges, RangeThresholds{
			MinN:              band.MinN,
			MaxN:              band.MaxN,
			FFTThreshold:      p.FFTThreshold,
			ParallelThreshold: p.ParallelThreshold,
			StrassenThreshold: p.StrassenThreshold,
			Confidence:        0.3,
			MeasurementCount:  0,
		})
	}
}

// LoadOrCreateProfile loads the profile at path when it exists and
// matches this hardware; otherwise it returns a fresh one. The boolean
// reports whether a cached profile was used.
func LoadOrCreateProfile(path string) (*Profile, bool) {
	p, err := LoadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// ProfileExists reports whether a profile file is present at path (or
// the default location when path is empty).
func ProfileExists(path string) bool {
	if path == "" {
		path = DefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
