package fibonacci

import (
	"context"
	"testing"
)

func TestDefaultFactoryBuiltins(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	for _, name := range []string{"fast", "matrix", "fft"} {
		calc, err := f.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if calc.Name() == "" {
			t.Errorf("%q: empty calculator name", name)
		}
	}
}

func TestFactoryGetCachesInstances(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	a, _ := f.Get("fast")
	b, _ := f.Get("fast")
	if a != b {
		t.Error("Get should return the cached instance")
	}

	c, _ := f.Create("fast")
	d, _ := f.Create("fast")
	if c == d {
		t.Error("Create should build fresh instances")
	}
}

func TestFactoryUnknownName(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	if _, err := f.Get("nope"); err == nil {
		t.Error("Get of unknown name should fail")
	}
	if _, err := f.Create("nope"); err == nil {
		t.Error("Create of unknown name should fail")
	}
	if f.Has("nope") {
		t.Error("Has of unknown name should be false")
	}
}

func TestFactoryListSorted(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	names := f.List()
	if len(names) < 3 {
		t.Fatalf("List returned %d names, want at least 3", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("List not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestFactoryRegisterReplaces(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	cached, _ := f.Get("fast")

	if err := f.Register("fast", func() coreCalculator { return &FFTDoubling{} }); err != nil {
		t.Fatal(err)
	}
	replaced, _ := f.Get("fast")
	if replaced == cached {
		t.Error("Register should evict the cached instance")
	}
	if replaced.Name() != (&FFTDoubling{}).Name() {
		t.Errorf("replacement not in effect: %q", replaced.Name())
	}
}

func TestFactoryGetAll(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	all := f.GetAll()
	if len(all) != len(f.List()) {
		t.Errorf("GetAll returned %d calculators, List %d", len(all), len(f.List()))
	}

	// The returned map is a copy; mutating it must not affect the factory.
	delete(all, "fast")
	if !f.Has("fast") {
		t.Error("mutating GetAll result leaked into the factory")
	}
}

func TestMustGetPanicsOnUnknown(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustGet of unknown name should panic")
		}
	}()
	NewDefaultFactory().MustGet("missing")
}

func TestGlobalFactoryWorks(t *testing.T) {
	t.Parallel()

	calc, err := GlobalFactory().Get("fast")
	if err != nil {
		t.Fatal(err)
	}
	got, err := calc.Calculate(context.Background(), nil, 0, 30, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Int64() != 832040 {
		t.Errorf("F(30) = %s, want 832040", got)
	}
}
