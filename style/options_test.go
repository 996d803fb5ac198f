package style

import (
	"sync"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	dev := DefaultOptions(false)
	if !dev.HasSourceMap || dev.IsMinified || !dev.IsCompressed || !dev.IsPrefixed {
		t.Errorf("unexpected development defaults: %+v", dev)
	}
	prod := DefaultOptions(true)
	if prod.HasSourceMap || !prod.IsMinified || !prod.IsCompressed || !prod.IsPrefixed {
		t.Errorf("unexpected production defaults: %+v", prod)
	}
}

func TestSetGlobalOptions(t *testing.T) {
	t.Cleanup(ResetGlobalOptions)

	SetGlobalOptions(Partial{IsMinified: Bool(true)})
	got := GlobalOptions()
	want := DefaultOptions(false)
	want.IsMinified = true
	if got != want {
		t.Errorf("GlobalOptions() = %+v, want %+v", got, want)
	}

	// untouched fields keep their values
	SetGlobalOptions(Partial{IsPrefixed: Bool(false)})
	got = GlobalOptions()
	if !got.IsMinified || got.IsPrefixed {
		t.Errorf("GlobalOptions() = %+v", got)
	}
}

func TestCoalesce(t *testing.T) {
	t.Cleanup(ResetGlobalOptions)
	ReplaceGlobalOptions(Options{IsCompressed: true})

	got := Coalesce(Partial{IsMinified: Bool(true), IsCompressed: Bool(false)})
	want := Options{IsMinified: true}
	if got != want {
		t.Errorf("Coalesce() = %+v, want %+v", got, want)
	}

	if got := Coalesce(Partial{}); got != (Options{IsCompressed: true}) {
		t.Errorf("Coalesce(empty) = %+v", got)
	}
}

func TestSetGlobalOptions_Concurrent(t *testing.T) {
	t.Cleanup(ResetGlobalOptions)
	ReplaceGlobalOptions(Options{})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			// both fields always change together
			SetGlobalOptions(Partial{IsMinified: Bool(v), IsPrefixed: Bool(v)})
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			o := GlobalOptions()
			if o.IsMinified != o.IsPrefixed {
				t.Errorf("observed partial update: %+v", o)
			}
		}()
	}
	wg.Wait()
}
