package script

import (
	"strings"
	"sync"
	"testing"

	"bridgewright/pkg/export"
	"bridgewright/pkg/staad"
	"bridgewright/pkg/truss"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	cfg, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	def := export.Default()
	if *cfg != def {
		t.Errorf("empty preset should keep defaults, got %+v", cfg)
	}
}

func TestEvaluateBridgePreset(t *testing.T) {
	eng := NewEngine()

	source := `
; A short bowstring crossing in metric units.
(bridge :type :bowstring
        :span 45 :height 7.5 :panels 6
        :units "Meter / kN"
        :chord "W18X35" :diag "L50505"
        :dead 8 :live 60 :wind 2.5
        :self-weight false
        :support-left :pinned :support-right :roller)
`
	cfg, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.Truss.Topology != truss.Bowstring {
		t.Errorf("topology = %v, want Bowstring", cfg.Truss.Topology)
	}
	if cfg.Truss.Span != 45 || cfg.Truss.Height != 7.5 || cfg.Truss.Panels != 6 {
		t.Errorf("truss params = %+v", cfg.Truss)
	}
	if cfg.Units != "Meter / kN" {
		t.Errorf("units = %q", cfg.Units)
	}
	if cfg.ChordSection != "W18X35" || cfg.DiagonalSection != "L50505" {
		t.Errorf("sections = %q / %q", cfg.ChordSection, cfg.DiagonalSection)
	}
	if cfg.DeadLoad != 8 || cfg.LiveLoad != 60 || cfg.WindLoad != 2.5 {
		t.Errorf("loads = %f / %f / %f", cfg.DeadLoad, cfg.LiveLoad, cfg.WindLoad)
	}
	if cfg.SelfWeight {
		t.Error("self-weight should be disabled")
	}
	if cfg.SupportLeft != staad.SupportPinned || cfg.SupportRight != staad.SupportRoller {
		t.Errorf("supports = %v / %v", cfg.SupportLeft, cfg.SupportRight)
	}
}

func TestEvaluatePartialPresetKeepsDefaults(t *testing.T) {
	eng := NewEngine()

	cfg, evalErrs, err := eng.Evaluate(`(bridge :span 200 :panels 10)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}

	def := export.Default()
	if cfg.Truss.Span != 200 || cfg.Truss.Panels != 10 {
		t.Errorf("overridden fields = %+v", cfg.Truss)
	}
	if cfg.Truss.Height != def.Truss.Height {
		t.Errorf("height = %f, want default %f", cfg.Truss.Height, def.Truss.Height)
	}
	if cfg.ChordSection != def.ChordSection || cfg.Units != def.Units {
		t.Errorf("untouched fields changed: %+v", cfg)
	}
}

func TestEvaluateComputedValues(t *testing.T) {
	eng := NewEngine()

	// Presets are real Lisp; arithmetic and variables work.
	source := `
(def spanFeet 130)
(bridge :span spanFeet :height (/ spanFeet 10.0))
`
	cfg, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if cfg.Truss.Span != 130 {
		t.Errorf("span = %f, want 130", cfg.Truss.Span)
	}
	if cfg.Truss.Height != 13 {
		t.Errorf("height = %f, want 13", cfg.Truss.Height)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	cfg, evalErrs, err := eng.Evaluate("(bridge :span 120")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil config on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateBadKeywordValue(t *testing.T) {
	eng := NewEngine()

	cfg, evalErrs, err := eng.Evaluate(`(bridge :type :cantilever)`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil config on bad topology")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for unknown topology")
	}
	if !strings.Contains(evalErrs[0].Message, "cantilever") {
		t.Errorf("error should name the bad topology: %q", evalErrs[0].Message)
	}
}

func TestEvaluateUnknownUnits(t *testing.T) {
	eng := NewEngine()

	cfg, evalErrs, _ := eng.Evaluate(`(bridge :units "Furlongs / Firkin")`)
	if cfg != nil {
		t.Fatal("expected nil config on unknown unit system")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for unknown unit system")
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	eng := NewEngine()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, evalErrs, err := eng.Evaluate(`(bridge :span 120)`)
			if err != nil && !strings.Contains(err.Error(), "superseded") {
				t.Errorf("unexpected fatal error: %v", err)
			}
			if err == nil && len(evalErrs) == 0 && cfg == nil {
				t.Error("successful evaluation returned nil config")
			}
		}()
	}
	wg.Wait()
}

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource(`(bridge :span 120 :self-weight true)`)
	want := `(bridge "__kw_span" 120 "__kw_self-weight" true)`
	if got != want {
		t.Errorf("preprocess = %q, want %q", got, want)
	}
}

func TestPreprocessPreservesStringsAndComments(t *testing.T) {
	got := preprocessSource(`(bridge :units "Feet / Kip") ; :not-a-keyword`)
	if !strings.Contains(got, `"Feet / Kip"`) {
		t.Errorf("string literal mangled: %q", got)
	}
	if !strings.Contains(got, `// :not-a-keyword`) {
		t.Errorf("comment not converted: %q", got)
	}
	if strings.Contains(got, `__kw_not`) {
		t.Errorf("keyword rewritten inside comment: %q", got)
	}
}

func TestPreprocessKebabIdentifiers(t *testing.T) {
	got := preprocessSource(`(def span-feet 120) (- 10 3)`)
	if !strings.Contains(got, "span_feet") {
		t.Errorf("kebab identifier not converted: %q", got)
	}
	if !strings.Contains(got, "(- 10 3)") {
		t.Errorf("minus operator mangled: %q", got)
	}
}

func TestParseZygomysErrorLineExtraction(t *testing.T) {
	errs := parseZygomysError(errString("Error on line 3: unexpected token"))
	if len(errs) != 1 || errs[0].Line != 3 {
		t.Fatalf("errs = %+v, want line 3", errs)
	}
	if errs[0].Message != "unexpected token" {
		t.Errorf("message = %q", errs[0].Message)
	}

	errs = parseZygomysError(errString("something opaque"))
	if len(errs) != 1 || errs[0].Line != 0 {
		t.Fatalf("errs = %+v, want line 0 fallback", errs)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
