package obfuscation

import "testing"

func TestScanCleanSourceIsNotSuspicious(t *testing.T) {
	src := `function enable() {
    this._settings = ExtensionUtils.getSettings();
    this._signalId = global.display.connect('notify::focus-window', this._onFocus.bind(this));
}`
	r := Scan(src)
	if r.Suspicious {
		t.Errorf("Scan() suspicious = true for clean source, indicators = %v", r.Indicators)
	}
}

func TestScanHexIdentifiers(t *testing.T) {
	src := "var _0xa1b2 = 1; var _0xc3d4 = 2; var _0xe5f6 = 3;"
	r := Scan(src)
	if !r.Suspicious {
		t.Fatal("Scan() suspicious = false, want true for repeated _0x identifiers")
	}
	found := false
	for _, ind := range r.Indicators {
		if ind.Category == "hex-identifier" {
			found = true
		}
	}
	if !found {
		t.Errorf("indicators = %v, want hex-identifier", r.Indicators)
	}
}

func TestScanSingleLetterDensity(t *testing.T) {
	src := "let a=1; let b=2; let c=3; let d=4; let e=5; let f=6; let g=7; let h=8;"
	r := Scan(src)
	if !r.Suspicious {
		t.Fatal("Scan() suspicious = false, want true for dense single-letter identifiers")
	}
}

func TestScanPackedLine(t *testing.T) {
	long := make([]byte, 2500)
	for i := range long {
		long[i] = 'x'
	}
	r := Scan(string(long))
	if !r.Suspicious {
		t.Fatal("Scan() suspicious = false, want true for a >2000-char line")
	}
}
