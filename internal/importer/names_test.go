package importer

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name         string
		component    string
		kind         NameKind
		windowsLike  bool
		wantChar     rune
		wantReserve  string
		wantRelative string
	}{
		{name: "plain session", component: "edge-router-1", kind: KindSession},
		{name: "plain folder path", component: "Sites/HQ/Routers", kind: KindFolder},
		{name: "pipe in session", component: "a|b", kind: KindSession, wantChar: '|'},
		{name: "colon in session", component: "a:b", kind: KindSession, wantChar: ':'},
		{name: "star in folder", component: "a*b", kind: KindFolder, wantChar: '*'},
		{name: "question mark", component: "what?", kind: KindSession, wantChar: '?'},
		{name: "quote", component: `say "hi"`, kind: KindSession, wantChar: '"'},
		{name: "angle brackets", component: "a<b", kind: KindFolder, wantChar: '<'},
		{name: "slash in session", component: "a/b", kind: KindSession, wantChar: '/'},
		{name: "slash fine in folder", component: "a/b", kind: KindFolder},
		{
			name: "reserved session on windows", component: "con",
			kind: KindSession, windowsLike: true, wantReserve: "CON",
		},
		{
			name: "reserved session off windows", component: "con",
			kind: KindSession, windowsLike: false,
		},
		{
			name: "reserved folder segment", component: "Sites/LPT1/x",
			kind: KindFolder, windowsLike: true, wantReserve: "LPT1",
		},
		{
			name: "reserved only as whole segment", component: "Sites/LPT1backup",
			kind: KindFolder, windowsLike: true,
		},
		{
			name: "com ports reserved", component: "COM9",
			kind: KindSession, windowsLike: true, wantReserve: "COM9",
		},
		{
			name: "mixed case reserved", component: "Nul",
			kind: KindSession, windowsLike: true, wantReserve: "NUL",
		},
		{
			name: "dot-dot session", component: "..",
			kind: KindSession, wantRelative: "..",
		},
		{
			name: "dot-dot folder segment", component: "../outside",
			kind: KindFolder, wantRelative: "..",
		},
		{
			name: "dot segment in folder", component: "a/./b",
			kind: KindFolder, wantRelative: ".",
		},
		{name: "dotfile folder segment fine", component: ".config/hosts", kind: KindFolder},
		{name: "dotted session fine", component: "r1.example.com", kind: KindSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateName(tt.component, tt.kind, tt.windowsLike)
			if tt.wantChar == 0 && tt.wantReserve == "" && tt.wantRelative == "" {
				if got != nil {
					t.Fatalf("ValidateName() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ValidateName() = nil, want violation")
			}
			if got.Char != tt.wantChar {
				t.Errorf("Char = %q, want %q", got.Char, tt.wantChar)
			}
			if got.Reserved != tt.wantReserve {
				t.Errorf("Reserved = %q, want %q", got.Reserved, tt.wantReserve)
			}
			if got.Relative != tt.wantRelative {
				t.Errorf("Relative = %q, want %q", got.Relative, tt.wantRelative)
			}
		})
	}
}

func TestNameViolationReason(t *testing.T) {
	v := ValidateName("a|b", KindSession, false)
	if v == nil {
		t.Fatal("expected violation")
	}
	if reason := v.Reason(); reason.Code != ReasonInvalidNameChar {
		t.Errorf("Code = %s, want %s", reason.Code, ReasonInvalidNameChar)
	}

	v = ValidateName("PRN", KindFolder, true)
	if v == nil {
		t.Fatal("expected violation")
	}
	if reason := v.Reason(); reason.Code != ReasonReservedName {
		t.Errorf("Code = %s, want %s", reason.Code, ReasonReservedName)
	}

	v = ValidateName("../outside", KindFolder, false)
	if v == nil {
		t.Fatal("expected violation")
	}
	if reason := v.Reason(); reason.Code != ReasonRelativePathSegment {
		t.Errorf("Code = %s, want %s", reason.Code, ReasonRelativePathSegment)
	}
}
