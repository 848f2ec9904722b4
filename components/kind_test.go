package components

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPlant, "plant"},
		{KindPrey, "prey"},
		{KindPredator, "predator"},
		{KindScavenger, "scavenger"},
		{KindCorpse, "corpse"},
		{Kind(9), "kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindPlant, KindPrey, KindPredator, KindScavenger, KindCorpse} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("dragon"); err == nil {
		t.Error("ParseKind(dragon) should fail")
	}
}

func TestIsAnimal(t *testing.T) {
	animals := map[Kind]bool{
		KindPlant:     false,
		KindPrey:      true,
		KindPredator:  true,
		KindScavenger: true,
		KindCorpse:    false,
	}
	for k, want := range animals {
		if got := k.IsAnimal(); got != want {
			t.Errorf("%v.IsAnimal() = %v, want %v", k, got, want)
		}
	}
}
