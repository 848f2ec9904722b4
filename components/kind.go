package components

import "fmt"

// Kind identifies what an organism is.
type Kind uint8

const (
	KindPlant Kind = iota
	KindPrey
	KindPredator
	KindScavenger
	KindCorpse
)

// LivingKinds lists the four living species in a stable order.
var LivingKinds = [...]Kind{KindPlant, KindPrey, KindPredator, KindScavenger}

var kindNames = [...]string{"plant", "prey", "predator", "scavenger", "corpse"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsAnimal reports whether the kind moves.
func (k Kind) IsAnimal() bool {
	return k == KindPrey || k == KindPredator || k == KindScavenger
}

// ParseKind converts a configuration name to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
