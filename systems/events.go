package systems

// Events counts what happened during a tick. Systems increment it and the
// simulation drains it into telemetry after every step.
type Events struct {
	Births     [4]int // offspring by living kind
	Deaths     [4]int // corpse conversions by former kind
	Starved    [4]int
	OldAge     [4]int
	Immigrants [4]int

	PlantsRespawned int
	PlantsEaten     int
	PreyKilled      int
	CorpsesEaten    int // by predators and scavengers
	CorpsesDecayed  int

	EnergyGained [4]float32 // intake from food, by consumer kind
}

// Reset zeroes all counters.
func (e *Events) Reset() {
	*e = Events{}
}
