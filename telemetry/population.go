package telemetry

import (
	"github.com/pthm-cable/ecosim/components"
)

// PopulationStats holds the current organism counts.
type PopulationStats struct {
	Plants     int
	Prey       int
	Predators  int
	Scavengers int
	Corpses    int
}

// Count returns the count for a kind.
func (p PopulationStats) Count(kind components.Kind) int {
	switch kind {
	case components.KindPlant:
		return p.Plants
	case components.KindPrey:
		return p.Prey
	case components.KindPredator:
		return p.Predators
	case components.KindScavenger:
		return p.Scavengers
	default:
		return p.Corpses
	}
}

// Living returns the number of living organisms.
func (p PopulationStats) Living() int {
	return p.Plants + p.Prey + p.Predators + p.Scavengers
}

// Snapshot is one periodic history record.
type Snapshot struct {
	Tick       int32   `csv:"tick"`
	Time       float64 `csv:"time"`
	Plants     int     `csv:"plants"`
	Prey       int     `csv:"prey"`
	Predators  int     `csv:"predators"`
	Scavengers int     `csv:"scavengers"`
	Corpses    int     `csv:"corpses"`

	TotalEnergy float64 `csv:"total_energy"`

	AvgAgePlant     float64 `csv:"avg_age_plant"`
	AvgAgePrey      float64 `csv:"avg_age_prey"`
	AvgAgePredator  float64 `csv:"avg_age_predator"`
	AvgAgeScavenger float64 `csv:"avg_age_scavenger"`

	AvgSpeedPrey      float64 `csv:"avg_speed_prey"`
	AvgSpeedPredator  float64 `csv:"avg_speed_predator"`
	AvgSpeedScavenger float64 `csv:"avg_speed_scavenger"`

	Sunlight float64 `csv:"sunlight"`
}

// Sample holds raw per-species values gathered from the world.
// Index by components.Kind for the four living kinds.
type Sample struct {
	Ages     [4][]float64
	Speeds   [4][]float64 // genome speed
	Energies [4][]float64
}

// Reset truncates all slices for reuse.
func (s *Sample) Reset() {
	for i := range s.Ages {
		s.Ages[i] = s.Ages[i][:0]
		s.Speeds[i] = s.Speeds[i][:0]
		s.Energies[i] = s.Energies[i][:0]
	}
}

// Add records one living organism.
func (s *Sample) Add(kind components.Kind, age, speed, energy float32) {
	s.Ages[kind] = append(s.Ages[kind], float64(age))
	s.Speeds[kind] = append(s.Speeds[kind], float64(speed))
	s.Energies[kind] = append(s.Energies[kind], float64(energy))
}

// TotalEnergy sums the energy of every sampled organism.
func (s *Sample) TotalEnergy() float64 {
	var total float64
	for _, values := range s.Energies {
		for _, v := range values {
			total += v
		}
	}
	return total
}

// BuildSnapshot aggregates a sample into a history record.
// Averages over empty populations are zero.
func BuildSnapshot(tick int32, simTime float64, pop PopulationStats, sample *Sample, sunlight float32) Snapshot {
	return Snapshot{
		Tick:       tick,
		Time:       simTime,
		Plants:     pop.Plants,
		Prey:       pop.Prey,
		Predators:  pop.Predators,
		Scavengers: pop.Scavengers,
		Corpses:    pop.Corpses,

		TotalEnergy: sample.TotalEnergy(),

		AvgAgePlant:     safeMean(sample.Ages[components.KindPlant]),
		AvgAgePrey:      safeMean(sample.Ages[components.KindPrey]),
		AvgAgePredator:  safeMean(sample.Ages[components.KindPredator]),
		AvgAgeScavenger: safeMean(sample.Ages[components.KindScavenger]),

		AvgSpeedPrey:      safeMean(sample.Speeds[components.KindPrey]),
		AvgSpeedPredator:  safeMean(sample.Speeds[components.KindPredator]),
		AvgSpeedScavenger: safeMean(sample.Speeds[components.KindScavenger]),

		Sunlight: float64(sunlight),
	}
}

// History records snapshots at a fixed interval of simulated time.
type History struct {
	interval float64
	limit    int
	elapsed  float64
	records  []Snapshot
}

// NewHistory creates a history recorder. limit caps the number of retained
// records (oldest dropped first); 0 keeps everything.
func NewHistory(interval float64, limit int) *History {
	return &History{interval: interval, limit: limit}
}

// Advance accumulates dt and reports whether a record is due.
func (h *History) Advance(dt float64) bool {
	h.elapsed += dt
	// Tolerance absorbs float drift from summing non-representable steps.
	if h.elapsed+1e-9 >= h.interval {
		h.elapsed -= h.interval
		if h.elapsed < 0 {
			h.elapsed = 0
		}
		return true
	}
	return false
}

// Record appends a snapshot.
func (h *History) Record(s Snapshot) {
	h.records = append(h.records, s)
	if h.limit > 0 && len(h.records) > h.limit {
		drop := len(h.records) - h.limit
		h.records = append(h.records[:0], h.records[drop:]...)
	}
}

// Records returns all retained snapshots, oldest first.
func (h *History) Records() []Snapshot {
	return h.records
}

// Latest returns the most recent snapshot.
func (h *History) Latest() (Snapshot, bool) {
	if len(h.records) == 0 {
		return Snapshot{}, false
	}
	return h.records[len(h.records)-1], true
}

// Len returns the number of retained snapshots.
func (h *History) Len() int {
	return len(h.records)
}
