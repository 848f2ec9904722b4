// Package telemetry provides population statistics, history, bookmarks and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	PlantCount     int `csv:"plants"`
	PreyCount      int `csv:"prey"`
	PredCount      int `csv:"pred"`
	ScavengerCount int `csv:"scavengers"`
	CorpseCount    int `csv:"corpses"`

	// Events during window
	PlantBirths     int `csv:"plant_births"`
	PreyBirths      int `csv:"prey_births"`
	PredBirths      int `csv:"pred_births"`
	ScavengerBirths int `csv:"scavenger_births"`
	PreyDeaths      int `csv:"prey_deaths"`
	PredDeaths      int `csv:"pred_deaths"`
	ScavengerDeaths int `csv:"scavenger_deaths"`
	Starved         int `csv:"starved"`
	OldAge          int `csv:"old_age"`
	Immigrants      int `csv:"immigrants"`
	PlantsRespawned int `csv:"plants_respawned"`

	// Feeding
	PlantsEaten    int     `csv:"plants_eaten"`
	Kills          int     `csv:"kills"`
	CorpsesEaten   int     `csv:"corpses_eaten"`
	CorpsesDecayed int     `csv:"corpses_decayed"`
	KillsPerPred   float64 `csv:"kills_per_pred"`

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`

	ScavengerEnergyMean float64 `csv:"scavenger_energy_mean"`
	PlantEnergyMean     float64 `csv:"plant_energy_mean"`

	TotalEnergy float64 `csv:"total_energy"`
	Sunlight    float64 `csv:"sunlight"`
}

// EnergySummary describes the energy distribution of one species.
type EnergySummary struct {
	Mean          float64
	P10, P50, P90 float64
}

// SummarizeEnergy computes the mean and empirical deciles of values.
// An empty sample summarizes to zeros.
func SummarizeEnergy(values []float64) EnergySummary {
	if len(values) == 0 {
		return EnergySummary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return EnergySummary{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// safeMean returns the mean of values, or 0 for an empty slice.
func safeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("plants", s.PlantCount),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("scavengers", s.ScavengerCount),
		slog.Int("corpses", s.CorpseCount),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("scavenger_births", s.ScavengerBirths),
		slog.Int("kills", s.Kills),
		slog.Int("corpses_eaten", s.CorpsesEaten),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("total_energy", s.TotalEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"plants", s.PlantCount,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"scavengers", s.ScavengerCount,
		"corpses", s.CorpseCount,
		"plant_births", s.PlantBirths,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"scavenger_births", s.ScavengerBirths,
		"prey_deaths", s.PreyDeaths,
		"pred_deaths", s.PredDeaths,
		"scavenger_deaths", s.ScavengerDeaths,
		"starved", s.Starved,
		"old_age", s.OldAge,
		"immigrants", s.Immigrants,
		"plants_respawned", s.PlantsRespawned,
		"plants_eaten", s.PlantsEaten,
		"kills", s.Kills,
		"corpses_eaten", s.CorpsesEaten,
		"corpses_decayed", s.CorpsesDecayed,
		"kills_per_pred", s.KillsPerPred,
		"prey_energy_mean", s.PreyEnergyMean,
		"prey_energy_p50", s.PreyEnergyP50,
		"pred_energy_mean", s.PredEnergyMean,
		"pred_energy_p50", s.PredEnergyP50,
		"scavenger_energy_mean", s.ScavengerEnergyMean,
		"plant_energy_mean", s.PlantEnergyMean,
		"total_energy", s.TotalEnergy,
		"sunlight", s.Sunlight,
	)
}
