package config

// Presets hold the experiment setups used throughout the module's
// documentation. Plane and sweep conventions follow the classic
// literature values for each system.
var Presets = map[string]map[string]*Config{
	"lorenz": {
		"classic": {
			System: "lorenz", StepHint: 0.01, Transient: 100.0, Sample: 100.0,
			Plane: PlaneConfig{Coord: "y", Value: 0.0, Direction: "positive"},
			Sweep: SweepConfig{Param: "rho", Min: 0.0, Max: 50.0, Steps: 300, Report: "z"},
		},
		"section": {
			System: "lorenz", StepHint: 0.01, Transient: 10.0, Sample: 90.0,
			Plane: PlaneConfig{Coord: "z", Value: 27.0, Direction: "positive"},
		},
	},
	"rossler": {
		"period-doubling": {
			System: "rossler", StepHint: 0.05, Transient: 200.0, Sample: 100.0,
			Plane: PlaneConfig{Coord: "y", Value: 0.0, Direction: "positive"},
			Sweep: SweepConfig{Param: "c", Min: 2.0, Max: 6.0, Steps: 300, Report: "z"},
		},
		"section": {
			System: "rossler", StepHint: 0.01, Transient: 20.0, Sample: 180.0,
			Plane: PlaneConfig{Coord: "y", Value: 0.0, Direction: "positive"},
		},
	},
	"thomas": {
		"damping-sweep": {
			System: "thomas", StepHint: 0.02, Transient: 200.0, Sample: 200.0,
			Plane: PlaneConfig{Coord: "y", Value: 0.0, Direction: "positive"},
			Sweep: SweepConfig{Param: "b", Min: 0.1, Max: 0.4, Steps: 200, Report: "x"},
		},
	},
	"aizawa": {
		"section": {
			System: "aizawa", StepHint: 0.01, Transient: 50.0, Sample: 150.0,
			Plane: PlaneConfig{Coord: "z", Value: 0.0, Direction: "positive"},
		},
	},
}

func GetPreset(system, name string) *Config {
	group, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}

	// Presets only set what differs from the defaults.
	full := DefaultConfig()
	full.System = cfg.System
	if cfg.StepHint > 0 {
		full.StepHint = cfg.StepHint
	}
	if cfg.Transient > 0 {
		full.Transient = cfg.Transient
	}
	if cfg.Sample > 0 {
		full.Sample = cfg.Sample
	}
	if cfg.Plane.Coord != "" {
		full.Plane = cfg.Plane
	}
	if full.Plane.Direction == "" {
		full.Plane.Direction = "positive"
	}
	if cfg.Sweep.Param != "" {
		full.Sweep = cfg.Sweep
	}
	return full
}

func ListPresets(system string) []string {
	group, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
