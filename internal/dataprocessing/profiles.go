package dataprocessing

// Ready-made parse options for the well-known tables the trace exporter
// emits. Callers with custom exports can always build TableOptions by hand;
// these cover the profiles the pipeline ships with.

// PPMSettingsOptions parses the processor power-management settings table.
// Setting values are exported as compact hex byte sequences and decoded into
// 0x literals; rows are deduplicated by setting name.
func PPMSettingsOptions() TableOptions {
	return TableOptions{
		KeyColumns: []string{"Setting"},
		Formatters: map[string]CellFormatter{
			"Value": FormatHexByteSequence,
		},
	}
}

// ClockInterruptsOptions parses the per-CPU clock interrupt counts table.
func ClockInterruptsOptions() TableOptions {
	return TableOptions{
		KeyColumns: []string{"CPU"},
	}
}

// ProcessLifetimeOptions parses the process lifetime table. The Process
// column has its trailing PID stripped automatically, so grouping by it
// collapses all instances of one executable.
func ProcessLifetimeOptions() TableOptions {
	return TableOptions{
		KeyColumns: []string{"Process"},
	}
}

// CPULifetimeOptions parses the per-CPU usage lifetime table.
func CPULifetimeOptions() TableOptions {
	return TableOptions{
		KeyColumns: []string{"CPU"},
	}
}

// DefaultProfiles maps well-known table titles to their ready-made options.
// Tables with titles outside this map parse with zero options.
func DefaultProfiles() map[string]TableOptions {
	return map[string]TableOptions{
		"PPM Settings":     PPMSettingsOptions(),
		"Clock Interrupts": ClockInterruptsOptions(),
		"Process Lifetime": ProcessLifetimeOptions(),
		"CPU Lifetime":     CPULifetimeOptions(),
	}
}
