package userconfig

// Config describes the configuration structure we support.
type Config struct {
	// Default sort key for symbol listings and exports.
	Sort string `koanf:"sort" oneof:"size,name,path" default:"size"`

	// Default sort direction.
	Order string `koanf:"order" oneof:"asc,desc" default:"desc"`

	// Output format used by `linkerland export` when --format is not given.
	ExportFormat string `koanf:"export.format" oneof:"json,csv" default:"json"`

	// How sizes are shown in the browser and summary.
	// "human" uses binary units (KiB, MiB), "hex" prints raw byte counts.
	VizUnits string `koanf:"viz.units" oneof:"human,hex" default:"human"`

	// Number of objects listed by `linkerland summary`.
	SummaryTop int `koanf:"summary.top" default:"10" min:"1"`
}
