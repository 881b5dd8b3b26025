package metrics

// Config holds configuration for the run metrics textfile.
type Config struct {
	// Textfile is where metrics are written after the run, in the node_exporter
	// textfile collector format. Empty disables writing.
	Textfile string `mapstructure:"textfile" default:""`
}
