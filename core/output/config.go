package output

// Config holds configuration for where diffs are written.
type Config struct {
	// Folder receives the diff file. Empty disables the file sink.
	Folder string `mapstructure:"folder" default:"./diffs"`
	// Console also writes diffs to stdout.
	Console bool `mapstructure:"console" default:"false"`
}
