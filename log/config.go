package log

// FileConfig configures the rotated log file writer.
type FileConfig struct {
	Filename   string `json:"filename" mapstructure:"filename"`
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // megabytes
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // days
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

func (c *FileConfig) applyDefaults() {
	if c.Filename == "" {
		c.Filename = "log/campus.log"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 5
	}
	if c.MaxAge == 0 {
		c.MaxAge = 30
	}
}
