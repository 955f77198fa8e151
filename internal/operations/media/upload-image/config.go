package uploadimage

import "time"

type Config struct {
	Timeout  time.Duration
	MaxBytes int64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		MaxBytes: 5 << 20,
	}
}
