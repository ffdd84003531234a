package memory

// CreateConfig carries the optional parameters of resource creation.
type CreateConfig struct {
	MemType MemoryType
}

// CreateOption configures optional resource-creation parameters.
type CreateOption func(*CreateConfig)

// WithMemoryType selects where the resource's memory lives. The default is
// DeviceLocal.
func WithMemoryType(mt MemoryType) CreateOption {
	return func(c *CreateConfig) {
		c.MemType = mt
	}
}

// ApplyCreateOptions resolves options against the default configuration.
func ApplyCreateOptions(opts ...CreateOption) CreateConfig {
	cfg := CreateConfig{MemType: DeviceLocal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
