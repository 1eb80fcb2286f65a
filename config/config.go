package config

// Config bundles the three entrypoint configs so a single JSON file can
// describe a relay, a host, and a client together, e.g. for local
// integration testing.
type Config struct {
	Relay  RelayConfig  `json:"relay"`
	Host   HostConfig   `json:"host"`
	Client ClientConfig `json:"client"`
}

// NewConfig returns a Config with every sub-config at its default.
func NewConfig() *Config {
	return &Config{
		Relay:  DefaultRelayConfig(),
		Host:   DefaultHostConfig(),
		Client: DefaultClientConfig(),
	}
}

// Validate validates every sub-config.
func (c *Config) Validate() error {
	if err := c.Relay.Validate(); err != nil {
		return err
	}
	if err := c.Host.Validate(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return err
	}
	return nil
}
