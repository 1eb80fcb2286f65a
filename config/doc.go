// Package config is Project Neon's configuration layer: one struct per
// entrypoint (RelayConfig, HostConfig, ClientConfig), each with a
// Default*Config constructor, JSON (de)serialization, and a Validate
// method. A Config value embeds all three so a single JSON file can
// describe a full local deployment.
package config
