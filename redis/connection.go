package redis

import (
	"crypto/tls"
	"fmt"
	log "log/slog"

	"github.com/redis/go-redis/v9"
)

// Redis configurable options.
type Options struct {
	// Redis server(cluster) address.
	Address string
	// Password required when connecting to the Redis server.
	Password string
	// DB to connect to.
	DB int
	// TLS config.
	TLSConfig *tls.Config
}

// DefaultOptions.
func DefaultOptions() Options {
	return Options{
		Address:  "localhost:6379",
		Password: "", // no password set
		DB:       0,  // use default DB
	}
}

// OptionsFromURL parses a redis:// or rediss:// URL. The URL is otherwise opaque to feedbench.
func OptionsFromURL(url string) (Options, error) {
	o, err := redis.ParseURL(url)
	if err != nil {
		return Options{}, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return Options{
		Address:   o.Addr,
		Password:  o.Password,
		DB:        o.DB,
		TLSConfig: o.TLSConfig,
	}, nil
}

// Connection contains Redis client connection object and the Options used to connect.
type Connection struct {
	Client  *redis.Client
	Options Options
}

// OpenConnection creates a client pool for options. Each adapter owns its own connection.
func OpenConnection(options Options) *Connection {
	log.Info("Opening redis connection", "address", options.Address, "db", options.DB)
	client := redis.NewClient(&redis.Options{
		TLSConfig: options.TLSConfig,
		Addr:      options.Address,
		Password:  options.Password,
		DB:        options.DB})

	return &Connection{
		Client:  client,
		Options: options,
	}
}

// Close the connection if open.
func (c *Connection) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	log.Info("Closing redis connection", "address", c.Options.Address)
	err := c.Client.Close()
	c.Client = nil
	return err
}
