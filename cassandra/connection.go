package cassandra

import (
	"fmt"
	log "log/slog"
	"time"

	"github.com/gocql/gocql"

	"github.com/sharedcode/feedbench"
)

// Config contains configuration for connecting to a Cassandra cluster and the feed keyspace.
type Config struct {
	// ClusterHosts lists contact points for the Cassandra cluster.
	ClusterHosts []string
	// Keyspace holds the feed tables.
	Keyspace string
	// Consistency is the default consistency level for queries.
	Consistency gocql.Consistency
	// ConnectionTimeout is the session connection timeout.
	ConnectionTimeout time.Duration
	// Authenticator is used when the cluster requires authentication.
	Authenticator gocql.Authenticator
	// ReplicationClause defines the keyspace replication (e.g., SimpleStrategy).
	ReplicationClause string
}

// ConfigFrom converts the benchmark configuration section.
func ConfigFrom(c feedbench.CassandraConfig) Config {
	return Config{
		ClusterHosts:      c.ClusterHosts,
		Keyspace:          c.Keyspace,
		ConnectionTimeout: c.ConnectionTimeout,
	}
}

// Connection wraps a Cassandra session and its configuration.
type Connection struct {
	Session *gocql.Session
	Config
}

// OpenConnection opens a session and creates the keyspace and feed tables if missing.
func OpenConnection(config Config) (*Connection, error) {
	if config.Keyspace == "" {
		// default keyspace
		config.Keyspace = "feedbench"
	}
	if config.Consistency == gocql.Any {
		// Defaults to LocalQuorum consistency. You should set it to an appropriate level.
		config.Consistency = gocql.LocalQuorum
	}
	cluster := gocql.NewCluster(config.ClusterHosts...)
	cluster.Consistency = config.Consistency
	if config.ReplicationClause == "" {
		// Specify an appropriate replication feature.
		config.ReplicationClause = "{'class':'SimpleStrategy', 'replication_factor':1}"
	}
	if config.ConnectionTimeout > 0 {
		cluster.ConnectTimeout = config.ConnectionTimeout
	}
	if config.Authenticator != nil {
		cluster.Authenticator = config.Authenticator
		config.Authenticator = nil
	}
	log.Info("Opening cassandra session", "hosts", config.ClusterHosts, "keyspace", config.Keyspace)
	s, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(s, config); err != nil {
		s.Close()
		return nil, err
	}
	return &Connection{Session: s, Config: config}, nil
}

func ensureSchema(s *gocql.Session, config Config) error {
	ks := config.Keyspace
	stmts := []string{
		fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = %s;", ks, config.ReplicationClause),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (user_id bigint, tweet_ts bigint, tweet_id text, tweet_text text, PRIMARY KEY (user_id, tweet_ts, tweet_id)) WITH CLUSTERING ORDER BY (tweet_ts DESC, tweet_id DESC);", ks, tweetsTable),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (user_id bigint, follows_id bigint, PRIMARY KEY (user_id, follows_id));", ks, followsTable),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (follows_id bigint, user_id bigint, PRIMARY KEY (follows_id, user_id));", ks, followersTable),
	}
	for _, stmt := range stmts {
		if err := s.Query(stmt).Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the session.
func (c *Connection) Close() {
	if c == nil || c.Session == nil {
		return
	}
	log.Info("Closing cassandra session", "keyspace", c.Keyspace)
	c.Session.Close()
	c.Session = nil
}
