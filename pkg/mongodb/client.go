// Package mongodb provides access to the oplog of a MongoDB instance.
package mongodb

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/juju/mgo/v3"
)

const (
	// The replica-set oplog is a capped collection in the local database.
	oplogDatabase   = "local"
	oplogCollection = "oplog.rs"

	defaultDialTimeout = 10 * time.Second
)

// Config describes how to reach and authenticate to a MongoDB instance.
type Config struct {
	// Host is the resolvable hostname of the instance.
	Host string

	// Port is the TCP port the instance listens on.
	Port int

	// Username, Password and AuthDatabase configure authentication. They are
	// only attached to the session when Username is non-empty, so instances
	// with authentication disabled work without credentials.
	Username     string
	Password     string
	AuthDatabase string

	// DialTimeout bounds the initial connection attempt. Zero selects the
	// default of 10 seconds.
	DialTimeout time.Duration
}

// Client provides oplog operations over one MongoDB session.
type Client struct {
	session *mgo.Session
}

// Dial connects to the configured MongoDB instance.
func Dial(cfg Config) (*Client, error) {
	session, err := mgo.DialWithInfo(dialInfo(cfg))
	if err != nil {
		return nil, fmt.Errorf("create a database client: %w", err)
	}
	return &Client{session: session}, nil
}

func dialInfo(cfg Config) *mgo.DialInfo {
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = defaultDialTimeout
	}

	info := &mgo.DialInfo{
		Addrs:   []string{net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))},
		Timeout: timeout,
	}
	if cfg.Username != "" {
		info.Username = cfg.Username
		info.Password = cfg.Password
		info.Source = cfg.AuthDatabase
	}
	return info
}

// Close releases the underlying session.
func (c *Client) Close() {
	c.session.Close()
}

// OplogDocumentCount returns the number of documents currently in the oplog.
// The oplog is capped and concurrently written, so the count is inherently an
// estimate by the time it is used.
func (c *Client) OplogDocumentCount() (uint64, error) {
	n, err := c.oplog().Count()
	if err != nil {
		return 0, fmt.Errorf("oplog query failed: %w", err)
	}
	return uint64(n), nil
}

// Cursor iterates oplog documents. *mgo.Iter satisfies it; so does the
// stream driver's cursor contract.
type Cursor interface {
	Next(result interface{}) bool
	Err() error
	Close() error
}

// OplogCursor returns a cursor over at most limit oplog documents, newest
// first. Callers should Close it when done.
//
// A zero limit yields an already-exhausted cursor: mgo treats Limit(0) as
// "no limit", which is the opposite of what a zero bound means here.
func (c *Client) OplogCursor(limit uint64) Cursor {
	if limit == 0 {
		return emptyCursor{}
	}
	return c.oplog().Find(nil).Sort("-$natural").Limit(int(limit)).Iter()
}

type emptyCursor struct{}

func (emptyCursor) Next(result interface{}) bool { return false }
func (emptyCursor) Err() error                   { return nil }
func (emptyCursor) Close() error                 { return nil }

func (c *Client) oplog() *mgo.Collection {
	return c.session.DB(oplogDatabase).C(oplogCollection)
}
