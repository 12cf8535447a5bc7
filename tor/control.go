package tor

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/mkarczewski/keysheet"
)

// DefaultControlAddr is the standard Tor control port.
const DefaultControlAddr = "127.0.0.1:9051"

// controlTimeout bounds one control-port exchange.
const controlTimeout = 10 * time.Second

var _ keysheet.IdentityRotator = (*Controller)(nil)

// Controller requests new Tor circuits over the control port. Each Rotate
// opens a fresh connection, authenticates, and issues SIGNAL NEWNYM.
type Controller struct {
	controlAddr string
	password    string

	mu sync.Mutex // one rotation at a time
}

// NewController creates a Controller for the Tor control port at controlAddr.
// The password may be empty when the control port is unauthenticated.
func NewController(controlAddr, password string) (*Controller, error) {
	if err := validateAddr(controlAddr); err != nil {
		return nil, err
	}
	return &Controller{controlAddr: controlAddr, password: password}, nil
}

// Rotate implements keysheet.IdentityRotator.
func (c *Controller) Rotate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.controlAddr)
	if err != nil {
		return keysheet.Errorf(keysheet.EUNAVAILABLE, "connecting to Tor control port %s: %v", c.controlAddr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(controlTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return keysheet.Errorf(keysheet.EINTERNAL, "setting control deadline: %v", err)
	}

	r := bufio.NewReader(conn)
	if err := c.command(conn, r, fmt.Sprintf("AUTHENTICATE %q", c.password)); err != nil {
		return err
	}
	if err := c.command(conn, r, "SIGNAL NEWNYM"); err != nil {
		return err
	}
	// Best effort; the daemon closes the connection regardless.
	_, _ = fmt.Fprint(conn, "QUIT\r\n")
	return nil
}

// command sends one control command and expects a 250 reply.
func (c *Controller) command(conn net.Conn, r *bufio.Reader, cmd string) error {
	if _, err := fmt.Fprintf(conn, "%s\r\n", cmd); err != nil {
		return keysheet.Errorf(keysheet.EUNAVAILABLE, "writing to Tor control port: %v", err)
	}
	line, err := r.ReadString('\n')
	if err != nil {
		return keysheet.Errorf(keysheet.EUNAVAILABLE, "reading Tor control reply: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "250") {
		verb := strings.Fields(cmd)[0]
		return keysheet.Errorf(keysheet.EUPSTREAM, "Tor control %s failed: %s", verb, line)
	}
	return nil
}
