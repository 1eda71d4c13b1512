// Package protocol speaks the coordinator's line protocol over stdin/stdout.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdrpinto/searchclient"
	"github.com/pdrpinto/searchclient/internal/logging"
)

// ClientName is sent as the first line of every session.
const ClientName = "SearchClient"

// Client writes commands to the coordinator and reads its replies.
type Client struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NewClient wraps the coordinator streams. The level is read from In before
// any plan is sent.
func NewClient(in io.Reader, out io.Writer) *Client {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Client{in: reader, out: bufio.NewWriter(out)}
}

// In returns the buffered coordinator input.
func (c *Client) In() *bufio.Reader { return c.in }

func (c *Client) writeLine(line string) error {
	if _, err := c.out.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write to coordinator: %w", err)
	}
	if err := c.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush to coordinator: %w", err)
	}
	return nil
}

// Greet announces the client name.
func (c *Client) Greet() error {
	return c.writeLine(ClientName)
}

// Comment sends a line the coordinator echoes but does not interpret.
func (c *Client) Comment(text string) error {
	return c.writeLine("#" + text)
}

// SendPlan sends one line per joint action and waits for the coordinator's
// acknowledgement after each. The acknowledgements are returned in order.
func (c *Client) SendPlan(plan []searchclient.JointAction) ([]string, error) {
	acks := make([]string, 0, len(plan))
	for step, joint := range plan {
		if err := c.writeLine(joint.String()); err != nil {
			return acks, err
		}
		ack, err := c.in.ReadString('\n')
		if err != nil && (err != io.EOF || ack == "") {
			return acks, fmt.Errorf("failed to read acknowledgement for step %d: %w", step, err)
		}
		ack = strings.TrimRight(ack, "\r\n")
		if strings.Contains(ack, "false") {
			logging.Warn().
				Add(logging.Component("protocol")).
				Add(logging.Int("step", step)).
				Add(logging.Str("action", joint.String())).
				Add(logging.Str("ack", ack)).
				Msg("coordinator rejected joint action")
		}
		acks = append(acks, ack)
	}
	return acks, nil
}
