// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scene

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// AlertFunc receives alerts sent to a BasicClient.
type AlertFunc func(c *BasicClient, message string, modal bool)

// BasicClient is a Client whose alerts are handed to a callback.
type BasicClient struct {
	id        ulid.ULID
	firstName string
	lastName  string
	addr      string
	alert     AlertFunc
}

// NewBasicClient creates a client. A nil alert drops messages.
func NewBasicClient(firstName, lastName, addr string, alert AlertFunc) *BasicClient {
	return &BasicClient{
		id:        NewID(),
		firstName: firstName,
		lastName:  lastName,
		addr:      addr,
		alert:     alert,
	}
}

// ID returns the client ID.
func (c *BasicClient) ID() ulid.ULID { return c.id }

// FirstName returns the first name.
func (c *BasicClient) FirstName() string { return c.firstName }

// LastName returns the last name.
func (c *BasicClient) LastName() string { return c.lastName }

// Name returns "First Last".
func (c *BasicClient) Name() string {
	return strings.TrimSpace(c.firstName + " " + c.lastName)
}

// RemoteAddr returns the client's remote endpoint.
func (c *BasicClient) RemoteAddr() string { return c.addr }

// SendAlert forwards the alert to the callback.
func (c *BasicClient) SendAlert(message string, modal bool) {
	if c.alert != nil {
		c.alert(c, message, modal)
	}
}
