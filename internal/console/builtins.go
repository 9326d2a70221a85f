// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/internal/region"
	"github.com/holomush/examplemodule/internal/scene"
)

// builtinSource tags commands the console registers itself.
const builtinSource = "console"

func (c *Console) builtins() []command.Command {
	return []command.Command{
		{
			Name: "help",
			// Arguments are optional, so none are declared.
			Help:    "help [topic|pattern] [command]: list commands or show usage",
			Handler: c.handleHelp,
			Source:  builtinSource,
		},
		{
			Name:    "topics",
			Help:    "List module command topics",
			Handler: c.handleTopics,
			Source:  builtinSource,
		},
		{
			Name:    "regions",
			Help:    "List hosted regions",
			Handler: c.handleRegions,
			Source:  builtinSource,
		},
		{
			Name: "connect",
			Help: "Simulate a client arriving in a region",
			Args: []command.ArgumentSpec{
				{Name: "first", Description: "client first name"},
				{Name: "last", Description: "client last name"},
				{Name: "region", Description: "region to arrive in"},
			},
			Handler: c.handleConnect,
			Source:  builtinSource,
		},
		{
			Name:    "quit",
			Help:    "Leave the console",
			Handler: c.handleQuit,
			Source:  builtinSource,
		},
	}
}

func (c *Console) handleHelp(_ context.Context, inv *command.Invocation) error {
	topic, name := inv.Arg(0), inv.Arg(1)
	commanders := c.host.Commanders()

	switch {
	case topic == "":
		res := c.root.Help("")
		_, err := fmt.Fprint(inv.Output, res.Output)
		if err != nil {
			return err
		}
		if topics := commanders.Topics(); len(topics) > 0 {
			_, err = fmt.Fprintf(inv.Output, "Topics: %s\n", strings.Join(topics, ", "))
		}
		return err

	case isPattern(topic):
		return c.helpPattern(inv, topic)
	}

	if r, ok := commanders.Commander(topic); ok {
		_, err := fmt.Fprintln(inv.Output, r.Help(name).Text())
		return err
	}

	_, err := fmt.Fprintln(inv.Output, c.root.Help(topic).Text())
	return err
}

func (c *Console) helpPattern(inv *command.Invocation, pattern string) error {
	entries, err := c.root.Match(pattern)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%-28s %s", e.Usage, e.Help))
	}

	commanders := c.host.Commanders()
	for _, topic := range commanders.Topics() {
		r, ok := commanders.Commander(topic)
		if !ok {
			continue
		}
		entries, err := r.Match(pattern)
		if err != nil {
			return err
		}
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("%-28s %s", topic+" "+e.Usage, e.Help))
		}
	}

	if len(lines) == 0 {
		_, err = fmt.Fprintf(inv.Output, "No commands match %q.\n", pattern)
		return err
	}
	_, err = fmt.Fprintln(inv.Output, strings.Join(lines, "\n"))
	return err
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func (c *Console) handleTopics(_ context.Context, inv *command.Invocation) error {
	topics := c.host.Commanders().Topics()
	if len(topics) == 0 {
		_, err := fmt.Fprintln(inv.Output, "No topics.")
		return err
	}
	_, err := fmt.Fprintln(inv.Output, strings.Join(topics, "\n"))
	return err
}

func (c *Console) handleRegions(_ context.Context, inv *command.Invocation) error {
	scenes := c.host.Scenes()
	if len(scenes) == 0 {
		_, err := fmt.Fprintln(inv.Output, "No regions.")
		return err
	}
	for _, s := range scenes {
		if _, err := fmt.Fprintf(inv.Output, "%-20s %s\n", s.Name, s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) handleConnect(ctx context.Context, inv *command.Invocation) error {
	first, last, regionName := inv.Arg(0), inv.Arg(1), inv.Arg(2)
	if first == "" || last == "" || regionName == "" {
		return oops.Code(command.CodeArgumentCount).
			With("command", inv.Name).
			Errorf("usage: connect <first> <last> <region>")
	}

	s, ok := c.host.Scene(regionName)
	if !ok {
		return oops.Code(region.CodeRegionNotFound).
			With("region", regionName).
			Errorf("no region named %s", regionName)
	}

	out := inv.Output
	client := scene.NewBasicClient(first, last, "console", func(cl *scene.BasicClient, message string, modal bool) {
		kind := "alert"
		if modal {
			kind = "modal alert"
		}
		fmt.Fprintf(out, "[%s to %s] %s\n", kind, cl.Name(), message) //nolint:errcheck // buffered invocation output
	})

	delivered := s.Events.NewClient(client)
	if c.onConnect != nil {
		c.onConnect(s.Name)
	}
	c.logger.InfoContext(ctx, "simulated client arrival",
		"client", client.Name(),
		"client_id", client.ID().String(),
		"region", s.Name,
		"subscribers", delivered)

	_, err := fmt.Fprintf(out, "%s arrived in %s (%d subscribers notified)\n", client.Name(), s.Name, delivered)
	return err
}

func (c *Console) handleQuit(_ context.Context, inv *command.Invocation) error {
	c.quit.Store(true)
	_, err := fmt.Fprintln(inv.Output, "Bye.")
	return err
}
