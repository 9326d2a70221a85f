// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package console_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("Console", func() {
	Describe("module topic routing", func() {
		It("dispatches example commands under the example topic", func() {
			Expect(execute("example get-message")).To(Equal("Message is: Welcome to the Metaverse!"))
			Expect(execute("example set-message Hello again")).To(Equal("Message is: Hello again"))
			Expect(execute("example get-message")).To(Equal("Message is: Hello again"))
		})

		It("lists the regions the module is attached to", func() {
			Expect(execute("example regions")).To(Equal("Regions: Alpha, Beta"))
		})

		It("reports unknown module commands with the available names", func() {
			text := execute("example dance")
			Expect(text).To(ContainSubstring(`Unknown command "dance"`))
			Expect(text).To(ContainSubstring("set-message, get-message, regions"))
		})
	})

	Describe("client arrivals", func() {
		It("greets the client with the current message", func() {
			execute("example set-message Welcome back!")
			text := execute("connect Ruth Resident Beta")
			Expect(text).To(ContainSubstring("Hello! Ruth Resident! Welcome back!"))
			Expect(text).To(ContainSubstring("1 subscribers notified"))
		})
	})

	Describe("script commands", func() {
		It("runs Lua handlers on the root router", func() {
			Expect(execute("shout hello world")).To(Equal("HELLO WORLD"))
		})

		It("shows scripts in help listings", func() {
			Expect(execute("help")).To(ContainSubstring("shout"))
			Expect(execute("help shout")).To(ContainSubstring("Usage: shout <message:string>"))
		})
	})

	Describe("region lifecycle", func() {
		It("stops greeting in removed regions and withdraws the commander on close", func() {
			_, err := env.host.AddScene(env.ctx, "Gamma")
			Expect(err).NotTo(HaveOccurred())
			Expect(execute("example regions")).To(Equal("Regions: Alpha, Beta, Gamma"))

			Expect(env.host.RemoveScene(env.ctx, "Gamma")).To(Succeed())
			Expect(execute("example regions")).To(Equal("Regions: Alpha, Beta"))
			Expect(execute("connect Ruth Resident Gamma")).To(ContainSubstring("no region named Gamma"))
		})
	})

	Describe("observability", func() {
		get := func(path string) (int, string) {
			resp, err := http.Get("http://" + env.server.Addr() + path)
			Expect(err).NotTo(HaveOccurred())
			defer func() { _ = resp.Body.Close() }()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			return resp.StatusCode, string(body)
		}

		It("reports ready once the module has loaded", func() {
			status, body := get("/healthz/readiness")
			Expect(status).To(Equal(http.StatusOK))
			Expect(strings.TrimSpace(body)).To(Equal("ok"))
		})

		It("exports command dispatch and client metrics", func() {
			execute("connect Ruth Resident Alpha")
			execute("example get-message")

			_, body := get("/metrics")
			Expect(body).To(ContainSubstring(`examplemodule_clients_total{region="Alpha"}`))
			Expect(body).To(ContainSubstring(`router="example"`))
			Expect(body).To(ContainSubstring("examplemodule_command_duration_seconds"))
		})
	})

	Describe("REPL", func() {
		It("runs a scripted session until quit", func() {
			var out bytes.Buffer
			in := strings.NewReader("topics\nshout done\nquit\nexample get-message\n")
			Expect(env.console.Run(env.ctx, in, &out)).To(Succeed())
			Expect(out.String()).To(Equal("example\nDONE\nBye.\n"))
		})
	})
})
