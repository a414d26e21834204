// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// stargazers is the main package for the stargazers command line tool, a
// small collection of utilities built around a lap timer. It wires the CLI,
// delegates to internal packages, and serves as the entry point.
package main
