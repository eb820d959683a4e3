// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command portfolioctl runs the one-off operator scripts of the portfolio
// site.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		os.Exit(1)
	}
}
