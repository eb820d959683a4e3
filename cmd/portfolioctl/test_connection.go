// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/olegiv/portfolio-go/internal/content"
)

const pingTimeout = 10 * time.Second

var (
	okStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func newTestConnectionCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Check the content store and count documents per collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
			defer cancel()

			out := cmd.OutOrStdout()
			if err := b.store.Ping(ctx); err != nil {
				_, _ = fmt.Fprintln(out, errStyle.Render("Connection failed: "+err.Error()))
				return errors.Wrap(err, "content store is unreachable")
			}
			_, _ = fmt.Fprintln(out, okStyle.Render("Connection OK"))
			_, _ = fmt.Fprintln(out, renderCounts(b.services.Counts(ctx)))
			return nil
		},
	}
}

func renderCounts(counts []content.CollectionCount) string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		documents := strconv.Itoa(c.Count)
		if c.Err != nil {
			documents = "error: " + c.Err.Error()
		}
		rows[i] = []string{string(c.Domain), c.Collection, documents}
	}

	t := table.New().
		Headers("Domain", "Collection", "Documents").
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
