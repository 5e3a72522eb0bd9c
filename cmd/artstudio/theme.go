// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"artstudio/internal/ai"
	"artstudio/internal/theme"
)

// newThemeCmd runs the theme pipeline once and prints the result as JSON.
func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme <description>",
		Short: "Generate a theme from a description",
		Long:  "Generate a portfolio theme from a mood description. Prints the fallback theme when no key is available or the model answer is unusable.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, closeSlot, err := openSlot(cfg)
			if err != nil {
				return err
			}
			defer closeSlot()

			registry, err := newRegistry(cfg)
			if err != nil {
				return err
			}
			gateway := ai.NewGateway(registry, newCredentials(cfg, registry, slot))
			res := theme.NewPipeline(gateway).Generate(cmd.Context(), strings.Join(args, " "))

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"theme":    res.Theme,
				"fallback": res.Fallback(),
				"reason":   res.Reason,
			})
		},
	}
}
