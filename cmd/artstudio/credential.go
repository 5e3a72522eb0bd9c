// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage the operator AI key shared by every session",
	}
	cmd.AddCommand(newCredentialSetCmd(), newCredentialStatusCmd())
	return cmd
}

func newCredentialSetCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an AI key read from stdin",
		Long:  "Store the AI key read from the first line of stdin in the configured slot. Every session uses it unless a deployment key is set. Use --clear to remove it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if !remove {
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read key from stdin: %w", err)
				}
				value = strings.TrimSpace(line)
				if value == "" {
					return fmt.Errorf("empty key; use --clear to remove the stored key")
				}
			}

			slot, closeSlot, err := openSlot(cfg)
			if err != nil {
				return err
			}
			defer closeSlot()

			registry, err := newRegistry(cfg)
			if err != nil {
				return err
			}
			creds := newCredentials(cfg, registry, slot)
			if err := creds.Store(cmd.Context(), value); err != nil {
				return err
			}
			st := creds.Status(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "present=%v source=%s\n", st.Present, st.Source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "clear", false, "remove the stored key")
	return cmd
}

func newCredentialStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an AI key is available and where it comes from",
		Args:  cobra.NoArgs,
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
			st := newCredentials(cfg, registry, slot).Status(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "present=%v source=%s\n", st.Present, st.Source)
			return nil
		},
	}
}
