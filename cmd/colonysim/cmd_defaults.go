package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/colonysim/internal/params"
)

func newDefaultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "List parameters with their defaults and valid ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
				data, err := params.Defaults().Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			fields := params.Fields()
			if wantJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), fields)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDEFAULT\tRANGE\tDESCRIPTION")
			for _, f := range fields {
				lo, hi := "[", "]"
				if f.MinOpen {
					lo = "("
				}
				if f.MaxOpen {
					hi = ")"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s%s, %s%s\t%s\n", f.Name,
					humanize.Ftoa(f.Default), lo, humanize.Ftoa(f.Min), humanize.Ftoa(f.Max), hi,
					f.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("yaml", false, "Print defaults as a YAML params file")
	return cmd
}
