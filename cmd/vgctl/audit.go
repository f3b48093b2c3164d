package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	vectorgov "github.com/vectorgov/vectorgov-go"
	"github.com/vectorgov/vectorgov-go/export"
	"github.com/vectorgov/vectorgov-go/mcptools"
)

func auditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the security audit trail of this API key",
	}
	cmd.AddCommand(auditLogsCmd(a), auditStatsCmd(a), auditEventTypesCmd(a))
	return cmd
}

func auditLogsCmd(a *app) *cobra.Command {
	var (
		opts     vectorgov.AuditLogsOptions
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List audit events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			page, err := client.AuditLogs(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := writeXLSX(xlsxPath, func(f *os.File) error {
					return export.WriteAuditXLSX(f, page)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", xlsxPath)
			}
			if a.format == "json" {
				return printJSON(os.Stdout, page)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATA\tSEVERIDADE\tCATEGORIA\tTIPO\tAÇÃO\tENDPOINT")
			for _, log := range page.Logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					log.CreatedAt, log.Severity, log.EventCategory,
					log.EventType, log.ActionTaken, log.Endpoint)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("page %d of %d, %d events total\n", page.Page, page.Pages, page.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Page, "page", "p", 0, "Page number (default 1)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Events per page (1-100, default 50)")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Filter by severity: info, warning, critical")
	cmd.Flags().StringVar(&opts.EventCategory, "category", "", "Filter by category: security, performance, validation")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the page as an XLSX workbook")
	return cmd
}

func auditStatsCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate audit events over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			stats, err := client.AuditStats(cmd.Context(), days)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, stats)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Period in days (1-90, default 30)")
	return cmd
}

func auditEventTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "event-types",
		Short: "List the event types the audit trail records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			types, err := client.AuditEventTypes(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range types {
				fmt.Println(t)
			}
			return nil
		},
	}
}

func serveMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the retrieval endpoints as MCP tools over stdio",
		Long: `serve-mcp speaks the Model Context Protocol on stdin/stdout so
MCP-capable assistants can call vectorgov_search, vectorgov_hybrid and
vectorgov_lookup directly. Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			return mcptools.ServeStdio(client)
		},
	}
}
