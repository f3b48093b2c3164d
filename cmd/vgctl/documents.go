package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

func documentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Manage the documents of the knowledge base",
	}
	cmd.AddCommand(
		documentsListCmd(a),
		documentsGetCmd(a),
		documentsUploadCmd(a),
		documentsStatusCmd(a),
		documentsDeleteCmd(a),
	)
	return cmd
}

func documentsListCmd(a *app) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			result, err := client.ListDocuments(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if a.format == "json" {
				return printJSON(os.Stdout, result)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOCUMENT ID\tTIPO\tNUMERO\tANO\tCHUNKS\tENRIQUECIDO")
			for _, doc := range result.Documents {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0f%%\n",
					doc.DocumentID, doc.TipoDocumento, doc.Numero, doc.Ano,
					doc.ChunksCount, doc.EnrichmentProgress()*100)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("page %d of %d, %d documents total\n", result.Page, result.Pages, result.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number (default 1)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Documents per page (1-100, default 50)")
	return cmd
}

func documentsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get DOCUMENT_ID",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			doc, err := client.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, doc)
		},
	}
}

func documentsUploadCmd(a *app) *cobra.Command {
	var meta vectorgov.UploadMetadata

	cmd := &cobra.Command{
		Use:   "upload FILE.pdf",
		Short: "Upload a PDF for ingestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			receipt, err := client.UploadDocument(cmd.Context(), args[0], meta)
			if err != nil {
				return err
			}
			fmt.Printf("accepted: document %s, task %s\n", receipt.DocumentID, receipt.TaskID)
			fmt.Printf("follow with: %s documents status %s\n", appName, receipt.TaskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&meta.TipoDocumento, "tipo", "", "Document type: LEI, DECRETO, IN, PORTARIA, RESOLUCAO")
	cmd.Flags().StringVar(&meta.Numero, "numero", "", "Document number")
	cmd.Flags().IntVar(&meta.Ano, "ano", 0, "Publication year")
	_ = cmd.MarkFlagRequired("tipo")
	_ = cmd.MarkFlagRequired("numero")
	_ = cmd.MarkFlagRequired("ano")
	return cmd
}

func documentsStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK_ID",
		Short: "Show ingestion progress for an upload task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			status, err := client.IngestStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s (%d%%)", status.TaskID, status.Status, status.Progress)
			if status.Message != "" {
				fmt.Printf(" - %s", status.Message)
			}
			fmt.Println()
			return nil
		},
	}
}

func documentsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete DOCUMENT_ID",
		Short: "Delete a document and all its chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting %s removes every chunk of the document; re-run with --yes to confirm", args[0])
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			receipt, err := client.DeleteDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !receipt.Success {
				return fmt.Errorf("delete refused: %s", receipt.Message)
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}
