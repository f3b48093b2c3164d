package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	vectorgov "github.com/vectorgov/vectorgov-go"
	"github.com/vectorgov/vectorgov-go/export"
)

func searchCmd(a *app) *cobra.Command {
	var (
		topK            int
		mode            string
		tipo            string
		ano             int
		orgao           string
		expandCitations bool
		noCache         bool
		xlsxPath        string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Semantic search over the legal corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			opts := &vectorgov.SearchOptions{
				TopK:            topK,
				Mode:            vectorgov.Mode(mode),
				ExpandCitations: expandCitations,
			}
			if noCache {
				opts.UseCache = vectorgov.Bool(false)
			}
			if tipo != "" || ano != 0 || orgao != "" {
				opts.Filters = &vectorgov.Filters{Tipo: tipo, Ano: ano, Orgao: orgao}
			}

			result, err := client.Search(cmd.Context(), strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := writeXLSX(xlsxPath, func(f *os.File) error {
					return export.WriteSearchXLSX(f, result)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", xlsxPath)
			}
			return a.render(os.Stdout, result)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of devices to return (1-50, default 5)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Search mode: fast, balanced, precise")
	cmd.Flags().StringVar(&tipo, "tipo", "", "Filter by document type (LEI, DECRETO, IN, PORTARIA, RESOLUCAO)")
	cmd.Flags().IntVar(&ano, "ano", 0, "Filter by year")
	cmd.Flags().StringVar(&orgao, "orgao", "", "Filter by issuing body")
	cmd.Flags().BoolVar(&expandCitations, "expand-citations", false, "Pull in the provisions cited by the results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the server-side cache")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the result as an XLSX workbook")
	return cmd
}

func smartSearchCmd(a *app) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "smart-search QUERY...",
		Short: "Agentic search: the server re-retrieves until the evidence suffices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			result, err := client.SmartSearch(cmd.Context(), strings.Join(args, " "), !noCache)
			if err != nil {
				return err
			}
			if result.Confianca != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "confiança: %s (tentativas: %d)\n", result.Confianca, result.Tentativas)
			}
			return a.render(os.Stdout, result)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the server-side cache")
	return cmd
}

func hybridCmd(a *app) *cobra.Command {
	var (
		topK        int
		hops        int
		collections []string
		noCache     bool
		xlsxPath    string
	)

	cmd := &cobra.Command{
		Use:   "hybrid QUERY...",
		Short: "Dual-lane search plus citation-graph expansion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			opts := &vectorgov.HybridOptions{TopK: topK, Hops: hops, Collections: collections}
			if noCache {
				opts.UseCache = vectorgov.Bool(false)
			}
			result, err := client.Hybrid(cmd.Context(), strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := writeXLSX(xlsxPath, func(f *os.File) error {
					return export.WriteHybridXLSX(f, result)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", xlsxPath)
			}
			return a.render(os.Stdout, result)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of search seeds (1-20, default 8)")
	cmd.Flags().IntVar(&hops, "hops", 0, "Graph expansion depth, 1 or 2 (default 2)")
	cmd.Flags().StringSliceVar(&collections, "collections", nil, "Collections to search (default leis_v4)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the server-side cache")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the result as an XLSX workbook")
	return cmd
}

func lookupCmd(a *app) *cobra.Command {
	var (
		collection      string
		withoutParent   bool
		withoutSiblings bool
	)

	cmd := &cobra.Command{
		Use:   "lookup REFERENCE...",
		Short: "Resolve a textual legal reference to its exact provision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			result, err := client.Lookup(cmd.Context(), strings.Join(args, " "), &vectorgov.LookupOptions{
				Collection:      collection,
				WithoutParent:   withoutParent,
				WithoutSiblings: withoutSiblings,
			})
			if err != nil {
				return err
			}
			return a.render(os.Stdout, result)
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection to resolve against (default leis_v4)")
	cmd.Flags().BoolVar(&withoutParent, "without-parent", false, "Skip the parent article")
	cmd.Flags().BoolVar(&withoutSiblings, "without-siblings", false, "Skip the sibling provisions")
	return cmd
}

func tokensCmd(a *app) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "tokens QUERY...",
		Short: "Estimate the token cost of the prepared context for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			stats, err := client.EstimateTokens(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, stats)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of devices to include (1-50, default 5)")
	return cmd
}

func feedbackCmd(a *app) *cobra.Command {
	var dislike bool

	cmd := &cobra.Command{
		Use:   "feedback QUERY_ID",
		Short: "Record a like (or, with --dislike, a dislike) for a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ok, err := client.Feedback(cmd.Context(), args[0], !dislike)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("feedback for %s was not accepted", args[0])
			}
			fmt.Println("feedback recorded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dislike, "dislike", false, "Record a dislike instead of a like")
	return cmd
}

func writeXLSX(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
