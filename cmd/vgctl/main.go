// Package main provides vgctl, a command line client for the VectorGov
// legal knowledge retrieval API. It covers the retrieval endpoints, document
// management, the audit trail, XLSX export and an MCP stdio server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vectorgov "github.com/vectorgov/vectorgov-go"
	"github.com/vectorgov/vectorgov-go/internal/config"
	"github.com/vectorgov/vectorgov-go/models"
	"github.com/vectorgov/vectorgov-go/payload"
)

const appName = "vgctl"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the persistent flags shared by every subcommand.
type app struct {
	apiKey     string
	baseURL    string
	configPath string
	logLevel   string
	format     string
	level      string
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Client for the VectorGov legal knowledge API",
		Long: `vgctl talks to the VectorGov legal knowledge retrieval API.

Retrieval results can be printed as the XML knowledge package (ready to
paste into an LLM context), as Markdown for human reading, or as raw JSON.
The API key comes from --api-key, the config file or VECTORGOV_API_KEY.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.apiKey, "api-key", "", "API key (vg_...); defaults to VECTORGOV_API_KEY")
	flags.StringVar(&a.baseURL, "base-url", "", "API base URL override")
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVarP(&a.format, "format", "f", "xml", "Output format: xml, markdown, json")
	flags.StringVar(&a.level, "level", payload.LevelFull, "XML instruction level: data, instructions, full")

	cmd.AddCommand(
		searchCmd(a),
		smartSearchCmd(a),
		hybridCmd(a),
		lookupCmd(a),
		tokensCmd(a),
		feedbackCmd(a),
		documentsCmd(a),
		auditCmd(a),
		serveMCPCmd(a),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, vectorgov.Version)
		},
	}
}

// client builds the SDK client from the persistent flags, the config file
// and the environment, in that order of precedence.
func (a *app) client() (*vectorgov.Client, error) {
	apiKey := a.apiKey
	var opts []vectorgov.Option

	if a.configPath != "" {
		cfg, err := config.LoadFile(a.configPath)
		if err != nil {
			return nil, err
		}
		if apiKey == "" {
			apiKey = cfg.APIKey
		}
		if a.baseURL == "" && cfg.BaseURL != "" {
			opts = append(opts, vectorgov.WithBaseURL(cfg.BaseURL))
		}
	}
	if a.baseURL != "" {
		opts = append(opts, vectorgov.WithBaseURL(a.baseURL))
	}
	return vectorgov.New(apiKey, opts...)
}

// render prints a retrieval result in the selected output format.
func (a *app) render(out *os.File, result models.Result) error {
	switch a.format {
	case "xml":
		text, err := payload.Serialize(result, a.level)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	case "markdown", "md":
		text, err := payload.Markdown(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	case "json":
		return printJSON(out, result)
	default:
		return fmt.Errorf("unknown format %q (use xml, markdown or json)", a.format)
	}
	return nil
}

func printJSON(out *os.File, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
