// Package mcptools exposes the retrieval endpoints as Model Context
// Protocol tools, so MCP-capable assistants can ground their answers in the
// legal corpus without bespoke glue code. Every tool returns the XML
// knowledge package produced by the payload package.
package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	vectorgov "github.com/vectorgov/vectorgov-go"
	"github.com/vectorgov/vectorgov-go/models"
	"github.com/vectorgov/vectorgov-go/payload"
)

// Retriever is the slice of the SDK client the tools need. *vectorgov.Client
// satisfies it.
type Retriever interface {
	Search(ctx context.Context, query string, opts *vectorgov.SearchOptions) (*models.SearchResult, error)
	Hybrid(ctx context.Context, query string, opts *vectorgov.HybridOptions) (*models.HybridResult, error)
	Lookup(ctx context.Context, reference string, opts *vectorgov.LookupOptions) (*models.LookupResult, error)
	Feedback(ctx context.Context, queryID string, isLike bool) (bool, error)
}

type toolset struct {
	client Retriever
}

// NewServer builds an MCP server with the search, hybrid and lookup tools
// registered.
func NewServer(client Retriever) *server.MCPServer {
	s := server.NewMCPServer("vectorgov", vectorgov.Version,
		server.WithToolCapabilities(false),
	)
	ts := &toolset{client: client}

	s.AddTool(searchTool(), ts.handleSearch)
	s.AddTool(hybridTool(), ts.handleHybrid)
	s.AddTool(lookupTool(), ts.handleLookup)
	s.AddTool(feedbackTool(), ts.handleFeedback)
	return s
}

// ServeStdio runs the MCP server over stdin/stdout until the stream closes.
func ServeStdio(client Retriever) error {
	return server.ServeStdio(NewServer(client))
}

func levelOption() mcp.ToolOption {
	return mcp.WithString("level",
		mcp.Description("Instruction level of the XML package: data (evidence only), instructions (compact rules) or full (complete anti-hallucination contract)."),
		mcp.Enum(payload.LevelData, payload.LevelInstructions, payload.LevelFull),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool("vectorgov_search",
		mcp.WithDescription("Busca semântica na base de legislação de licitações e contratos. Retorna um pacote XML com os dispositivos legais encontrados e as regras de citação."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Pergunta ou tema jurídico, em português."),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Quantidade de dispositivos a retornar (1-50, padrão 5)."),
			mcp.Min(1),
			mcp.Max(50),
		),
		mcp.WithString("mode",
			mcp.Description("Compromisso qualidade/latência da busca."),
			mcp.Enum(string(vectorgov.ModeFast), string(vectorgov.ModeBalanced), string(vectorgov.ModePrecise)),
		),
		mcp.WithBoolean("expand_citations",
			mcp.Description("Expande os trechos citados pelos dispositivos encontrados."),
		),
		levelOption(),
	)
}

func hybridTool() mcp.Tool {
	return mcp.NewTool("vectorgov_hybrid",
		mcp.WithDescription("Busca híbrida: recuperação semântica seguida de expansão pelo grafo de citações entre normas. Use para perguntas que atravessam vários dispositivos."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Pergunta ou tema jurídico, em português."),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Quantidade de sementes da busca (1-20, padrão 8)."),
			mcp.Min(1),
			mcp.Max(20),
		),
		mcp.WithNumber("hops",
			mcp.Description("Profundidade da expansão no grafo (1 ou 2, padrão 2)."),
			mcp.Min(1),
			mcp.Max(2),
		),
		levelOption(),
	)
}

func lookupTool() mcp.Tool {
	return mcp.NewTool("vectorgov_lookup",
		mcp.WithDescription("Resolve uma referência legal textual (ex.: \"art. 33, §2º da lei 14.133\") para o dispositivo exato, com artigo pai e dispositivos irmãos."),
		mcp.WithString("reference",
			mcp.Required(),
			mcp.Description("Referência legal por extenso."),
		),
		levelOption(),
	)
}

func feedbackTool() mcp.Tool {
	return mcp.NewTool("vectorgov_feedback",
		mcp.WithDescription("Registra se a resposta fundamentada numa consulta anterior foi útil. Use o query_id retornado nos metadados da busca."),
		mcp.WithString("query_id",
			mcp.Required(),
			mcp.Description("Identificador da consulta, campo query_id dos metadados."),
		),
		mcp.WithBoolean("is_like",
			mcp.Required(),
			mcp.Description("true se a resposta foi útil, false caso contrário."),
		),
	)
}

func (ts *toolset) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := &vectorgov.SearchOptions{
		TopK:            req.GetInt("top_k", 0),
		Mode:            vectorgov.Mode(req.GetString("mode", "")),
		ExpandCitations: req.GetBool("expand_citations", false),
	}
	result, err := ts.client.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return ts.serialize(req, result)
}

func (ts *toolset) handleHybrid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := &vectorgov.HybridOptions{
		TopK: req.GetInt("top_k", 0),
		Hops: req.GetInt("hops", 0),
	}
	result, err := ts.client.Hybrid(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hybrid search failed: %v", err)), nil
	}
	return ts.serialize(req, result)
}

func (ts *toolset) handleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference, err := req.RequireString("reference")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := ts.client.Lookup(ctx, reference, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return ts.serialize(req, result)
}

func (ts *toolset) handleFeedback(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	queryID, err := req.RequireString("query_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	isLike, err := req.RequireBool("is_like")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := ts.client.Feedback(ctx, queryID, isLike)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("feedback failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError("feedback was not accepted"), nil
	}
	return mcp.NewToolResultText("feedback registrado"), nil
}

// serialize renders any retrieval result as the XML package at the level
// the caller asked for (full when omitted).
func (ts *toolset) serialize(req mcp.CallToolRequest, result models.Result) (*mcp.CallToolResult, error) {
	level := req.GetString("level", payload.LevelFull)
	xml, err := payload.Serialize(result, level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(xml), nil
}
