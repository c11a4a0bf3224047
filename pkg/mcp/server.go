package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/loader"
)

// MCPServer exposes the in-memory PDF cache over the Model Context Protocol.
type MCPServer struct {
	store  *docstore.Store
	loader *loader.Loader
}

// Run starts the MCP server on Stdio. It blocks until stdin closes.
func Run(ctx context.Context, l *loader.Loader) error {
	s := server.NewMCPServer(
		"pdfdesk",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{store: l.Store(), loader: l}

	// --- Resources ---

	s.AddResource(
		mcp.NewResource(
			"pdfdesk://documents",
			"Loaded Documents",
			mcp.WithResourceDescription("Identifiers and sizes of every PDF currently cached in memory"),
			mcp.WithMIMEType("application/json"),
		),
		ms.handleDocumentInventory,
	)

	// --- Tools ---

	s.AddTool(
		mcp.NewTool(
			"load_pdf_from_url",
			mcp.WithDescription("Download a PDF from a URL and cache it in memory. The URL becomes the identifier."),
			mcp.WithString("url", mcp.Required(), mcp.Description("The URL of the PDF to download")),
		),
		ms.handleLoadFromURL,
	)

	s.AddTool(
		mcp.NewTool(
			"load_pdf_from_file",
			mcp.WithDescription("Read a PDF from a local file path and cache it in memory. The path becomes the identifier."),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("The local path of the PDF to read")),
		),
		ms.handleLoadFromFile,
	)

	s.AddTool(
		mcp.NewTool(
			"load_pdf_from_base64",
			mcp.WithDescription("Cache base64-encoded PDF data in memory under a caller-chosen identifier."),
			mcp.WithString("pdf_base64", mcp.Required(), mcp.Description("Base64-encoded PDF bytes")),
			mcp.WithString("identifier", mcp.Required(), mcp.Description("Name to cache the document under")),
		),
		ms.handleLoadFromBase64,
	)

	s.AddTool(
		mcp.NewTool(
			"list_loaded_pdfs",
			mcp.WithDescription("List the identifiers of every cached PDF."),
		),
		ms.handleListLoaded,
	)

	s.AddTool(
		mcp.NewTool(
			"remove_pdf",
			mcp.WithDescription("Remove one cached PDF by identifier."),
			mcp.WithString("identifier", mcp.Required(), mcp.Description("Identifier of the document to remove")),
		),
		ms.handleRemove,
	)

	s.AddTool(
		mcp.NewTool(
			"clear_pdf_cache",
			mcp.WithDescription("Remove every cached PDF from memory."),
		),
		ms.handleClear,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

// --- Resource Handlers ---

func (ms *MCPServer) handleDocumentInventory(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type entry struct {
		Identifier  string `json:"identifier"`
		Base64Bytes int    `json:"base64_bytes"`
	}

	docs := ms.store.Snapshot()
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, entry{Identifier: doc.Identifier, Base64Bytes: len(doc.Data)})
	}

	jsonBytes, err := json.MarshalIndent(map[string]any{
		"count":     len(entries),
		"documents": entries,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inventory: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// --- Tool Handlers ---

func (ms *MCPServer) handleLoadFromURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	url, ok := args["url"].(string)
	if !ok || url == "" {
		return mcp.NewToolResultError("url argument required"), nil
	}

	res := ms.loader.FromURL(ctx, url)
	if res.Err != nil {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(res.Message), nil
}

func (ms *MCPServer) handleLoadFromFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, ok := args["file_path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("file_path argument required"), nil
	}

	res := ms.loader.FromFile(path)
	if res.Err != nil {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(res.Message), nil
}

func (ms *MCPServer) handleLoadFromBase64(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	data, ok := args["pdf_base64"].(string)
	if !ok || data == "" {
		return mcp.NewToolResultError("pdf_base64 argument required"), nil
	}
	identifier, ok := args["identifier"].(string)
	if !ok || identifier == "" {
		return mcp.NewToolResultError("identifier argument required"), nil
	}

	res := ms.loader.FromBase64(data, identifier)
	if res.Err != nil {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(res.Message), nil
}

func (ms *MCPServer) handleListLoaded(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := ms.store.List()
	if len(ids) == 0 {
		return mcp.NewToolResultText("No PDFs are currently loaded."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Loaded PDFs (%d):\n%s", len(ids), strings.Join(ids, "\n"))), nil
}

func (ms *MCPServer) handleRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identifier, ok := args["identifier"].(string)
	if !ok || identifier == "" {
		return mcp.NewToolResultError("identifier argument required"), nil
	}

	if !ms.store.Remove(identifier) {
		msg := fmt.Sprintf("PDF with identifier '%s' not found", identifier)
		if hint := ms.store.Suggest(identifier); hint != "" {
			msg = fmt.Sprintf("%s (did you mean '%s'?)", msg, hint)
		}
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared PDF '%s' from memory", identifier)), nil
}

func (ms *MCPServer) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := ms.store.Clear()
	return mcp.NewToolResultText(fmt.Sprintf("Cleared %d PDF(s) from memory", count)), nil
}
