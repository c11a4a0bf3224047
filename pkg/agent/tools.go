package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/duynguyendang/pdfdesk/pkg/loader"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

// Capability names. This is a closed set: the model can invoke exactly these
// operations and nothing else.
const (
	ToolLoadFromURL    = "load_pdf_from_url"
	ToolLoadFromFile   = "load_pdf_from_file"
	ToolLoadFromBase64 = "load_pdf_from_base64"
	ToolListLoaded     = "list_loaded_pdfs"
	ToolClearCache     = "clear_pdf_cache"
)

// Capabilities is the capability table handed to the model on every call.
// Every invocation resolves to a textual outcome; failures surface as text
// because the consumer is the model, not Go code.
type Capabilities struct {
	loader *loader.Loader
}

// NewCapabilities builds the table over a loader.
func NewCapabilities(l *loader.Loader) *Capabilities {
	return &Capabilities{loader: l}
}

// Specs returns the tool specifications in a fixed order.
func (c *Capabilities) Specs() []models.ToolSpec {
	return []models.ToolSpec{
		{
			Name:        ToolLoadFromURL,
			Description: "Load a PDF document from a URL for analysis. Downloads and caches the PDF so it can be analyzed without re-downloading.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Public URL pointing to the PDF document.",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        ToolLoadFromFile,
			Description: "Load a PDF document from a local file for analysis. Reads and caches the PDF.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "Path to the local PDF file.",
					},
				},
				"required": []string{"file_path"},
			},
		},
		{
			Name:        ToolLoadFromBase64,
			Description: "Load a PDF document from base64-encoded data for analysis. Useful when receiving PDFs from APIs or databases.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pdf_base64": map[string]any{
						"type":        "string",
						"description": "Base64-encoded PDF content.",
					},
					"identifier": map[string]any{
						"type":        "string",
						"description": "Name to identify this PDF in later requests.",
					},
				},
				"required": []string{"pdf_base64", "identifier"},
			},
		},
		{
			Name:        ToolListLoaded,
			Description: "List all currently loaded PDFs and their identifiers.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        ToolClearCache,
			Description: "Clear all loaded PDFs from memory to free up resources.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Invoke dispatches one capability invocation and returns its textual
// outcome, with a flag marking model-visible failures.
func (c *Capabilities) Invoke(ctx context.Context, name string, input map[string]any) (string, bool) {
	switch name {
	case ToolLoadFromURL:
		url, ok := stringArg(input, "url")
		if !ok {
			return "Failed to load PDF: the 'url' argument is required", true
		}
		res := c.loader.FromURL(ctx, url)
		return res.Message, res.Err != nil

	case ToolLoadFromFile:
		path, ok := stringArg(input, "file_path")
		if !ok {
			return "Failed to load PDF: the 'file_path' argument is required", true
		}
		res := c.loader.FromFile(path)
		return res.Message, res.Err != nil

	case ToolLoadFromBase64:
		data, ok := stringArg(input, "pdf_base64")
		if !ok {
			return "Failed to load PDF: the 'pdf_base64' argument is required", true
		}
		identifier, _ := stringArg(input, "identifier")
		res := c.loader.FromBase64(data, identifier)
		return res.Message, res.Err != nil

	case ToolListLoaded:
		ids := c.loader.Store().List()
		if len(ids) == 0 {
			return "No PDFs currently loaded. Use load_pdf_from_url or load_pdf_from_file to load a PDF.", false
		}
		var sb strings.Builder
		sb.WriteString("Currently loaded PDFs:\n")
		for _, id := range ids {
			sb.WriteString("  - ")
			sb.WriteString(id)
			sb.WriteString("\n")
		}
		return sb.String(), false

	case ToolClearCache:
		count := c.loader.Store().Clear()
		return fmt.Sprintf("Cleared %d PDF(s) from memory.", count), false

	default:
		return fmt.Sprintf("Unknown tool: %s", name), true
	}
}

func stringArg(input map[string]any, key string) (string, bool) {
	v, ok := input[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
