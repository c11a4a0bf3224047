package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/duynguyendang/pdfdesk/internal/config"
	"github.com/duynguyendang/pdfdesk/pkg/agent"
	"github.com/duynguyendang/pdfdesk/pkg/analyze"
	"github.com/duynguyendang/pdfdesk/pkg/chat"
	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/fetch"
	"github.com/duynguyendang/pdfdesk/pkg/loader"
	"github.com/duynguyendang/pdfdesk/pkg/mcp"
	"github.com/duynguyendang/pdfdesk/pkg/models"
	"github.com/duynguyendang/pdfdesk/pkg/server"
)

// sampleURL is the document the demo loads when no arguments are given.
const sampleURL = "https://assets.anthropic.com/m/1cd9d098ac3e6467/original/Claude-3-Model-Card-October-Addendum.pdf"

func main() {
	root := &cobra.Command{
		Use:   "pdfdesk [question]",
		Short: "Chat with an agent that can load and analyze PDF documents",
		Long: "pdfdesk runs a tool-calling agent that downloads PDFs into an\n" +
			"in-memory cache and answers questions about them. With no arguments\n" +
			"it runs a short demo against a sample document.",
		Args: cobra.ArbitraryArgs,
		RunE: runAgent,
	}
	root.PersistentFlags().String("model", "", "model name or alias (overrides PDFDESK_MODEL)")
	root.PersistentFlags().String("provider", "", "model provider: anthropic or gemini")

	direct := &cobra.Command{
		Use:   "direct <question>",
		Short: "Analyze a single PDF without the tool-calling loop",
		Args:  cobra.ExactArgs(1),
		RunE:  runDirect,
	}
	direct.Flags().String("url", "", "URL of the PDF to analyze")
	direct.Flags().String("file", "", "local path of the PDF to analyze")
	root.AddCommand(direct)

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})

	root.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Expose the PDF cache as an MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	return cfg, nil
}

func newLoader(cfg config.Config) *loader.Loader {
	fetcher := fetch.NewFetcher(cfg.FetchTimeout, cfg.MaxPDFBytes)
	return loader.New(docstore.NewStore(), fetcher)
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	model, err := cfg.NewModel(ctx)
	if err != nil {
		return err
	}
	defer closeModel(model)

	l := newLoader(cfg)
	a, err := agent.New(agent.Options{
		Model:     model,
		Loader:    l,
		MaxRounds: cfg.MaxRounds,
	})
	if err != nil {
		return err
	}

	question := fmt.Sprintf("Please load this PDF and give me 3 key points from it: %s", sampleURL)
	if len(args) > 0 {
		question = args[0]
	}

	fmt.Printf("Model: %s\n", model.Name())
	fmt.Printf("Question: %s\n\n", question)

	turns, err := a.Invoke(ctx, []chat.Message{chat.UserText(question)})
	if err != nil {
		return err
	}

	for _, turn := range turns {
		printTurn(turn)
	}
	if ids := a.Store().List(); len(ids) > 0 {
		fmt.Printf("\nCached documents: %v\n", ids)
	}
	return nil
}

// printTurn renders one conversation turn for the demo log.
func printTurn(m chat.Message) {
	for _, b := range m.Blocks {
		switch b.Type {
		case chat.BlockText:
			fmt.Printf("[%s] %s\n", m.Role, b.Text)
		case chat.BlockDocument:
			fmt.Printf("[%s] <document, %d base64 chars>\n", m.Role, len(b.Document.Data))
		case chat.BlockToolUse:
			fmt.Printf("[%s] -> %s(%v)\n", m.Role, b.ToolUse.Name, b.ToolUse.Input)
		case chat.BlockToolResult:
			fmt.Printf("[tool] %s\n", b.ToolResult.Content)
		}
	}
}

func runDirect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	url, _ := cmd.Flags().GetString("url")
	file, _ := cmd.Flags().GetString("file")
	if (url == "") == (file == "") {
		return fmt.Errorf("provide exactly one of --url or --file")
	}

	ctx := cmd.Context()
	model, err := cfg.NewModel(ctx)
	if err != nil {
		return err
	}
	defer closeModel(model)

	analyzer := analyze.New(model, fetch.NewFetcher(cfg.FetchTimeout, cfg.MaxPDFBytes))

	var answer string
	if url != "" {
		answer, err = analyzer.FromURL(ctx, url, args[0])
	} else {
		answer, err = analyzer.FromFile(ctx, file, args[0])
	}
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv := server.NewServer(newLoader(cfg), cfg.NewModel)
	addr := ":" + cfg.Port
	slog.Info("starting REST API server", "addr", addr, "provider", cfg.Provider)
	return srv.Run(addr)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return mcp.Run(cmd.Context(), newLoader(cfg))
}

// closeModel releases backend resources for models that hold a connection.
func closeModel(m models.Model) {
	if c, ok := m.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
