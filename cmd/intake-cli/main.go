package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/document/gotenberg"
	"github.com/goliatone/go-intake/pkg/generative/openaigen"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/sharelink"
	"github.com/goliatone/go-intake/pkg/sharelink/sqlstore"
)

const usage = `usage: intake-cli <command> [flags]

Commands:
  extract    recover and normalize a schema from a document or raw model output
  render     render a schema (plus optional response) to PDF or HTML
  sharelink  issue, list, or revoke share links

Run "intake-cli <command> -h" for command flags.`

func main() {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "extract":
		err = runExtract(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "sharelink":
		err = runShareLink(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "intake-cli:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	input := fs.String("input", "", "source document path (stdin if empty)")
	output := fs.String("output", "", "output schema path (stdout if empty)")
	raw := fs.Bool("raw", false, "treat input as raw model output; skip the model call")
	model := fs.String("model", "", "chat model to use")
	configPath := fs.String("config", "", "YAML config path")
	verbose := fs.Bool("verbose", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	text, err := readInput(*input)
	if err != nil {
		return err
	}

	options := []orchestrator.Option{orchestrator.WithLogger(log)}
	if !*raw {
		apiKey := envOr("OPENAI_API_KEY", cfg.OpenAI.APIKey)
		if apiKey == "" {
			return fmt.Errorf("extract: an API key is required unless -raw is set (OPENAI_API_KEY or config)")
		}
		genOpts := []openaigen.Option{}
		if name := firstNonEmpty(*model, cfg.OpenAI.Model); name != "" {
			genOpts = append(genOpts, openaigen.WithModel(name))
		}
		options = append(options, orchestrator.WithGenerator(openaigen.New(apiKey, genOpts...)))
	}

	pipeline := orchestrator.New(options...)

	var result orchestrator.Result
	if *raw {
		result, err = pipeline.ProcessRaw(text)
	} else {
		result, err = pipeline.ExtractSchema(context.Background(), text)
	}
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		log.Warn("schema audit", zap.String("warning", warning.String()))
	}

	encoded, err := json.MarshalIndent(result.Form, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return writeOutput(*output, append(encoded, '\n'))
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema JSON path (required)")
	responsePath := fs.String("response", "", "response JSON path; omit for a blank form")
	title := fs.String("title", "", "document title (defaults to the schema title)")
	subject := fs.String("subject", "", "patient name for the header")
	summary := fs.Bool("summary", false, "include a generative clinical summary")
	htmlOnly := fs.Bool("html", false, "emit HTML instead of PDF")
	output := fs.String("output", "", "output path (stdout if empty)")
	gotenbergURL := fs.String("gotenberg", "", "Gotenberg base URL")
	configPath := fs.String("config", "", "YAML config path")
	verbose := fs.Bool("verbose", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return fmt.Errorf("render: -schema is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	form, err := readSchema(*schemaPath)
	if err != nil {
		return err
	}

	engine, err := document.DefaultEngine()
	if err != nil {
		return err
	}
	options := []document.Option{document.WithLogger(log)}

	if !*htmlOnly {
		url := firstNonEmpty(*gotenbergURL, cfg.Gotenberg.URL, envOr("GOTENBERG_URL", ""))
		if url == "" {
			return fmt.Errorf("render: a Gotenberg URL is required unless -html is set")
		}
		options = append(options, document.WithBackend(gotenberg.New(url)))
	}
	if *summary {
		apiKey := envOr("OPENAI_API_KEY", cfg.OpenAI.APIKey)
		if apiKey == "" {
			return fmt.Errorf("render: -summary needs an API key (OPENAI_API_KEY or config)")
		}
		options = append(options, document.WithSummarizer(openaigen.New(apiKey)))
	}

	renderer, err := document.New(engine, options...)
	if err != nil {
		return err
	}

	docTitle := firstNonEmpty(*title, form.Title, "Intake Form")
	ctx := context.Background()

	var out []byte
	if *responsePath == "" {
		out, err = renderer.RenderBlankDocument(ctx, &form, docTitle)
	} else {
		var response schema.Response
		if err := readJSON(*responsePath, &response); err != nil {
			return err
		}
		out, err = renderer.RenderResponseDocument(ctx, &form, response, document.ResponseOptions{
			Title:          docTitle,
			SubjectName:    *subject,
			IncludeSummary: *summary,
		})
	}
	if err != nil {
		return err
	}
	return writeOutput(*output, out)
}

func runShareLink(args []string) error {
	fs := flag.NewFlagSet("sharelink", flag.ExitOnError)
	action := fs.String("action", "issue", "issue, list, deactivate, or revoke")
	dbPath := fs.String("db", "", "SQLite database path")
	formID := fs.String("form", "", "form ID (required)")
	owner := fs.String("owner", "", "owner subject identifier")
	linkID := fs.String("link", "", "link ID (for deactivate/revoke)")
	expiresDays := fs.Int("expires-days", sharelink.DefaultExpiryDays, "days until expiry; 0 never expires")
	maxResponses := fs.Int("max-responses", 0, "response quota; 0 is unlimited")
	password := fs.Bool("password", false, "gate the link behind a password")
	yes := fs.Bool("yes", false, "skip confirmation prompts")
	configPath := fs.String("config", "", "YAML config path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *formID == "" {
		return fmt.Errorf("sharelink: -form is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	db := firstNonEmpty(*dbPath, cfg.Database, envOr("INTAKE_DB", "intake.db"))

	store, err := sqlstore.Open(db)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr := sharelink.NewManager(store)
	ctx := context.Background()

	switch *action {
	case "issue":
		opts := sharelink.IssueOptions{
			ExpiresInDays: expiresDays,
			MaxResponses:  *maxResponses,
		}
		if *password {
			var secret string
			prompt := &survey.Password{Message: "Link password:"}
			if err := survey.AskOne(prompt, &secret, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
			opts.RequirePassword = true
			opts.Password = secret
		}
		link, err := mgr.Issue(ctx, *formID, *owner, opts)
		if err != nil {
			return err
		}
		fmt.Printf("link %s\ntoken %s\n", link.ID, link.Token)
		if !link.ExpiresAt.IsZero() {
			fmt.Printf("expires %s\n", link.ExpiresAt.Format("2006-01-02"))
		}
		return nil

	case "list":
		links, err := mgr.List(ctx, *formID)
		if err != nil {
			return err
		}
		for _, link := range links {
			status := "active"
			if !link.IsActive {
				status = "inactive"
			}
			fmt.Printf("%s  %s  responses=%d", link.ID, status, link.ResponseCount)
			if link.MaxResponses > 0 {
				fmt.Printf("/%d", link.MaxResponses)
			}
			if !link.ExpiresAt.IsZero() {
				fmt.Printf("  expires=%s", link.ExpiresAt.Format("2006-01-02"))
			}
			fmt.Println()
		}
		return nil

	case "deactivate":
		if *linkID == "" {
			return fmt.Errorf("sharelink: -link is required for deactivate")
		}
		return mgr.Deactivate(ctx, *formID, *linkID, *owner)

	case "revoke":
		if *linkID == "" {
			return fmt.Errorf("sharelink: -link is required for revoke")
		}
		if !*yes {
			confirmed := false
			prompt := &survey.Confirm{Message: fmt.Sprintf("Permanently delete link %s?", *linkID)}
			if err := survey.AskOne(prompt, &confirmed); err != nil {
				return err
			}
			if !confirmed {
				return nil
			}
		}
		return mgr.Revoke(ctx, *formID, *linkID, *owner)

	default:
		return fmt.Errorf("sharelink: unknown action %q", *action)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}

func readSchema(path string) (schema.Form, error) {
	var form schema.Form
	if err := readJSON(path, &form); err != nil {
		return schema.Form{}, err
	}
	return form, nil
}

func readJSON(path string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
