package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/goliatone/go-govuk-forms/internal/fixtures"
	"github.com/goliatone/go-govuk-forms/internal/server"
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/orchestrator"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/prompt"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	paramsrenderer "github.com/goliatone/go-govuk-forms/pkg/renderers/params"
	"github.com/goliatone/go-govuk-forms/pkg/schemaforms"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// httpTimeout bounds fetching an OpenAPI document over HTTP.
const httpTimeout = 15 * time.Second

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	In     io.Reader
}

// CLI definition and global flags.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Serve  ServeCmd  `cmd:"" help:"Serve the example form over HTTP"`
	Render RenderCmd `cmd:"" help:"Render a form built from an OpenAPI operation"`
	Params ParamsCmd `cmd:"" help:"Dump the widget parameters of every field"`
	Fill   FillCmd   `cmd:"" help:"Fill a form interactively and validate it"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply(global *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	global.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(global.Logger)
	return nil
}

// SourceFlags select the form: an OpenAPI operation, or the example form when
// no document is given.
type SourceFlags struct {
	OpenAPI   string `name:"openapi" short:"s" help:"OpenAPI document path or URL"`
	Operation string `short:"o" help:"Operation id whose request body becomes the form"`
	Submit    string `help:"Label of the submit button appended to OpenAPI forms" default:"Continue"`
}

func (s SourceFlags) form(ctx context.Context, logger *slog.Logger) (*forms.Form, error) {
	if s.OpenAPI == "" {
		return fixtures.ExampleForm(), nil
	}
	if s.Operation == "" {
		return nil, errors.New("--operation is required with --openapi")
	}
	orch := orchestrator.New(
		orchestrator.WithLoader(schemaforms.NewLoader(schemaforms.WithHTTPFallback(httpTimeout))),
		orchestrator.WithBuildOptions(schemaforms.WithSubmit("submit", s.Submit)),
		orchestrator.WithLogger(logger),
	)
	return orch.Form(ctx, orchestrator.Request{Location: s.OpenAPI, OperationID: s.Operation})
}

// ServeCmd runs the demo server.
type ServeCmd struct {
	EnvFile      []string `help:"Environment files loaded before reading GOVUK_FORMS_* variables" default:".env"`
	Addr         string   `help:"Listen address, overrides GOVUK_FORMS_ADDR"`
	TemplatesDir string   `help:"Template override directory, watched for changes" type:"path"`
}

func (cmd *ServeCmd) Run(global *Global) error {
	cfg, err := server.LoadConfig(cmd.EnvFile...)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	if cmd.TemplatesDir != "" {
		cfg.TemplatesDir = cmd.TemplatesDir
	}

	srv, err := server.New(cfg, server.WithLogger(global.Logger))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// RenderCmd renders an OpenAPI operation.
type RenderCmd struct {
	OpenAPI   string   `name:"openapi" short:"s" required:"" help:"OpenAPI document path or URL"`
	Operation string   `short:"o" required:"" help:"Operation id to render"`
	Renderer  string   `short:"r" help:"Renderer name" default:"govuk" enum:"govuk,json,yaml"`
	Output    string   `help:"Output file, stdout when empty" type:"path"`
	Title     string   `help:"Page heading"`
	Action    string   `help:"Form action, defaults to the operation path"`
	Only      []string `help:"Render only these top-level fields"`
	Submit    string   `help:"Submit button label" default:"Continue"`
}

func (cmd *RenderCmd) Run(global *Global) error {
	ctx := context.Background()
	loader := schemaforms.NewLoader(schemaforms.WithHTTPFallback(httpTimeout))

	action := cmd.Action
	if action == "" {
		data, err := loader.Load(ctx, cmd.OpenAPI)
		if err != nil {
			return err
		}
		ops, err := schemaforms.ParseOperations(ctx, data)
		if err != nil {
			return err
		}
		if op, ok := ops[cmd.Operation]; ok {
			action = op.Path
		}
	}

	orch := orchestrator.New(
		orchestrator.WithLoader(loader),
		orchestrator.WithBuildOptions(schemaforms.WithSubmit("submit", cmd.Submit)),
		orchestrator.WithLogger(global.Logger),
	)
	out, err := orch.Generate(ctx, orchestrator.Request{
		Location:    cmd.OpenAPI,
		OperationID: cmd.Operation,
		Renderer:    cmd.Renderer,
		RenderOptions: render.RenderOptions{
			Action: action,
			Title:  cmd.Title,
			Only:   cmd.Only,
		},
	})
	if err != nil {
		return err
	}
	return writeOutput(global, cmd.Output, out)
}

// ParamsCmd dumps the parameter mapping.
type ParamsCmd struct {
	SourceFlags `embed:""`
	Format string `short:"f" help:"Output format" default:"json" enum:"json,yaml,spew"`
	Output string `help:"Output file, stdout when empty" type:"path"`
}

func (cmd *ParamsCmd) Run(global *Global) error {
	ctx := context.Background()
	form, err := cmd.form(ctx, global.Logger)
	if err != nil {
		return err
	}

	format := paramsrenderer.Format(cmd.Format)
	if cmd.Format == "spew" {
		format = paramsrenderer.FormatJSON
	}
	renderer, err := paramsrenderer.New(format, widgets.NewRegistry())
	if err != nil {
		return err
	}
	doc, err := renderer.Build(form, render.RenderOptions{})
	if err != nil {
		return err
	}

	var out []byte
	if cmd.Format == "spew" {
		cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}
		out = []byte(cfg.Sdump(doc))
	} else if out, err = paramsrenderer.Encode(doc, format); err != nil {
		return err
	}
	return writeOutput(global, cmd.Output, out)
}

// FillCmd prompts for every field, validates and prints the result.
type FillCmd struct {
	SourceFlags `embed:""`
	Format string `short:"f" help:"Output format for the accepted values" default:"yaml" enum:"json,yaml"`
}

func (cmd *FillCmd) Run(global *Global) error {
	ctx := context.Background()
	form, err := cmd.form(ctx, global.Logger)
	if err != nil {
		return err
	}
	return fill(ctx, global, form, prompt.NewSurveyDriver(global.Out), paramsrenderer.Format(cmd.Format))
}

// errInvalid is returned by fill when validation fails.
var errInvalid = errors.New("the form has errors")

func fill(ctx context.Context, global *Global, form *forms.Form, driver prompt.PromptDriver, format paramsrenderer.Format) error {
	sub, err := prompt.Fill(ctx, form, driver)
	if err != nil {
		return err
	}
	form.Process(sub)
	if !form.Validate() {
		summary := widgets.ErrorSummaryParams(form, nil)
		fmt.Fprintln(global.Out, summary.String("titleText"))
		if list, ok := params.AsList(summary["errorList"]); ok {
			for _, item := range list {
				entry := params.AsParams(item)
				fmt.Fprintf(global.Out, "  %s: %s\n", entry.String("href"), entry.String("text"))
			}
		}
		return errInvalid
	}

	out, err := paramsrenderer.Encode(form.Data(), format)
	if err != nil {
		return err
	}
	_, err = global.Out.Write(out)
	return err
}

func writeOutput(global *Global, path string, data []byte) error {
	if path == "" {
		_, err := global.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	global.Logger.Info("output written", "file", path, "bytes", len(data))
	return nil
}
