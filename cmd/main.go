// cmd/main.go

// @title Aqua Invoice API
// @version 1.0
// @description Admin login and invoice preview/PDF export for Aqua Diamonds.
// @BasePath /
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aqua-invoicing/pkg/archive"
	"github.com/aqua-invoicing/pkg/config"
	"github.com/aqua-invoicing/pkg/invoice"
	"github.com/aqua-invoicing/pkg/logger"
	"github.com/aqua-invoicing/pkg/render"
	"github.com/aqua-invoicing/pkg/server"
	"github.com/aqua-invoicing/pkg/session"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "aqua-invoice",
		Usage: "admin invoice desk for Aqua Diamonds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yaml",
				EnvVars: []string{"AQUA_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the web application",
				Action: serve,
			},
			{
				Name:      "render",
				Usage:     "render an invoice JSON file to PDF or HTML",
				ArgsUsage: "<invoice.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default Invoice-<no>.pdf)"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "pdf", Usage: "pdf or html"},
				},
				Action: renderFile,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*config.Configuration, *logger.Logger, *render.Renderer, error) {
	cfg, err := config.NewConfig(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	renderer, err := render.New(render.Options{
		Profile:   cfg.Company,
		MinRows:   cfg.Render.MinRows,
		LogoPath:  cfg.Render.LogoPath,
		StampPath: cfg.Render.StampPath,
		PDF:       cfg.Render.PDF,
	}, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, renderer, nil
}

func serve(c *cli.Context) error {
	cfg, log, renderer, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store
	switch cfg.Session.Store {
	case "postgres":
		pg, err := session.OpenPostgres(ctx, cfg.Session.PostgresDSN, cfg.Session.TTL)
		if err != nil {
			return err
		}
		defer pg.Close()
		store = pg
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
	}
	sessions := session.NewController(session.NewGate(cfg.Auth), store, log)

	opts := server.Options{
		SecureCookie: cfg.Server.SecureCookie,
		SessionTTL:   cfg.Session.TTL,
	}
	if cfg.Archive.Bucket != "" {
		archiver, err := archive.NewS3(cfg.Archive.Region, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			return err
		}
		opts.Archiver = archiver
	}

	srv, err := server.New(sessions, renderer, log, opts)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Infow("invoice desk listening", "address", cfg.Server.Address, "session_store", cfg.Session.Store)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	}
	return nil
}

func renderFile(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("render needs exactly one invoice JSON file", 2)
	}
	_, log, renderer, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	raw, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	var inv invoice.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return fmt.Errorf("decoding %s: %w", c.Args().First(), err)
	}
	if err := inv.Validate(); err != nil {
		return err
	}

	format := strings.ToLower(c.String("format"))
	output := c.String("output")
	var buf bytes.Buffer
	switch format {
	case "pdf":
		if output == "" {
			output = render.FileName(inv.InvoiceNo)
		}
		err = renderer.PDF(c.Context, &buf, inv)
	case "html":
		if output == "" {
			output = strings.TrimSuffix(render.FileName(inv.InvoiceNo), ".pdf") + ".html"
		}
		err = renderer.HTML(&buf, inv, render.PageOptions{})
	default:
		return cli.Exit(fmt.Sprintf("unknown format %q", format), 2)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	log.Infow("invoice rendered", "invoice", inv.InvoiceNo, "output", output, "bytes", buf.Len())
	return nil
}
