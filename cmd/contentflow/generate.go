package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"contentflow/internal/config"
	"contentflow/internal/export"
	"contentflow/internal/model"
)

var (
	inputType   string
	wordCount   int
	tone        string
	keywords    []string
	formats     []string
	outputFile  string
	outputDir   string
	fast        bool
	synchronous bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <input>",
	Short: "Generate one article and export it",
	Long: `Generate runs the six-stage pipeline for a keyword, topic or URL, printing each stage as it
progresses, then exports the article. With --sync the one-shot automation flow is used instead
and both request and article are archived.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseInputKind(inputType)
		if err != nil {
			return err
		}
		opts := model.GenerationOptions{WordCount: wordCount, Tone: model.Tone(tone), TargetKeywords: keywords}

		a, err := loadApp(func(c *config.Config) {
			if fast {
				c.Pipeline.SetStageDelays(config.Delays{})
			}
			if outputDir != "" {
				c.Export.OutputDir = outputDir
			}
		})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var article *model.Article
		if synchronous {
			article, err = a.generateSync(ctx, args[0], kind, opts)
		} else {
			article, err = a.generateTracked(ctx, cmd, args[0], kind, opts)
		}
		if err != nil {
			return err
		}
		return a.export(cmd, article)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&inputType, "type", "t", string(model.KindKeyword), "Input type: keyword, topic or url")
	f.IntVarP(&wordCount, "words", "w", model.DefaultWordCount, "Target word count")
	f.StringVar(&tone, "tone", string(model.ToneProfessional), "Tone: professional, casual, authoritative or friendly")
	f.StringSliceVarP(&keywords, "keywords", "k", nil, "Target keywords (comma separated)")
	f.StringSliceVarP(&formats, "format", "f", []string{"html"}, "Export formats: html, markdown, json")
	f.StringVarP(&outputFile, "output", "o", "", "Write a single file; the format follows the extension")
	f.StringVar(&outputDir, "output-dir", "", "Export directory (overrides config)")
	f.BoolVar(&fast, "fast", false, "Skip stage pacing")
	f.BoolVar(&synchronous, "sync", false, "Use the one-shot automation flow")
}

func (a *app) generateSync(ctx context.Context, input string, kind model.InputKind, opts model.GenerationOptions) (*model.Article, error) {
	id, err := a.engine.ProcessRequest(ctx, input, kind, opts)
	if err != nil {
		return nil, err
	}
	return a.engine.GetArticle(ctx, id)
}

// generateTracked starts a pipeline run and reports stage transitions until it finishes.
func (a *app) generateTracked(ctx context.Context, cmd *cobra.Command, input string, kind model.InputKind, opts model.GenerationOptions) (*model.Article, error) {
	id := uuid.NewString()
	if err := a.runner.Start(ctx, id, input, kind, opts); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		a.runner.Cancel(id)
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	lastStep, lastDesc := -1, ""
	for {
		rec, ok := a.progress.Get(id)
		if !ok {
			return nil, fmt.Errorf("generation %s disappeared", id)
		}

		step := rec.Steps[rec.CurrentStep]
		if rec.CurrentStep != lastStep || step.Description != lastDesc {
			lastStep, lastDesc = rec.CurrentStep, step.Description
			line := fmt.Sprintf("[%d/%d] %s", rec.CurrentStep+1, len(rec.Steps), step.Title)
			if step.Description != "" {
				line += ": " + step.Description
			}
			fmt.Fprintln(cmd.ErrOrStderr(), line)
		}

		switch rec.Status {
		case model.RecordCompleted:
			if rec.Article == nil {
				return nil, errors.New("generation completed without an article")
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "done: %q, %d words, SEO score %d\n", rec.Article.Title, rec.Article.WordCount, rec.Article.SEOScore)
			return rec.Article, nil
		case model.RecordError, model.RecordCancelled:
			return nil, fmt.Errorf("generation %s: %s", rec.Status, rec.Error)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			a.runner.Wait(id)
		}
	}
}

func (a *app) export(cmd *cobra.Command, article *model.Article) error {
	exporter := export.NewExporter(a.cfg.Export.OutputDir, a.logger)

	var results []export.Result
	if outputFile != "" {
		results = []export.Result{exporter.ExportAs(article, outputFile)}
	} else {
		fs := make([]export.Format, 0, len(formats))
		for _, s := range formats {
			f, err := export.ParseFormat(s)
			if err != nil {
				return err
			}
			fs = append(fs, f)
		}
		results = exporter.Export(article, fs...)
	}

	var failed []error
	for _, r := range results {
		if !r.Success {
			failed = append(failed, fmt.Errorf("export %s: %s", r.Path, r.Error))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Path)
	}
	return errors.Join(failed...)
}
