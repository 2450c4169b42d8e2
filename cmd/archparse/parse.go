package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/export"
	"github.com/dusk-indust/archparse/internal/syntax"
	"github.com/dusk-indust/archparse/internal/walk"
)

type parseFlags struct {
	format    string
	include   []string
	exclude   []string
	languages []string
	language  string
	progress  bool
}

func newParseCmd(flags *globalFlags) *cobra.Command {
	var pf parseFlags
	cmd := &cobra.Command{
		Use:   "parse <file-or-dir>",
		Short: "Parse a file or every supported file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, flags, pf, args[0])
		},
	}
	cmd.Flags().StringVar(&pf.format, "format", "json", "output format: json, jsonl or mermaid")
	cmd.Flags().StringSliceVar(&pf.include, "include", nil, "doublestar globs of files to include")
	cmd.Flags().StringSliceVar(&pf.exclude, "exclude", nil, "doublestar globs of files to skip")
	cmd.Flags().StringSliceVar(&pf.languages, "languages", nil, "languages to parse (default: all)")
	cmd.Flags().StringVar(&pf.language, "language", "", "language of a single file (default: from extension)")
	cmd.Flags().BoolVar(&pf.progress, "progress", false, "print per-file progress to stderr")
	return cmd
}

func runParse(cmd *cobra.Command, flags *globalFlags, pf parseFlags, target string) error {
	switch pf.format {
	case "json", "jsonl", "mermaid":
	default:
		return fmt.Errorf("unknown format %q (want json, jsonl or mermaid)", pf.format)
	}

	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	// Events are only emitted while a batch runs, so the reporter can be
	// closed as soon as parsing returns.
	var onProgress func(batch.ProgressEvent)
	stopProgress := func() {}
	if pf.progress {
		reporter := batch.NewProgressReporter()
		onProgress = reporter.Emit
		var printed sync.WaitGroup
		printed.Add(1)
		go func() {
			defer printed.Done()
			for ev := range reporter.Subscribe() {
				fmt.Fprintln(cmd.ErrOrStderr(), batch.FormatProgress(ev))
			}
		}()
		var once sync.Once
		stopProgress = func() {
			once.Do(func() {
				reporter.Close()
				printed.Wait()
			})
		}
	}
	defer stopProgress()

	a, err := newApp(flags, onProgress)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	var (
		mu        sync.Mutex
		responses []syntax.Response
	)
	jsonl := export.NewJSONLWriter(out)
	sink := func(resp syntax.Response) error {
		if pf.format == "jsonl" {
			return jsonl.Write(resp)
		}
		mu.Lock()
		defer mu.Unlock()
		responses = append(responses, resp)
		return nil
	}

	root := target
	if info.IsDir() {
		w, err := walk.New(a.svc.Registry(), walk.Options{
			Include:     pf.include,
			Exclude:     pf.exclude,
			Languages:   pf.languages,
			ExcludeDirs: a.cfg.ExcludeDirs,
		}, a.log)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		_, err = a.svc.ParseBatch(ctx, w.Source(ctx, target), sink)
		if err != nil {
			return err
		}
	} else {
		root = filepath.Dir(target)
		req, err := fileRequest(target, pf.language)
		if err != nil {
			return err
		}
		resp, err := a.svc.ParseFile(cmd.Context(), req)
		if err != nil {
			return err
		}
		if err := sink(resp); err != nil {
			return err
		}
	}

	stopProgress()
	return writeResponses(out, pf.format, root, responses)
}

func writeResponses(out io.Writer, format, root string, responses []syntax.Response) error {
	switch format {
	case "json":
		return export.WriteReport(out, export.BuildReport(root, responses))
	case "mermaid":
		_, err := io.WriteString(out, export.GenerateMermaid(responses))
		return err
	}
	return nil
}

// fileRequest reads path into a request whose id is its base name.
func fileRequest(path, language string) (syntax.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return syntax.Request{}, err
	}
	if language == "" {
		language = filepath.Ext(path)
	}
	name := filepath.ToSlash(filepath.Base(path))
	return syntax.Request{
		FileID:   name,
		FilePath: name,
		Language: language,
		Content:  string(data),
	}, nil
}
