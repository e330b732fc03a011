package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seo-content-go/pkg/pipeline"
)

func newUploadCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload NAME FILE",
		Short: "Store a company document under one of the expected names",
		Example: "  seo-content upload product_list.pdf ./docs/products.pdf\n" +
			"  seo-content upload pillar_page.pdf ./docs/pillar.pdf",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}

			a, err := root.buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Pipeline.SaveDocument(cmd.Context(), pipeline.Upload{Name: args[0], Data: data}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%d bytes)\n", args[0], len(data))
			return nil
		},
	}
}

func newRunCommand(root *rootOptions) *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:       "run {brand|content|pillar}",
		Short:     "Run one generation stage and write its bundle",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(pipeline.StageBrand), string(pipeline.StageContent), string(pipeline.StagePillar)},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			stages := map[string]func(context.Context, string) (*pipeline.StageResult, error){
				string(pipeline.StageBrand):   a.Pipeline.RunBrand,
				string(pipeline.StageContent): a.Pipeline.RunContent,
				string(pipeline.StagePillar):  a.Pipeline.RunPillar,
			}
			res, err := stages[args[0]](cmd.Context(), company)
			if err != nil {
				if pipeline.IsPrerequisiteError(err) {
					return fmt.Errorf("%w (run the earlier stages first)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s finished in %s\n", res.RunID, res.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "artifacts: %s\n", strings.Join(res.Artifacts, ", "))
			if res.Bundle != "" {
				fmt.Fprintf(out, "bundle: %s\n", bundlePath(a.Config.Storage.Backend, a.Config.Storage.OutputDir, res.Bundle))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "company name used in every prompt")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func newBundleCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Archive every stored artifact into one zip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := a.Pipeline.BundleAll(cmd.Context(), f); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", pipeline.BundleAll, "zip file to write")
	return cmd
}

func bundlePath(backend, dir, name string) string {
	if backend == "memory" {
		return name
	}
	return filepath.Join(dir, name)
}
