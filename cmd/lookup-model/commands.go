package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/lookup-model/internal/artifact"
	"github.com/ekisa-team/lookup-model/internal/kfp"
	"github.com/ekisa-team/lookup-model/internal/lookup"
)

func newExecutorCmd(a *app) *cobra.Command {
	var executorInput string

	cmd := &cobra.Command{
		Use:   "executor",
		Short: "Run as a pipeline component using the launcher's executor input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := kfp.ParseExecutorInput([]byte(executorInput))
			if err != nil {
				return err
			}

			out, err := in.OutputArtifact(kfp.OutputModel, a.cfg.Storage.GCSMount)
			if err != nil {
				return err
			}

			result, err := a.lookup(cmd.Context(), in.LookupRequest(), out)
			if err != nil {
				return err
			}

			return kfp.FromResult(result).Write(in)
		},
	}

	cmd.Flags().StringVar(&executorInput, "executor_input", "", "Executor input JSON provided by the pipeline launcher")
	_ = cmd.MarkFlagRequired("executor_input")

	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var (
		req       lookup.Request
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Look up a model and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := artifact.NewModel(kfp.OutputModel, "", a.cfg.Storage.GCSMount)

			result, err := a.lookup(cmd.Context(), req, out)
			if err != nil {
				return err
			}

			if outputDir != "" {
				if err := kfp.FromResult(result).Write(localExecutorInput(outputDir)); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&req.ModelName, "model-name", "", "Display name of the model")
	cmd.Flags().StringVar(&req.Project, "project", "", "Google Cloud project id")
	cmd.Flags().StringVar(&req.Location, "location", "", "Google Cloud location of the registry")
	cmd.Flags().BoolVar(&req.FailOnModelNotFound, "fail-on-model-not-found", false, "Fail when no model matches")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to write executor outputs to")
	_ = cmd.MarkFlagRequired("model-name")

	return cmd
}

// localExecutorInput lays out output files under dir the way the launcher would.
func localExecutorInput(dir string) *kfp.ExecutorInput {
	return &kfp.ExecutorInput{
		Outputs: kfp.Outputs{
			Parameters: map[string]kfp.OutputParameter{
				kfp.OutputModelResourceName: {OutputFile: filepath.Join(dir, kfp.OutputModelResourceName)},
				kfp.OutputTrainingDataset:   {OutputFile: filepath.Join(dir, kfp.OutputTrainingDataset)},
			},
			OutputFile: filepath.Join(dir, "executor_output.json"),
		},
	}
}
