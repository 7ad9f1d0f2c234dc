package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/extract"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

var (
	runImage      string
	runDocID      string
	runPage       int
	runCandidates string
	runUnits      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run takeoff for a single floor plan",
	Long:  "Extracts room candidates from a floor-plan image (or a pre-extracted candidate file), runs the full pipeline, and prints the report as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runImage == "" && runCandidates == "" {
			return eris.New("either --image or --candidates is required")
		}

		env, err := initPipeline(ctx, runCandidates == "")
		if err != nil {
			return err
		}
		defer env.Close()

		doc := model.Document{
			ID:   runDocID,
			Path: runImage,
			Page: runPage,
		}
		if doc.ID == "" && runImage != "" {
			doc.ID = strings.TrimSuffix(filepath.Base(runImage), filepath.Ext(runImage))
		}
		if doc.ID == "" {
			doc.ID = "document"
		}

		var (
			candidates []model.RawRoomCandidate
			system     = runUnits
		)
		if runCandidates != "" {
			candidates, err = loadCandidates(runCandidates, doc)
			if err != nil {
				return err
			}
		} else {
			candidates, system, err = env.Extractor.Extract(ctx, doc)
			if err != nil {
				return eris.Wrap(err, "extract")
			}
			zap.L().Info("extraction complete",
				zap.String("document", doc.ID),
				zap.Int("candidates", len(candidates)),
				zap.String("unit_system", system),
			)
		}

		report, runErr := env.Pipeline.RunWithHint(ctx, doc, candidates, extract.UnitHint(system))
		if report != nil {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return encErr
			}
		}
		if runErr != nil {
			return eris.Wrap(runErr, "pipeline run")
		}
		return nil
	},
}

// loadCandidates reads pre-extracted room candidates from a JSON file and
// stamps them with the document identity.
func loadCandidates(path string, doc model.Document) ([]model.RawRoomCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read candidates file")
	}
	var candidates []model.RawRoomCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, eris.Wrap(err, "parse candidates file")
	}
	for i := range candidates {
		if candidates[i].DocumentID == "" {
			candidates[i].DocumentID = doc.ID
		}
		if candidates[i].Page == 0 {
			candidates[i].Page = doc.Page
		}
	}
	return candidates, nil
}

func init() {
	runCmd.Flags().StringVar(&runImage, "image", "", "path to the floor-plan image")
	runCmd.Flags().StringVar(&runDocID, "doc-id", "", "document ID (default derived from the image filename)")
	runCmd.Flags().IntVar(&runPage, "page", 0, "page number within the source document")
	runCmd.Flags().StringVar(&runCandidates, "candidates", "", "path to a JSON file of pre-extracted room candidates (skips vision extraction)")
	runCmd.Flags().StringVar(&runUnits, "units", "", "unit system hint for bare dimensions (imperial or metric)")
	rootCmd.AddCommand(runCmd)
}
