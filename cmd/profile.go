package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/accident-cli/internal/rowsource"
	"github.com/sells-group/accident-cli/internal/shape"
)

var (
	profileExclude  []string
	profileOut      string
	profileBaseline string
)

var profileCmd = &cobra.Command{
	Use:   "profile [files...]",
	Short: "Profile the distinct values of every column",
	Long:  "Collects the distinct values of each column with the file and line each first appeared on. With --baseline, logs the values the baseline has not seen.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := runProfile(args, profileExclude, cfg.Parse.Encoding)
		if err != nil {
			return err
		}

		if profileBaseline != "" {
			baseline, err := shape.Load(profileBaseline)
			if err != nil {
				return err
			}
			for col, values := range s.NewValues(baseline) {
				zap.L().Warn("profile: unseen values",
					zap.String("column", col),
					zap.Strings("values", values),
				)
			}
		}

		return writeShape(s, profileOut)
	},
}

func init() {
	f := profileCmd.Flags()
	f.StringSliceVar(&profileExclude, "exclude", nil, "columns to leave out (repeatable)")
	f.StringVar(&profileOut, "out", "shape.yaml", "output file, - for stdout")
	f.StringVar(&profileBaseline, "baseline", "", "earlier shape.yaml to compare against")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(files, exclude []string, encoding string) (*shape.Shape, error) {
	s := shape.New()
	for _, file := range files {
		if err := shape.Profile(file, exclude, s, rowsource.Options{Encoding: encoding}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func writeShape(s *shape.Shape, out string) error {
	if out == "-" {
		return s.WriteYAML(os.Stdout)
	}

	f, err := os.Create(out)
	if err != nil {
		return eris.Wrapf(err, "profile: create %s", out)
	}
	if err := s.WriteYAML(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "profile: close %s", out)
	}

	zap.L().Info("profile: wrote shape", zap.String("path", out), zap.Int("fields", len(s.Fields)))
	return nil
}
