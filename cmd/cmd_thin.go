// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/jcodagnone/polyfix/batch"
	"github.com/jcodagnone/polyfix/thinner"
	"github.com/spf13/cobra"
)

var thinFlags = &batchFlags{}

var (
	thinConfigPath string
	thinAlgorithm  string
	thinOptions    = thinner.DefaultOptions()
)

var thinCmd = &cobra.Command{
	Use:   "thin <file|dir>...",
	Short: "Removes redundant points from every line",
	Long: `
Thins each labelled run of every feature. The angle algorithm drops points
where the line turns less than the allowed deviation; dp and vw use
Douglas-Peucker and Visvalingam-Whyatt with the given tolerance.

Settings come from the flags, then from the config file, then from the
built-in defaults.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveThinOptions(cmd)
		if err != nil {
			return err
		}

		return thinFlags.run("Thinning", args, batch.Thin(&batch.ThinOptions{
			Output:  thinFlags.output,
			Thinner: opts,
			Only:    thinFlags.nameFilter(),
		}))
	},
}

// resolveThinOptions layers the changed flags over the config file.
func resolveThinOptions(cmd *cobra.Command) (thinner.Options, error) {
	opts, err := thinner.LoadOptions(thinConfigPath, thinner.DefaultOptions())
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		opts.Algorithm = thinner.Algorithm(thinAlgorithm)
	}

	if flags.Changed("allowed-angle-deviation") {
		opts.AllowedAngleDeviation = thinOptions.AllowedAngleDeviation
	}

	if flags.Changed("weighted") {
		opts.UseWeightedTolerance = thinOptions.UseWeightedTolerance
	}

	if flags.Changed("max-distance-for-weighting") {
		opts.MaxDistanceForWeighting = thinOptions.MaxDistanceForWeighting
	}

	if flags.Changed("max-angle-for-weighting") {
		opts.MaxAngleForWeighting = thinOptions.MaxAngleForWeighting
	}

	if flags.Changed("tolerance") {
		opts.Tolerance = thinOptions.Tolerance
	}

	if flags.Changed("reduce-area-to-point") {
		opts.ReduceAreaToPoint = thinOptions.ReduceAreaToPoint
	}

	if flags.Changed("area-to-point-threshold") {
		opts.AreaToPointThreshold = thinOptions.AreaToPointThreshold
	}

	return opts, opts.Validate()
}

func init() {
	rootCmd.AddCommand(thinCmd)
	thinFlags.register(thinCmd, batch.DefaultThinSuffix, true)

	defaults := thinner.DefaultOptions()
	flags := thinCmd.Flags()
	flags.StringVar(&thinConfigPath, "config", "config.json", "JSON file with thinning settings")
	flags.StringVar(&thinAlgorithm, "algorithm", string(defaults.Algorithm), "Thinning algorithm: angle, dp or vw")
	flags.Float64Var(
		&thinOptions.AllowedAngleDeviation,
		"allowed-angle-deviation",
		defaults.AllowedAngleDeviation,
		"Degrees a line may turn at a point that is dropped",
	)
	flags.BoolVar(
		&thinOptions.UseWeightedTolerance,
		"weighted",
		defaults.UseWeightedTolerance,
		"Allow sharper turns between close points",
	)
	flags.Float64Var(
		&thinOptions.MaxDistanceForWeighting,
		"max-distance-for-weighting",
		defaults.MaxDistanceForWeighting,
		"Span, in degrees, below which the weighted tolerance applies",
	)
	flags.Float64Var(
		&thinOptions.MaxAngleForWeighting,
		"max-angle-for-weighting",
		defaults.MaxAngleForWeighting,
		"Allowed deviation, in degrees, for spans close to zero",
	)
	flags.Float64Var(
		&thinOptions.Tolerance,
		"tolerance",
		defaults.Tolerance,
		"Tolerance of the dp and vw algorithms",
	)
	flags.BoolVar(
		&thinOptions.ReduceAreaToPoint,
		"reduce-area-to-point",
		defaults.ReduceAreaToPoint,
		"Collapse small closed rings into their centroid",
	)
	flags.Float64Var(
		&thinOptions.AreaToPointThreshold,
		"area-to-point-threshold",
		defaults.AreaToPointThreshold,
		"Area, in square meters, below which rings collapse",
	)
}
