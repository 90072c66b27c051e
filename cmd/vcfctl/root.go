package main

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

type rootOptions struct {
	fuelData string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "vcfctl",
		Short:         "Petroleum volume correction to 15 °C (ISO 91-1 Annex B)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.fuelData, "fuel-data", "", "JSON file of fuel density overrides")

	cmd.AddCommand(
		newVCFCmd(),
		newCorrectCmd(opts),
		newConvertCmd(),
		newFuelsCmd(opts),
	)
	return cmd
}

func newVCFCmd() *cobra.Command {
	var rho15, tempC float64
	cmd := &cobra.Command{
		Use:   "vcf",
		Short: "Compute the VCF for a density at 15 °C and an observed temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := vcf.Compute(rho15, tempC)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().Float64Var(&rho15, "rho15", 0, "density at 15 °C in kg/m³")
	cmd.Flags().Float64Var(&tempC, "temp", 0, "observed temperature in °C")
	_ = cmd.MarkFlagRequired("rho15")
	_ = cmd.MarkFlagRequired("temp")
	return cmd
}

func newCorrectCmd(opts *rootOptions) *cobra.Command {
	var fuelName string
	var volume, mass, tempC, rho15 float64
	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Correct an observed volume or a mass to standard volume at 15 °C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := fuel.LoadFile(opts.fuelData)
			if err != nil {
				return err
			}
			req := correction.Request{Fuel: fuelName}
			flags := cmd.Flags()
			if flags.Changed("volume") {
				req.VolumeM3 = &volume
			}
			if flags.Changed("mass") {
				req.MassTon = &mass
			}
			if flags.Changed("temp") {
				req.TempC = &tempC
			}
			if flags.Changed("rho15") {
				req.Rho15 = &rho15
			}

			res, err := correction.NewDispatcher(nil, catalog, nil).AutoCorrect(req)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&fuelName, "fuel", "", "fuel name or alias")
	cmd.Flags().Float64Var(&volume, "volume", 0, "observed volume in m³")
	cmd.Flags().Float64Var(&mass, "mass", 0, "mass in tonnes")
	cmd.Flags().Float64Var(&tempC, "temp", 0, "observed temperature in °C")
	cmd.Flags().Float64Var(&rho15, "rho15", 0, "density at 15 °C in kg/m³, overrides --fuel")
	return cmd
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert a quantity with the ASTM D1250 Table 1 factors",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return &correction.MissingInputError{Field: "value", Reason: "must be a finite number"}
			}
			from, to := units.Unit(args[1]), units.Unit(args[2])
			result, err := units.Convert(value, from, to)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g %s = %g %s\n", value, from, result, to)
			return err
		},
	}
}

func newFuelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fuels",
		Short: "List known fuels with their densities at 15 °C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := fuel.LoadFile(opts.fuelData)
			if err != nil {
				return err
			}
			for _, f := range catalog.Fuels() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %8.1f kg/m³\n", f.Name, f.Density15); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
