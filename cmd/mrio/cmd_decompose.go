// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/report"
)

type decomposeFlags struct {
	stressor string
	region   string
	sector   string
	policy   string
	scope    string
	unit     string
	top      int
	asJSON   bool
}

// decomposeOutput is the --json document.
type decomposeOutput struct {
	Result    *decomp.Result        `json:"result"`
	Breakdown report.Breakdown      `json:"breakdown"`
	Top       []decomp.Contribution `json:"top,omitempty"`
}

func newDecomposeCmd(a *app) *cobra.Command {
	f := &decomposeFlags{}
	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Split one footprint into direct, domestic and foreign parts",
		Long: `Decompose the footprint of --stressor for the (--region, --sector) column
of the Leontief inverse.

Policies:
  minus_direct      domestic indirect = domestic contributions minus direct
  exclude_diagonal  domestic indirect = domestic contributions minus r[j]`,
		Example: `  mrio decompose --stressor "CO2 - combustion - air" --region US --sector Steel
  mrio decompose --stressor CO2 --region CN --sector Cement --top 10 --scope foreign --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDecompose(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.stressor, "stressor", "s", "", "stressor row label")
	fl.StringVarP(&f.region, "region", "r", "", "target region")
	fl.StringVar(&f.sector, "sector", "", "target sector")
	fl.StringVarP(&f.policy, "policy", "p", "", "domestic-indirect policy (default from config)")
	fl.IntVarP(&f.top, "top", "n", 0, "also list the n largest contributing producers")
	fl.StringVar(&f.scope, "scope", "all", "top-list filter: all, domestic or foreign")
	fl.StringVar(&f.unit, "unit", report.DefaultUnit, "unit caption for the panel")
	fl.BoolVar(&f.asJSON, "json", false, "print JSON instead of a panel")
	_ = cmd.MarkFlagRequired("stressor")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("sector")

	return cmd
}

func parseScope(raw string) (decomp.Scope, error) {
	switch raw {
	case "", "all":
		return decomp.ScopeAll, nil
	case "domestic":
		return decomp.ScopeDomestic, nil
	case "foreign":
		return decomp.ScopeForeign, nil
	default:
		return 0, fmt.Errorf("invalid --scope %q: want all, domestic or foreign", raw)
	}
}

func (a *app) runDecompose(cmd *cobra.Command, f *decomposeFlags) error {
	scope, err := parseScope(f.scope)
	if err != nil {
		return err
	}
	policy := f.policy
	if policy == "" {
		policy = a.cfg.Data.DefaultPolicy
	}

	ctx := cmd.Context()
	cache, cleanup, err := a.openCache(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := cache.Get(ctx)
	if err != nil {
		return err
	}
	res, err := snap.Decompose(ctx, decomp.Query{
		Stressor: f.stressor,
		Target:   producer.K(f.region, f.sector),
		Policy:   decomp.Policy(policy),
	})
	if err != nil {
		return err
	}
	a.logger.Debug("decomposed",
		zap.String("stressor", res.Stressor),
		zap.Stringer("target", res.Target),
		zap.String("policy", string(res.Policy)),
		zap.Float64("total", res.Total),
	)

	var top []decomp.Contribution
	if f.top > 0 {
		top = res.Top(f.top, scope)
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(decomposeOutput{Result: res, Breakdown: report.NewBreakdown(res), Top: top})
	}

	fmt.Fprintln(out, report.Render(report.NewBreakdown(res), f.unit))
	if len(top) > 0 {
		fmt.Fprintln(out, report.RenderTop(top, res.Total))
	}

	return nil
}
