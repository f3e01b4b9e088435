// SPDX-License-Identifier: MIT
package decomp_test

import (
	"testing"

	"github.com/katalvlaran/mrio/decomp"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    decomp.Policy
		wantErr bool
	}{
		{"", decomp.PolicyMinusDirect, false},
		{"minus_direct", decomp.PolicyMinusDirect, false},
		{"exclude_diagonal", decomp.PolicyExcludeDiagonal, false},
		{"bogus", "", true},
		{"Minus_Direct", "", true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			got, err := decomp.ParsePolicy(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, decomp.ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, decomp.PolicyExcludeDiagonal.Validate())
	err := decomp.Policy("").Validate()
	require.ErrorIs(t, err, decomp.ErrInvalidPolicy)
	require.Equal(t, []decomp.Policy{decomp.PolicyMinusDirect, decomp.PolicyExcludeDiagonal}, decomp.Policies())
	require.Equal(t, "exclude_diagonal", decomp.PolicyExcludeDiagonal.String())
}
