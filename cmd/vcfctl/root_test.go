package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVCFCommand(t *testing.T) {
	out, err := execute(t, "vcf", "--rho15", "850", "--temp", "25")
	require.NoError(t, err)

	var res vcf.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, vcf.Table54B, res.Table)
	assert.InDelta(t, 0.991672, res.VCF, 1e-12)
}

func TestVCFCommand_OutOfRange(t *testing.T) {
	_, err := execute(t, "vcf", "--rho15", "500", "--temp", "25")
	assert.True(t, errors.Is(err, vcf.ErrDensityOutOfRange))
}

func TestVCFCommand_NonFiniteTemperature(t *testing.T) {
	_, err := execute(t, "vcf", "--rho15", "850", "--temp", "NaN")
	assert.True(t, errors.Is(err, vcf.ErrInvalidTemperature))
}

func TestVCFCommand_RequiresFlags(t *testing.T) {
	_, err := execute(t, "vcf", "--rho15", "850")
	assert.Error(t, err)
}

func TestCorrectCommand_Volume(t *testing.T) {
	out, err := execute(t, "correct", "--fuel", "diesel", "--volume", "1000", "--temp", "25")
	require.NoError(t, err)

	var res correction.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, correction.ModeVolume, res.Mode)
	assert.InDelta(t, 991.672, res.V15M3, 1e-9)
	assert.InDelta(t, 842.921, res.MassTon, 1e-9)
}

func TestCorrectCommand_MassWithDensity(t *testing.T) {
	out, err := execute(t, "correct", "--rho15", "850", "--mass", "500", "--temp", "25")
	require.NoError(t, err)

	var res correction.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, correction.ModeMass, res.Mode)
	assert.InDelta(t, 578.479, res.V15M3, 1e-9)
}

func TestCorrectCommand_Errors(t *testing.T) {
	_, err := execute(t, "correct", "--fuel", "diesel", "--volume", "1", "--mass", "1", "--temp", "20")
	assert.True(t, errors.Is(err, correction.ErrMissingInput))

	_, err = execute(t, "correct", "--fuel", "diesel", "--volume", "1")
	assert.True(t, errors.Is(err, correction.ErrMissingInput))

	_, err = execute(t, "correct", "--fuel", "unobtainium", "--volume", "1", "--temp", "20")
	assert.True(t, errors.Is(err, fuel.ErrUnknownFuel))
}

func TestCorrectCommand_FuelDataOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuels.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"diesel":{"density_15C":860}}`), 0o600))

	out, err := execute(t, "correct", "--fuel-data", path, "--fuel", "diesel", "--volume", "100", "--temp", "15")
	require.NoError(t, err)

	var res correction.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 860.0, res.Rho15, 0)
	assert.InDelta(t, 86.0, res.MassTon, 1e-9)
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "convert", "2", "cum", "litre")
	require.NoError(t, err)
	assert.Equal(t, "2 cum = 2000 litre\n", out)

	_, err = execute(t, "convert", "1", "cum", "tonne")
	assert.True(t, errors.Is(err, units.ErrUnitConversion))

	_, err = execute(t, "convert", "lots", "cum", "litre")
	assert.Error(t, err)

	_, err = execute(t, "convert", "NaN", "cum", "litre")
	assert.True(t, errors.Is(err, correction.ErrMissingInput))
}

func TestFuelsCommand(t *testing.T) {
	out, err := execute(t, "fuels")
	require.NoError(t, err)
	for name := range fuel.Defaults {
		assert.Contains(t, out, name)
	}
}
