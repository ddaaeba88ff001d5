package graphy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariable(t *testing.T) {
	tests := []struct {
		input   string
		want    Variable
		wantErr bool
	}{
		{input: "fps", want: VarFPS},
		{input: "fps_min", want: VarFPSMin},
		{input: "fps_max", want: VarFPSMax},
		{input: "fps_avg", want: VarFPSAvg},
		{input: "ram_allocated", want: VarRAMAllocated},
		{input: "ram_reserved", want: VarRAMReserved},
		{input: "ram_managed", want: VarRAMManaged},
		{input: "audio_peak", want: VarAudioPeak},
		{input: "cpu", wantErr: true},
		{input: "FPS", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariable(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseComparator(t *testing.T) {
	for _, symbol := range []string{"<", "<=", "==", ">=", ">"} {
		got, err := ParseComparator(symbol)
		require.NoError(t, err)
		assert.Equal(t, Comparator(symbol), got)
	}

	for _, bad := range []string{"!=", "=", "<>", "less", ""} {
		_, err := ParseComparator(bad)
		assert.Error(t, err, "comparator %q should be rejected", bad)
	}
}

func TestParseLogic(t *testing.T) {
	all, err := ParseLogic("ALL")
	require.NoError(t, err)
	assert.Equal(t, LogicAll, all)

	any, err := ParseLogic("ANY")
	require.NoError(t, err)
	assert.Equal(t, LogicAny, any)

	for _, bad := range []string{"all", "any", "AND", "OR", ""} {
		_, err := ParseLogic(bad)
		assert.Error(t, err, "logic %q should be rejected", bad)
	}
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []string{"log", "warning", "error"} {
		got, err := ParseSeverity(s)
		require.NoError(t, err)
		assert.Equal(t, Severity(s), got)
	}

	for _, bad := range []string{"info", "WARNING", "fatal", ""} {
		_, err := ParseSeverity(bad)
		assert.Error(t, err, "severity %q should be rejected", bad)
	}
}
